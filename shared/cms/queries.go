package cms

import "github.com/dfryer1193/cmsblog/shared/graphql"

// The operation catalog. Every document is parsed when the package loads.
var (
	listPostsOp = graphql.MustParseOperation("ListPosts", `
		query ListPosts {
			posts {
				author {
					bio
					id
					name
					photo {
						url
					}
				}
				createdAt
				slug
				title
				excerpt
				featuredPost
				featuredImage {
					url
				}
				categories {
					name
					slug
				}
			}
		}
	`)

	listCategoriesOp = graphql.MustParseOperation("ListCategories", `
		query ListCategories {
			categories {
				name
				slug
			}
		}
	`)

	getPostOp = graphql.MustParseOperation("GetPostDetails", `
		query GetPostDetails($slug: String!) {
			post(where: {slug: $slug}) {
				id
				title
				excerpt
				featuredPost
				featuredImage {
					url
				}
				author {
					id
					name
					bio
					photo {
						url
					}
				}
				createdAt
				slug
				content {
					raw
				}
				categories {
					name
					slug
				}
			}
		}
	`)

	similarPostsOp = graphql.MustParseOperation("GetSimilarPosts", `
		query GetSimilarPosts($slug: String!, $categories: [String!]) {
			posts(
				where: {slug_not: $slug, AND: {categories_some: {slug_in: $categories}}}
				last: 3
			) {
				title
				featuredImage {
					url
				}
				createdAt
				slug
			}
		}
	`)

	adjacentPostsOp = graphql.MustParseOperation("GetAdjacentPosts", `
		query GetAdjacentPosts($createdAt: DateTime!, $slug: String!) {
			next: posts(
				first: 1
				orderBy: createdAt_ASC
				where: {slug_not: $slug, AND: {createdAt_gte: $createdAt}}
			) {
				title
				featuredImage {
					url
				}
				createdAt
				slug
			}
			previous: posts(
				first: 1
				orderBy: createdAt_DESC
				where: {slug_not: $slug, AND: {createdAt_lte: $createdAt}}
			) {
				title
				featuredImage {
					url
				}
				createdAt
				slug
			}
		}
	`)

	categoryPostsOp = graphql.MustParseOperation("GetCategoryPosts", `
		query GetCategoryPosts($slug: String!) {
			postsConnection(where: {categories_some: {slug: $slug}}) {
				edges {
					cursor
					node {
						author {
							bio
							name
							id
							photo {
								url
							}
						}
						createdAt
						slug
						title
						excerpt
						featuredImage {
							url
						}
						categories {
							name
							slug
						}
					}
				}
			}
		}
	`)

	featuredPostsOp = graphql.MustParseOperation("GetFeaturedPosts", `
		query GetFeaturedPosts {
			posts(where: {featuredPost: true}) {
				author {
					id
					name
					bio
					photo {
						url
					}
				}
				featuredImage {
					url
				}
				title
				slug
				createdAt
			}
		}
	`)

	recentPostsOp = graphql.MustParseOperation("GetRecentPosts", `
		query GetRecentPosts {
			posts(orderBy: createdAt_ASC, last: 3) {
				title
				featuredImage {
					url
				}
				createdAt
				slug
			}
		}
	`)

	commentsByPostOp = graphql.MustParseOperation("GetComments", `
		query GetComments($slug: String!) {
			comments(where: {post: {slug: $slug}}) {
				name
				createdAt
				comment
			}
		}
	`)

	commentsWithPostOp = graphql.MustParseOperation("GetAllCommentsWithPost", `
		query GetAllCommentsWithPost {
			comments {
				name
				createdAt
				comment
				post {
					slug
					title
				}
			}
		}
	`)

	allCommentsOp = graphql.MustParseOperation("GetAllComments", `
		query GetAllComments {
			comments {
				name
				createdAt
				comment
			}
		}
	`)

	findPostOp = authenticated(graphql.MustParseOperation("FindPost", `
		query FindPost($slug: String!) {
			post(where: {slug: $slug}) {
				id
				slug
				title
			}
		}
	`))

	createLinkedCommentOp = graphql.MustParseOperation("CreateComment", `
		mutation CreateComment($name: String!, $email: String!, $comment: String!, $postId: ID!) {
			createComment(data: {
				name: $name,
				email: $email,
				comment: $comment,
				post: {connect: {id: $postId}}
			}) {
				id
				name
				comment
				post {
					slug
				}
			}
		}
	`)

	createUnlinkedCommentOp = graphql.MustParseOperation("CreateUnlinkedComment", `
		mutation CreateUnlinkedComment($name: String!, $email: String!, $comment: String!) {
			createComment(data: {
				name: $name,
				email: $email,
				comment: $comment
			}) {
				id
				name
			}
		}
	`)
)

// authenticated marks a query that runs on the privileged comment path.
func authenticated(op graphql.Operation) graphql.Operation {
	op.Authenticated = true
	return op
}
