package api

import (
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
)

type Author struct {
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is the JSON view of a post. Content is the rendered body and is only set on the
// single post endpoint.
type Post struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Featured      bool       `json:"featured"`
	Author        Author     `json:"author"`
	Categories    []Category `json:"categories"`
	Content       string     `json:"content,omitempty"`
}

func NewAuthor(a domain.Author) Author {
	var photo string
	if a.Photo != nil {
		photo = a.Photo.URL
	}
	return Author{Name: a.Name, Bio: a.Bio, Photo: photo}
}

func NewCategories(categories []domain.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, Category{Name: c.Name, Slug: c.Slug})
	}
	return out
}

func NewPost(p domain.Post) Post {
	var image string
	if p.FeaturedImage != nil {
		image = p.FeaturedImage.URL
	}
	return Post{
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		FeaturedImage: image,
		CreatedAt:     p.CreatedAt,
		Featured:      p.Featured,
		Author:        NewAuthor(p.Author),
		Categories:    NewCategories(p.Categories),
	}
}

func NewPosts(posts []domain.Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPost(p))
	}
	return out
}
