package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfryer1193/cmsblog/api"
	"github.com/dfryer1193/cmsblog/shared/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, fake *fakeCMS, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := newTestRouter(t, graphql.Config{}, fake)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetPosts(t *testing.T) {
	fake := &fakeCMS{responses: map[string]fakeResponse{
		"ListPosts": {http.StatusOK, `{"data":{"posts":[{
			"slug":"hello-world","title":"Hello","excerpt":"Intro","featuredPost":true,
			"featuredImage":{"url":"https://media.example.com/a.png"},
			"createdAt":"2024-01-02T00:00:00Z",
			"author":{"name":"Ada","bio":"Writes"},
			"categories":[{"name":"Go","slug":"go"}]
		}]}}`},
	}}

	rec := get(t, fake, "/api/posts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"slug": "hello-world",
		"title": "Hello",
		"excerpt": "Intro",
		"featuredImage": "https://media.example.com/a.png",
		"createdAt": "2024-01-02T00:00:00Z",
		"featured": true,
		"author": {"name": "Ada", "bio": "Writes"},
		"categories": [{"name": "Go", "slug": "go"}]
	}]`, rec.Body.String())
}

func TestGetPosts_UpstreamFailureIsAnEmptyList(t *testing.T) {
	fake := &fakeCMS{responses: map[string]fakeResponse{"ListPosts": upstreamDown}}

	rec := get(t, fake, "/api/posts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetPost(t *testing.T) {
	fake := &fakeCMS{responses: map[string]fakeResponse{
		"GetPostDetails": {http.StatusOK, `{"data":{"post":{
			"slug":"hello-world","title":"Hello","createdAt":"2024-01-02T00:00:00Z",
			"content":{"raw":{"children":[{"type":"paragraph","children":[{"text":"Body"}]}]}}
		}}}`},
	}}

	rec := get(t, fake, "/api/posts/hello-world")

	require.Equal(t, http.StatusOK, rec.Code)

	var post api.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, `<p class="mb-8">Body</p>`, post.Content)
}

func TestGetPost_NotFound(t *testing.T) {
	fake := &fakeCMS{responses: map[string]fakeResponse{
		"GetPostDetails": {http.StatusOK, `{"data":{"post":null}}`},
	}}

	rec := get(t, fake, "/api/posts/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Post not found"}`, rec.Body.String())
}

func TestGetCategoryPosts(t *testing.T) {
	fake := &fakeCMS{responses: map[string]fakeResponse{
		"GetCategoryPosts": {http.StatusOK, `{"data":{"postsConnection":{"edges":[{"cursor":"c1","node":{"slug":"a","title":"A","createdAt":"2024-01-02T00:00:00Z"}}]}}}`},
		"ListCategories":   {http.StatusOK, `{"data":{"categories":[{"name":"Go","slug":"go"}]}}`},
	}}

	rec := get(t, fake, "/api/categories/go/posts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"a"`)

	rec = get(t, fake, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Go","slug":"go"}]`, rec.Body.String())
}
