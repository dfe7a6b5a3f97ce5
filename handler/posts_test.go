package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balta-io/2811/auth"
	"github.com/balta-io/2811/blog"
	"github.com/balta-io/2811/handler"
)

type fakePosts struct {
	records []*blog.Post
}

func (f *fakePosts) GetWithRelations(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakePosts) ListPage(ctx context.Context, page, pageSize int) ([]blog.PostSummary, int, error) {
	return f.page(f.records, page, pageSize)
}

func (f *fakePosts) ListByCategorySlug(ctx context.Context, slug string, page, pageSize int) ([]blog.PostSummary, int, error) {
	matched := []*blog.Post{}
	for _, record := range f.records {
		if record.Category != nil && record.Category.Slug == slug {
			matched = append(matched, record)
		}
	}
	return f.page(matched, page, pageSize)
}

func (f *fakePosts) page(records []*blog.Post, page, pageSize int) ([]blog.PostSummary, int, error) {
	start := page * pageSize
	if start > len(records) {
		start = len(records)
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	summaries := []blog.PostSummary{}
	for _, record := range records[start:end] {
		summaries = append(summaries, blog.SummarizePost(record))
	}
	return summaries, len(records), nil
}

func seedPosts(t *testing.T, count int, category *blog.Category) *fakePosts {
	t.Helper()

	author := testUser(t, "alice@example.com", "s3cret", "author")

	fake := &fakePosts{}
	for i := 0; i < count; i++ {
		now := time.Now().Add(-time.Duration(i) * time.Hour)
		post := &blog.Post{
			ID:           uuid.New(),
			Title:        "Post " + uuid.NewString()[:8],
			Summary:      "summary",
			Body:         "body",
			Category:     category,
			CategoryID:   category.ID,
			Author:       author,
			AuthorID:     author.ID,
			LastUpdateAt: &now,
		}
		blog.PreparePost(post)
		fake.records = append(fake.records, post)
	}
	return fake
}

func newPostsApp(t *testing.T, posts *fakePosts) *handler.Controllers {
	t.Helper()

	users := newFakeUsers()
	auther := auth.NewAuthenticator(auth.NewUserProvider(users), stubConfig{})

	return &handler.Controllers{
		Gate: auth.NewGate(auther.TokenService()),
		Accounts: handler.NewAccountsController(
			handler.WithAuther(auther),
			handler.WithAccountStore(users),
			handler.WithRoleStore(fakeRoles{}),
		),
		Categories: handler.NewCategoriesController(&fakeCategories{}),
		Posts:      handler.NewPostsController(posts),
	}
}

func TestPosts_List(t *testing.T) {
	category := namedCategory("Backend")
	posts := seedPosts(t, 30, category)
	app := fiberApp(t, *newPostsApp(t, posts))

	t.Run("first page uses the default size", func(t *testing.T) {
		res, body := getPath(t, app, "/v1/posts", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		data, _ := body["data"].(map[string]any)
		assert.EqualValues(t, 30, data["total"])
		assert.EqualValues(t, 25, data["pageSize"])

		list, _ := data["posts"].([]any)
		assert.Len(t, list, 25)
	})

	t.Run("second page carries the remainder", func(t *testing.T) {
		res, body := getPath(t, app, "/v1/posts?page=1", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		data, _ := body["data"].(map[string]any)
		list, _ := data["posts"].([]any)
		assert.Len(t, list, 5)
	})

	t.Run("summaries render the author signature", func(t *testing.T) {
		_, body := getPath(t, app, "/v1/posts?pageSize=1", "")

		data, _ := body["data"].(map[string]any)
		list, _ := data["posts"].([]any)
		require.Len(t, list, 1)

		entry, _ := list[0].(map[string]any)
		assert.Equal(t, "Alice (alice@example.com)", entry["author"])
		assert.Equal(t, "Backend", entry["category"])
	})

	t.Run("absurd page size falls back to the default", func(t *testing.T) {
		_, body := getPath(t, app, "/v1/posts?pageSize=10000", "")

		data, _ := body["data"].(map[string]any)
		assert.EqualValues(t, 25, data["pageSize"])
	})
}

func TestPosts_ListByCategory(t *testing.T) {
	category := namedCategory("Backend")
	posts := seedPosts(t, 3, category)
	app := fiberApp(t, *newPostsApp(t, posts))

	t.Run("matching slug", func(t *testing.T) {
		res, body := getPath(t, app, "/v1/posts/category/backend", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		data, _ := body["data"].(map[string]any)
		assert.EqualValues(t, 3, data["total"])
	})

	t.Run("unknown slug yields an empty page", func(t *testing.T) {
		res, body := getPath(t, app, "/v1/posts/category/nope", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		data, _ := body["data"].(map[string]any)
		assert.EqualValues(t, 0, data["total"])
	})
}

func TestPosts_GetByID(t *testing.T) {
	category := namedCategory("Backend")
	posts := seedPosts(t, 1, category)
	app := fiberApp(t, *newPostsApp(t, posts))

	t.Run("found", func(t *testing.T) {
		res, body := getPath(t, app, "/v1/posts/"+posts.records[0].ID.String(), "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		data, _ := body["data"].(map[string]any)
		assert.Equal(t, posts.records[0].Title, data["title"])
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		res, _ := getPath(t, app, "/v1/posts/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		res, _ := getPath(t, app, "/v1/posts/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}
