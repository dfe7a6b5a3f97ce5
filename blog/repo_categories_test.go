package blog_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/balta-io/2811/blog"
)

func testCategories(t *testing.T) blog.Categories {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxIdleConns(1000)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*blog.Category)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	return blog.NewCategoriesRepository(db)
}

func TestCategoriesRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := testCategories(t)

	created, err := repo.CreateCategory(ctx, &blog.Category{Name: "Tech News"})
	require.NoError(t, err)
	require.Equal(t, "tech-news", created.Slug)

	t.Run("rename re-derives the slug", func(t *testing.T) {
		updated, err := repo.UpdateCategory(ctx, &blog.Category{ID: created.ID, Name: "Science"})
		require.NoError(t, err)
		assert.Equal(t, "science", updated.Slug)

		reloaded, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Science", reloaded.Name)
		assert.Equal(t, "science", reloaded.Slug)

		bySlug, err := repo.GetBySlug(ctx, "science")
		require.NoError(t, err)
		assert.Equal(t, created.ID, bySlug.ID)
	})

	t.Run("explicit slug is kept, lowercased", func(t *testing.T) {
		updated, err := repo.UpdateCategory(ctx, &blog.Category{ID: created.ID, Name: "Science", Slug: "Sci"})
		require.NoError(t, err)
		assert.Equal(t, "sci", updated.Slug)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.UpdateCategory(ctx, &blog.Category{ID: uuid.New(), Name: "Ghost"})
		assert.True(t, repository.IsRecordNotFound(err))
	})
}

func TestCategoriesRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := testCategories(t)

	created, err := repo.CreateCategory(ctx, &blog.Category{Name: "Mobile"})
	require.NoError(t, err)

	removed, err := repo.DeleteCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, repository.IsRecordNotFound(err))
}
