package blog

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/balta-io/2811/auth"
)

// Categories is the category repository surface. It does not embed
// repository.Repository: List and GetByID carry narrower signatures than the
// generic ones.
type Categories interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, record *Category) (*Category, error)
	UpdateCategory(ctx context.Context, record *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (*Category, error)
}

type categories struct {
	repository.Repository[*Category]
	db *bun.DB
}

var _ Categories = (*categories)(nil)

func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &categories{
		Repository: repo,
		db:         db,
	}
}

func (r *categories) List(ctx context.Context) ([]*Category, error) {
	var records []*Category
	err := r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *categories) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", strings.ToLower(slug)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"slug": slug})
		}
		return nil, err
	}
	return record, nil
}

func (r *categories) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *categories) CreateCategory(ctx context.Context, record *Category) (*Category, error) {
	PrepareCategory(record)
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateCategory rewrites name and slug; the record must exist. An empty slug
// is re-derived from the new name so renames never blank the unique slug.
func (r *categories) UpdateCategory(ctx context.Context, record *Category) (*Category, error) {
	if record.Slug == "" {
		record.Slug = auth.Slugify(record.Name)
	}
	record.Slug = strings.ToLower(record.Slug)
	result, err := r.db.NewUpdate().
		Model(record).
		Column("name", "slug").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": record.ID.String()})
	}
	return record, nil
}

// DeleteCategory removes the row and returns what was deleted, mirroring the
// API's "return the removed record" contract.
func (r *categories) DeleteCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

// PrepareCategory fills defaults before insert: generated id, lowercase slug
// derived from the name when absent.
func PrepareCategory(record *Category) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Slug == "" {
		record.Slug = auth.Slugify(record.Name)
	}
	record.Slug = strings.ToLower(record.Slug)
}
