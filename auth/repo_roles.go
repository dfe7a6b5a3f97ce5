package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles is the role repository surface.
type Roles interface {
	repository.Repository[*Role]

	GetBySlug(ctx context.Context, slug string) (*Role, error)
	GetOrCreateBySlug(ctx context.Context, name, slug string) (*Role, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) GetBySlug(ctx context.Context, slug string) (*Role, error) {
	record := &Role{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
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

// GetOrCreateBySlug backs role seeding; slugs are unique so repeated calls
// converge on the same row.
func (a *roles) GetOrCreateBySlug(ctx context.Context, name, slug string) (*Role, error) {
	role, err := a.GetBySlug(ctx, slug)
	if err == nil {
		return role, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record := &Role{
		ID:   uuid.New(),
		Name: name,
		Slug: slug,
	}

	return a.Repository.Create(ctx, record)
}
