package blog

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Store exposes the content repositories
type Store interface {
	Categories() Categories
	Posts() Posts
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type store struct {
	db         *bun.DB
	categories Categories
	posts      Posts
}

func NewStore(db *bun.DB) Store {
	return &store{
		db:         db,
		categories: NewCategoriesRepository(db),
		posts:      NewPostsRepository(db),
	}
}

func (s store) Validate() error {
	if s.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	if s.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	return nil
}

func (s store) MustValidate() {
	if err := s.Validate(); err != nil {
		log.Panic(err)
	}
}

func (s store) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.db.RunInTx(ctx, opts, f)
	}
}

func (s store) Categories() Categories {
	return s.categories
}

func (s store) Posts() Posts {
	return s.posts
}
