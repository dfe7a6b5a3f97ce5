package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes the account repositories
type RepositoryManager interface {
	Users() Users
	Roles() Roles
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type mngr struct {
	db    *bun.DB
	users Users
	roles Roles
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db),
		roles: NewRolesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.roles == nil {
		return errors.New("repository roles should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Roles() Roles {
	return m.roles
}
