package auth

import (
	"context"
	"net/mail"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the account repository surface the auth core depends on.
type Users interface {
	repository.Repository[*User]

	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	AttachRole(ctx context.Context, userID uuid.UUID, role *Role) error
	AttachRoleTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, role *Role) error

	UpdateImage(ctx context.Context, id uuid.UUID, image string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

// GetByIdentifierTx resolves a user by email or id and loads the Roles
// relation in attachment order, so claim sets derived from the record keep
// the order roles were granted in.
func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	column := "id"
	if _, err := mail.ParseAddress(identifier); err == nil {
		column = "email"
		identifier = strings.ToLower(identifier)
	}

	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias."+column+" = ?", identifier).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"identifier": identifier})
		}
		return nil, err
	}

	if err := a.loadOrderedRoles(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) AttachRole(ctx context.Context, userID uuid.UUID, role *Role) error {
	return a.AttachRoleTx(ctx, a.db, userID, role)
}

// AttachRoleTx appends a role grant after any existing ones. Duplicate grants
// are allowed; the claims builder reflects them verbatim.
func (a *users) AttachRoleTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, role *Role) error {
	position, err := tx.NewSelect().
		Model((*UserRole)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return err
	}

	join := &UserRole{
		UserID:   userID,
		RoleID:   role.ID,
		Position: position,
	}

	_, err = tx.NewInsert().Model(join).Exec(ctx)
	return err
}

// UpdateImage points the account at its newly stored profile image.
func (a *users) UpdateImage(ctx context.Context, id uuid.UUID, image string) error {
	result, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("image = ?", image).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func (a *users) loadOrderedRoles(ctx context.Context, tx bun.IDB, user *User) error {
	var joins []*UserRole
	err := tx.NewSelect().
		Model(&joins).
		Relation("Role").
		Where("?TableAlias.user_id = ?", user.ID).
		OrderExpr("?TableAlias.position ASC, ?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return err
	}

	roles := make([]*Role, 0, len(joins))
	for _, join := range joins {
		if join.Role != nil {
			roles = append(roles, join.Role)
		}
	}
	user.Roles = roles

	return nil
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Slug == "" {
		user.Slug = Slugify(user.Name)
	}
}
