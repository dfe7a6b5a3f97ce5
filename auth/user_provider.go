package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the narrow lookup surface the provider needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider resolves stored users into identities and performs the
// password check. It is the "verify the caller is who they claim to be"
// collaborator; the token core never sees a password.
type UserProvider struct {
	store  UserStore
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	if logger != nil {
		u.logger = logger
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifiers and bad passwords produce the same error so
// callers cannot probe for accounts.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without a credential check.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}
