package auth

// UserIdentity adapts a User into the Identity interface for claim building.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user. The
// user's Roles relation must already be resolved; the adapter performs no
// lookups of its own.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's slug.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Slug
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Roles returns the user's role slugs in attachment order.
func (u UserIdentity) Roles() []string {
	if u.user == nil {
		return nil
	}
	return u.user.RoleSlugs()
}
