package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Canonical role slugs seeded by the blog. Gates compare against these
// values, never against display names.
const (
	RoleUser   = "user"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// Role is a named gate. Slug is the stable machine identifier embedded in
// credentials; Name is for people.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Users         []*User    `bun:"m2m:users_roles,join:Role=User" json:"users,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// User is the account model. Email doubles as the name claim, so it is
// non-empty and unique at the persistence layer.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	Image         string     `bun:"image" json:"image,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Roles         []*Role    `bun:"m2m:users_roles,join:User=Role" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// RoleSlugs returns the user's role slugs in attachment order, duplicates
// included.
func (u *User) RoleSlugs() []string {
	if u == nil || len(u.Roles) == 0 {
		return nil
	}
	slugs := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		if role != nil {
			slugs = append(slugs, role.Slug)
		}
	}
	return slugs
}

// UserRole is the users/roles join row. Position preserves attachment order
// so claim sets come out the way roles went in.
type UserRole struct {
	bun.BaseModel `bun:"table:users_roles,alias:usrrol"`
	UserID        uuid.UUID  `bun:"user_id,pk,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	RoleID        uuid.UUID  `bun:"role_id,pk,type:uuid" json:"role_id,omitempty"`
	Role          *Role      `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	Position      int        `bun:"position,notnull,default:0" json:"position,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
