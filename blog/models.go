// Package blog holds the content models and repositories behind the public
// API: categories and the posts filed under them. Accounts and roles live in
// the auth package; posts reference users only as authors.
package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/balta-io/2811/auth"
)

// Category groups posts. Slug is the stable machine identifier used in URLs.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Posts         []*Post    `bun:"rel:has-many,join:id=category_id" json:"posts,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is a published article.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Summary       string     `bun:"summary" json:"summary,omitempty"`
	Body          string     `bun:"body" json:"body,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	CategoryID    uuid.UUID  `bun:"category_id,notnull,type:uuid" json:"category_id,omitempty"`
	Category      *Category  `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author        *auth.User `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	LastUpdateAt  *time.Time `bun:"last_update_at,nullzero,default:current_timestamp" json:"last_update_at,omitempty"`
}

// PostSummary is the listing projection: enough to render an index without
// dragging the body along.
type PostSummary struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	LastUpdateAt *time.Time `json:"last_update_at,omitempty"`
	Category     string     `json:"category"`
	Author       string     `json:"author"`
}

// SummarizePost flattens a post with resolved relations into its listing row.
// Authors render as "Name (email)".
func SummarizePost(post *Post) PostSummary {
	summary := PostSummary{
		ID:           post.ID,
		Title:        post.Title,
		Slug:         post.Slug,
		LastUpdateAt: post.LastUpdateAt,
	}

	if post.Category != nil {
		summary.Category = post.Category.Name
	}

	if post.Author != nil {
		summary.Author = post.Author.Name + " (" + post.Author.Email + ")"
	}

	return summary
}
