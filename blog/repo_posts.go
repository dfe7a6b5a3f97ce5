package blog

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/balta-io/2811/auth"
)

// DefaultPageSize bounds post listings when the caller does not pick one.
const DefaultPageSize = 25

// Posts is the post repository surface.
type Posts interface {
	repository.Repository[*Post]

	GetWithRelations(ctx context.Context, id uuid.UUID) (*Post, error)
	ListPage(ctx context.Context, page, pageSize int) ([]PostSummary, int, error)
	ListByCategorySlug(ctx context.Context, slug string, page, pageSize int) ([]PostSummary, int, error)
	CreatePost(ctx context.Context, record *Post) (*Post, error)
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

// GetWithRelations loads a post with its category and author resolved.
func (r *posts) GetWithRelations(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Category").
		Relation("Author").
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

// ListPage returns one page of post summaries, newest first, plus the total
// row count for pagination envelopes.
func (r *posts) ListPage(ctx context.Context, page, pageSize int) ([]PostSummary, int, error) {
	return r.listPage(ctx, page, pageSize, nil)
}

// ListByCategorySlug is ListPage narrowed to one category.
func (r *posts) ListByCategorySlug(ctx context.Context, slug string, page, pageSize int) ([]PostSummary, int, error) {
	slug = strings.ToLower(slug)
	return r.listPage(ctx, page, pageSize, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("cat.slug = ?", slug)
	})
}

func (r *posts) listPage(ctx context.Context, page, pageSize int, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]PostSummary, int, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var records []*Post
	q := r.db.NewSelect().
		Model(&records).
		Relation("Category").
		Relation("Author")

	if filter != nil {
		q = filter(q)
	}

	total, err := q.
		OrderExpr("?TableAlias.last_update_at DESC").
		Limit(pageSize).
		Offset(page * pageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]PostSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, SummarizePost(record))
	}

	return summaries, total, nil
}

func (r *posts) CreatePost(ctx context.Context, record *Post) (*Post, error) {
	PreparePost(record)
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// PreparePost fills defaults before insert.
func PreparePost(record *Post) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Slug == "" {
		record.Slug = auth.Slugify(record.Title)
	}
	record.Slug = strings.ToLower(record.Slug)
}
