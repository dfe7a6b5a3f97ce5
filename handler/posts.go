package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/balta-io/2811/blog"
)

// PostStore is the slice of the posts repository the controller needs.
type PostStore interface {
	GetWithRelations(ctx context.Context, id uuid.UUID) (*blog.Post, error)
	ListPage(ctx context.Context, page, pageSize int) ([]blog.PostSummary, int, error)
	ListByCategorySlug(ctx context.Context, slug string, page, pageSize int) ([]blog.PostSummary, int, error)
}

var _ PostStore = (blog.Posts)(nil)

// PostsController serves the post listings.
type PostsController struct {
	Store PostStore
}

func NewPostsController(store PostStore) *PostsController {
	if store == nil {
		panic("Missing PostStore in posts controller...")
	}
	return &PostsController{Store: store}
}

// PageResult wraps a page of summaries with the paging window so clients can
// drive infinite scroll without a separate count call.
type PageResult struct {
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Posts    []blog.PostSummary `json:"posts"`
}

// List returns a page of post summaries, newest update first.
func (h *PostsController) List(c *fiber.Ctx) error {
	page, pageSize := pagingParams(c)

	posts, total, err := h.Store.ListPage(c.UserContext(), page, pageSize)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(OK(PageResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Posts:    posts,
	}))
}

// ListByCategory returns a page of post summaries for one category slug.
func (h *PostsController) ListByCategory(c *fiber.Ctx) error {
	page, pageSize := pagingParams(c)

	posts, total, err := h.Store.ListByCategorySlug(c.UserContext(), c.Params("slug"), page, pageSize)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(OK(PageResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Posts:    posts,
	}))
}

// GetByID returns a single post with its category and author loaded.
func (h *PostsController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("invalid post id"))
	}

	record, err := h.Store.GetWithRelations(c.UserContext(), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(OK(record))
}

func pagingParams(c *fiber.Ctx) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page", "0"))
	if page < 0 {
		page = 0
	}

	pageSize, _ = strconv.Atoi(c.Query("pageSize", "25"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = blog.DefaultPageSize
	}

	return page, pageSize
}
