package handler

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/balta-io/2811/auth"
	"github.com/balta-io/2811/blog"
)

// CategoryStore is the slice of the categories repository the controller
// needs.
type CategoryStore interface {
	List(ctx context.Context) ([]*blog.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*blog.Category, error)
	GetBySlug(ctx context.Context, slug string) (*blog.Category, error)
	CreateCategory(ctx context.Context, record *blog.Category) (*blog.Category, error)
	UpdateCategory(ctx context.Context, record *blog.Category) (*blog.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (*blog.Category, error)
}

var _ CategoryStore = (blog.Categories)(nil)

// CategoriesController serves the category CRUD resource.
type CategoriesController struct {
	Logger auth.Logger
	Store  CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	if store == nil {
		panic("Missing CategoryStore in categories controller...")
	}
	return &CategoriesController{
		Logger: auth.DefaultLogger(),
		Store:  store,
	}
}

// CategoryRequest payload
type CategoryRequest struct {
	Name string `form:"name" json:"name"`
}

// Validate will validate the payload
func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 80)),
	)
}

// List returns every category.
func (h *CategoriesController) List(c *fiber.Ctx) error {
	records, err := h.Store.List(c.UserContext())
	if err != nil {
		h.Logger.Error("category list failed: %s", err)
		return RespondError(c, err)
	}
	return c.JSON(OK(records))
}

// GetByID returns one category by its id.
func (h *CategoriesController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("invalid category id"))
	}

	record, err := h.Store.GetByID(c.UserContext(), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(OK(record))
}

// GetBySlug returns one category by its slug.
func (h *CategoriesController) GetBySlug(c *fiber.Ctx) error {
	record, err := h.Store.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(OK(record))
}

// Create adds a category and returns the stored record.
func (h *CategoriesController) Create(c *fiber.Ctx) error {
	payload := CategoryRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("unable to parse category payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	record, err := h.Store.CreateCategory(c.UserContext(), &blog.Category{Name: payload.Name})
	if err != nil {
		h.Logger.Error("category create failed: %s", err)
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(OK(record))
}

// Update renames a category; the slug follows the new name.
func (h *CategoriesController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("invalid category id"))
	}

	payload := CategoryRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("unable to parse category payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	record, err := h.Store.UpdateCategory(c.UserContext(), &blog.Category{
		ID:   id,
		Name: payload.Name,
	})
	if err != nil {
		h.Logger.Error("category update failed: %s", err)
		return RespondError(c, err)
	}
	return c.JSON(OK(record))
}

// Delete removes a category and returns the removed record.
func (h *CategoriesController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("invalid category id"))
	}

	record, err := h.Store.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(OK(record))
}
