package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/balta-io/2811/auth"
)

// Controllers groups everything RegisterRoutes mounts.
type Controllers struct {
	Gate       *auth.Gate
	Accounts   *AccountsController
	Categories *CategoriesController
	Posts      *PostsController
}

// RegisterRoutes mounts the v1 API. Account sample routes are gated per role
// slug; upload-image only requires a valid credential; categories and posts
// are public.
func RegisterRoutes(app *fiber.App, ctl Controllers) {
	if ctl.Gate == nil {
		panic("Missing Gate in route registration...")
	}

	v1 := app.Group("/v1")

	v1.Post("/accounts", ctl.Accounts.Register)
	v1.Post("/accounts/login", ctl.Accounts.Login)
	v1.Post("/accounts/upload-image",
		auth.RequireRoles(ctl.Gate),
		ctl.Accounts.UploadImage)

	v1.Get("/user", auth.RequireRoles(ctl.Gate, auth.RoleUser), ctl.Accounts.WhoAmI)
	v1.Get("/author", auth.RequireRoles(ctl.Gate, auth.RoleAuthor), ctl.Accounts.WhoAmI)
	v1.Get("/admin", auth.RequireRoles(ctl.Gate, auth.RoleAdmin), ctl.Accounts.WhoAmI)

	v1.Get("/categories", ctl.Categories.List)
	v1.Get("/categories/:id", ctl.Categories.GetByID)
	v1.Get("/categories/slug/:slug", ctl.Categories.GetBySlug)
	v1.Post("/categories", auth.RequireRoles(ctl.Gate, auth.RoleAdmin), ctl.Categories.Create)
	v1.Put("/categories/:id", auth.RequireRoles(ctl.Gate, auth.RoleAdmin), ctl.Categories.Update)
	v1.Delete("/categories/:id", auth.RequireRoles(ctl.Gate, auth.RoleAdmin), ctl.Categories.Delete)

	v1.Get("/posts", ctl.Posts.List)
	v1.Get("/posts/category/:slug", ctl.Posts.ListByCategory)
	v1.Get("/posts/:id", ctl.Posts.GetByID)
}
