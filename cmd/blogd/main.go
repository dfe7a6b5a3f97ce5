package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/balta-io/2811/auth"
	"github.com/balta-io/2811/blog"
	"github.com/balta-io/2811/config"
	"github.com/balta-io/2811/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.BcryptCost > 0 {
		auth.BcryptCost = cfg.BcryptCost
	}

	db, err := openDatabase(cfg.DSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := createSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	repos := auth.NewRepositoryManager(db)
	store := blog.NewStore(db)

	if err := seed(ctx, repos, cfg); err != nil {
		log.Fatalf("seed: %v", err)
	}

	provider := auth.NewUserProvider(repos.Users())
	auther := auth.NewAuthenticator(provider, cfg)
	gate := auth.NewGate(auther.TokenService())

	app := fiber.New(fiber.Config{
		AppName:      "blogd",
		ErrorHandler: fiberErrorHandler,
	})

	handler.RegisterRoutes(app, handler.Controllers{
		Gate: gate,
		Accounts: handler.NewAccountsController(
			handler.WithAuther(auther),
			handler.WithAccountStore(repos.Users()),
			handler.WithRoleStore(repos.Roles()),
			handler.WithImageDir(cfg.ImageDir),
		),
		Categories: handler.NewCategoriesController(store.Categories()),
		Posts:      handler.NewPostsController(store.Posts()),
	})

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*auth.UserRole)(nil))

	return db, db.Ping()
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.Role)(nil),
		(*auth.User)(nil),
		(*auth.UserRole)(nil),
		(*blog.Category)(nil),
		(*blog.Post)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

// seed guarantees the three builtin roles exist and, when configured,
// provisions the first admin account. The generated password is printed once
// and never stored in clear.
func seed(ctx context.Context, repos auth.RepositoryManager, cfg *config.App) error {
	roles := map[string]string{
		auth.RoleUser:   "User",
		auth.RoleAuthor: "Author",
		auth.RoleAdmin:  "Admin",
	}

	for slug, name := range roles {
		if _, err := repos.Roles().GetOrCreateBySlug(ctx, name, slug); err != nil {
			return err
		}
	}

	if cfg.AdminEmail == "" {
		return nil
	}

	if _, err := repos.Users().GetByIdentifier(ctx, cfg.AdminEmail); err == nil {
		return nil
	}

	password := auth.RandomPassword()
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := repos.Users().Register(ctx, &auth.User{
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	for _, slug := range []string{auth.RoleUser, auth.RoleAdmin} {
		role, err := repos.Roles().GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if err := repos.Users().AttachRole(ctx, admin.ID, role); err != nil {
			return err
		}
	}

	log.Printf("seeded admin %s with password %s", admin.Email, password)

	return nil
}

func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(handler.Fail(err.Error()))
}
