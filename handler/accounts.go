package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/balta-io/2811/auth"
)

// AccountStore is the slice of the users repository the controller needs.
type AccountStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error)
	Register(ctx context.Context, user *auth.User) (*auth.User, error)
	AttachRole(ctx context.Context, userID uuid.UUID, role *auth.Role) error
	UpdateImage(ctx context.Context, id uuid.UUID, image string) error
}

var _ AccountStore = (auth.Users)(nil)

// RoleStore resolves the default role granted to new accounts.
type RoleStore interface {
	GetOrCreateBySlug(ctx context.Context, name, slug string) (*auth.Role, error)
}

var _ RoleStore = (auth.Roles)(nil)

// AccountsController serves login, registration, and the account sample
// endpoints gated per role.
type AccountsController struct {
	Debug    bool
	Logger   auth.Logger
	Auther   auth.Authenticator
	Users    AccountStore
	Roles    RoleStore
	ImageDir string
}

type AccountsOption func(*AccountsController) *AccountsController

func NewAccountsController(opts ...AccountsOption) *AccountsController {
	c := &AccountsController{
		Logger:   auth.DefaultLogger(),
		ImageDir: "public/images",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in accounts controller...")
	}

	if c.Users == nil {
		panic("Missing AccountStore in accounts controller...")
	}

	if c.Roles == nil {
		panic("Missing RoleStore in accounts controller...")
	}

	return c
}

func WithAuther(auther auth.Authenticator) AccountsOption {
	return func(c *AccountsController) *AccountsController {
		c.Auther = auther
		return c
	}
}

func WithAccountStore(users AccountStore) AccountsOption {
	return func(c *AccountsController) *AccountsController {
		c.Users = users
		return c
	}
}

func WithRoleStore(roles RoleStore) AccountsOption {
	return func(c *AccountsController) *AccountsController {
		c.Roles = roles
		return c
	}
}

func WithAccountsLogger(logger auth.Logger) AccountsOption {
	return func(c *AccountsController) *AccountsController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithImageDir(dir string) AccountsOption {
	return func(c *AccountsController) *AccountsController {
		if dir != "" {
			c.ImageDir = dir
		}
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login exchanges verified credentials for a signed token.
func (a *AccountsController) Login(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("unable to parse login payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login failed: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(OK(fiber.Map{"token": token}))
}

// RegisterRequest payload
type RegisterRequest struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// Register creates an account with a generated password, grants the default
// user role, and returns the cleartext password exactly once.
func (a *AccountsController) Register(c *fiber.Ctx) error {
	payload := RegisterRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("unable to parse register payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	password := auth.RandomPassword()
	hash, err := auth.HashPassword(password)
	if err != nil {
		a.Logger.Error("register hash failed: %s", err)
		return RespondError(c, err)
	}

	ctx := c.UserContext()

	user, err := a.Users.Register(ctx, &auth.User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
	})
	if err != nil {
		a.Logger.Error("register create failed: %s", err)
		return c.Status(fiber.StatusConflict).JSON(Fail("email is already in use"))
	}

	role, err := a.Roles.GetOrCreateBySlug(ctx, "User", auth.RoleUser)
	if err == nil {
		err = a.Users.AttachRole(ctx, user.ID, role)
	}
	if err != nil {
		a.Logger.Error("register role grant failed: %s", err)
		return RespondError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(user))
	}

	return c.Status(fiber.StatusCreated).JSON(OK(fiber.Map{
		"user":     user.Email,
		"password": password,
	}))
}

// UploadImageRequest payload
type UploadImageRequest struct {
	Base64Image string `form:"base64_image" json:"base64_image"`
}

// Validate will validate the payload
func (r UploadImageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Base64Image, validation.Required),
	)
}

var dataURIPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// UploadImage stores the authenticated user's profile picture from a base64
// payload.
func (a *AccountsController) UploadImage(c *fiber.Ctx) error {
	claims, ok := auth.GetFiberClaims(c, "")
	if !ok {
		return RespondError(c, auth.ErrMissingToken)
	}

	payload := UploadImageRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("unable to parse image payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	data, err := base64.StdEncoding.DecodeString(dataURIPrefix.ReplaceAllString(payload.Base64Image, ""))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Fail("image is not valid base64"))
	}

	userID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return RespondError(c, auth.ErrTokenMalformed)
	}

	fileName := uuid.NewString() + ".jpg"
	if err := os.MkdirAll(a.ImageDir, 0o755); err != nil {
		a.Logger.Error("upload image mkdir failed: %s", err)
		return RespondError(c, err)
	}
	if err := os.WriteFile(filepath.Join(a.ImageDir, fileName), data, 0o644); err != nil {
		a.Logger.Error("upload image write failed: %s", err)
		return RespondError(c, err)
	}

	if err := a.Users.UpdateImage(c.UserContext(), userID, fileName); err != nil {
		a.Logger.Error("upload image update failed: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(OK(fiber.Map{"image": fileName}))
}

// WhoAmI echoes the authenticated name claim; routed once per role gate.
func (a *AccountsController) WhoAmI(c *fiber.Ctx) error {
	claims, ok := auth.GetFiberClaims(c, "")
	if !ok {
		return RespondError(c, auth.ErrMissingToken)
	}
	return c.JSON(OK(claims.NameClaim()))
}
