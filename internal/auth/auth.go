package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 72 * time.Hour

// Admin is the single account allowed to change the catalog.
type Admin struct {
	Email        string
	PasswordHash string
}

// Authenticate checks the credentials against the configured admin. An admin
// without a password hash can never sign in.
func (a Admin) Authenticate(email, password string) error {
	if a.PasswordHash == "" || a.Email == "" {
		return ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), a.Email) {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs an HS256 token for the given admin email.
func IssueToken(secret, email string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Middleware rejects requests without a valid bearer token.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

type Handler struct {
	admin  Admin
	secret string
	now    func() time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(admin Admin, secret string) *Handler {
	return &Handler{admin: admin, secret: secret, now: time.Now}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.admin.Authenticate(payload.Email, payload.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	signed, err := IssueToken(h.secret, h.admin.Email, h.now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   signed,
	})
}
