package stub

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// AuthHandler serves the login, register and refresh endpoints.
type AuthHandler struct {
	store      *Store
	tokens     *TokenManager
	refreshTTL time.Duration
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store *Store, tokens *TokenManager, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, refreshTTL: refreshTTL}
}

// Login handles POST /auth/login. The response body is the bare access
// token; the refresh token travels in the X-Refresh-Token header.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	acct, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := h.tokens.Generate(acct)
	if err != nil {
		return err
	}
	c.Set("X-Refresh-Token", h.store.IssueRefreshToken(acct.ID, h.refreshTTL))
	return c.SendString(token)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleAdmin {
		return fiber.NewError(http.StatusBadRequest, "role must be student or teacher")
	}

	acct, err := h.store.CreateAccount(req.Name, req.Email, req.Password, role)
	if err != nil {
		return fiber.NewError(http.StatusConflict, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":    acct.ID,
		"email": acct.Email,
		"role":  acct.Role.Claim(),
	})
}

// Refresh handles POST /auth/refresh-token. Unauthenticated by design: the
// refresh token is the credential.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refreshToken required")
	}

	acct, err := h.store.RedeemRefreshToken(req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid or expired refresh token")
	}
	token, err := h.tokens.Generate(acct)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"accessToken": token})
}
