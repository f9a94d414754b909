package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/dto"
)

// AuthHandler maneja registro de usuarios y emisión de tokens.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /users/ [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ObtainToken godoc
// @Summary      Obtener par de tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenObtainRequest  true  "email, password"
// @Success      200   {object}  dto.TokenPairResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /token/ [post]
func (h *AuthHandler) ObtainToken(c *fiber.Ctx) error {
	var in dto.TokenObtainRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ObtainToken(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RefreshToken godoc
// @Summary      Renovar access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenRefreshRequest  true  "refresh"
// @Success      200   {object}  dto.AccessTokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var in dto.TokenRefreshRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RefreshToken(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
