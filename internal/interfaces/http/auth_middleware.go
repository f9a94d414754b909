package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// LocalUser key de Locals donde queda el usuario autenticado.
const LocalUser = "user"

// AuthMiddleware valida el Bearer Token (access) y carga el usuario en c.Locals.
// Cualquier fallo termina en 401 vía el ErrorHandler.
func AuthMiddleware(uc *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := uc.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado (después del middleware de auth) o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el ID del usuario autenticado o 0.
func GetUserID(c *fiber.Ctx) int64 {
	if u := GetUser(c); u != nil {
		return u.ID
	}
	return 0
}
