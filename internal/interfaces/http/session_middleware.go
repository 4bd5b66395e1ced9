package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
)

// LocalSession key de la sesión de escaneo en c.Locals.
const LocalSession = "scan_session"

// sessionFinder es el contrato mínimo que necesita el middleware; lo implementa
// *inventory.SessionRegistry.
type sessionFinder interface {
	Get(id string) (*inventory.Session, error)
}

// RequireSession carga la sesión del parámetro :id. Responde 404 si no existe o expiró.
func RequireSession(finder sessionFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := finder.Get(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code:    "SESSION_NOT_FOUND",
				Message: "la sesión de escaneo no existe o expiró; abra una nueva",
			})
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// GetSession devuelve la sesión cargada por RequireSession.
func GetSession(c *fiber.Ctx) *inventory.Session {
	s, _ := c.Locals(LocalSession).(*inventory.Session)
	return s
}
