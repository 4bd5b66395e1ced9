package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resortes-api/internal/application/auth"
	"github.com/jhoicas/resortes-api/internal/application/dto"
)

// AuthHandler maneja el acceso a la administración.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Acceso de administración con PIN
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "pin"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
