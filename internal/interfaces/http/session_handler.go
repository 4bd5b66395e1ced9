package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
)

// SessionHandler maneja los puestos de escaneo: lecturas del escáner y consumos sobre la
// lectura armada.
type SessionHandler struct {
	uc       *inventory.StockUseCase
	sessions *inventory.SessionRegistry
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *inventory.StockUseCase, sessions *inventory.SessionRegistry) *SessionHandler {
	return &SessionHandler{uc: uc, sessions: sessions}
}

// Open godoc
// @Summary      Abrir sesión de escaneo
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	s := h.sessions.Open()
	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{SessionID: s.ID})
}

// Close godoc
// @Summary      Cerrar sesión de escaneo
// @Tags         sessions
// @Param        id   path  string  true  "ID de sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [delete]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Status godoc
// @Summary      Estado de la sesión de escaneo
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.ScanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(GetSession(c).Status())
}

// Scan godoc
// @Summary      Registrar lectura del escáner
// @Description  Detected es true solo cuando llega un número de resorte nuevo; las lecturas repetidas del mismo código se ignoran.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de sesión"
// @Param        body  body  dto.ScanRequest  true  "payload: string u objeto {text|data|raw|result|value}"
// @Success      200   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/scan [post]
func (h *SessionHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return c.JSON(GetSession(c).Scan(in.Payload))
}

// Reset godoc
// @Summary      Descartar la lectura actual
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.ScanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	return c.JSON(GetSession(c).Reset())
}

// Consume godoc
// @Summary      Consumir el resorte escaneado
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de sesión"
// @Param        body  body  dto.ConsumeRequest  true  "initials, order_ref u order, quantity"
// @Success      201   {object}  dto.ConsumeResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/consume [post]
func (h *SessionHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.ConsumeScanned(c.Context(), GetSession(c), consumeInput(nil, in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func consumeInput(payload any, in dto.ConsumeRequest) inventory.ConsumeInput {
	return inventory.ConsumeInput{
		ScanPayload: payload,
		Initials:    in.Initials,
		OrderRef:    in.OrderRef,
		Order:       in.Order,
		Quantity:    in.Quantity,
	}
}
