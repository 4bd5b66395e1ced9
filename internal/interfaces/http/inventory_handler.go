package http

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
	"github.com/jhoicas/resortes-api/internal/domain"
)

// InventoryHandler maneja consumos sin sesión y las operaciones de administración del stock.
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Consume godoc
// @Summary      Registrar consumo (sin sesión)
// @Description  El contenido escaneado viaja en scan_payload. No protege contra lecturas repetidas: para eso use /api/sessions.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StatelessConsumeRequest  true  "scan_payload, initials, order_ref u order, quantity"
// @Success      201   {object}  dto.ConsumeResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/consumptions [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.StatelessConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.Consume(c.Context(), consumeInput(in.ScanPayload, in.ConsumeRequest))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Receive godoc
// @Summary      Registrar ingreso de resortes
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "part_id, quantity, note, print_labels, labels_match_quantity, label_copies"
// @Success      201   {object}  dto.ReceiveResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/admin/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.Receive(c.Context(), inventory.ReceiveInput{
		PartID:              in.PartID,
		Quantity:            in.Quantity,
		Note:                in.Note,
		PrintLabels:         in.PrintLabels,
		LabelsMatchQuantity: in.LabelsMatchQuantity,
		LabelCopies:         in.LabelCopies,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListBalances godoc
// @Summary      Saldos por resorte
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BalanceDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/admin/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	list, err := h.uc.ListBalances(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "balances": list})
}

// ExportBalances godoc
// @Summary      Exportar saldos a CSV
// @Tags         admin
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/admin/balances/export [get]
func (h *InventoryHandler) ExportBalances(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.ExportBalancesCSV(c.Context(), &buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="saldos.csv"`)
	return c.Send(buf.Bytes())
}

// ListMovements godoc
// @Summary      Log de movimientos (más reciente primero)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        part_id  query  string  false  "Filtrar por resorte"
// @Param        limit    query  int     false  "Máximo de filas (por defecto 300)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/admin/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.uc.ListMovements(c.Context(), c.Query("part_id"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// Labels godoc
// @Summary      Imprimir etiquetas de un resorte
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Param        part_id  path   string  true   "Número de resorte"
// @Param        copies   query  int     false  "Cantidad de etiquetas (por defecto 1)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/admin/labels/{part_id} [get]
func (h *InventoryHandler) Labels(c *fiber.Ctx) error {
	partID, err := pathParam(c, "part_id")
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.uc.RenderLabels(c.Context(), partID, c.QueryInt("copies", 1))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Send(doc.PDF)
}

// Reconcile godoc
// @Summary      Comparar saldos con el log de movimientos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        apply  query  bool  false  "Corregir los saldos distintos"
// @Success      200  {object}  dto.ReconcileResult
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/admin/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.uc.Reconcile(c.Context(), c.QueryBool("apply", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// pathParam devuelve el parámetro de ruta decodificado (fiber lo entrega tal como vino en la URL).
func pathParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", domain.NewValidationError([]string{fmt.Sprintf("%s mal codificado en la ruta", name)})
	}
	return v, nil
}
