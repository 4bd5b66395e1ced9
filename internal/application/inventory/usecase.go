package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
	"github.com/jhoicas/resortes-api/internal/domain/identifier"
	stock "github.com/jhoicas/resortes-api/internal/domain/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/label"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
)

// Options parámetros del caso de uso. Los valores cero usan los de dominio.
type Options struct {
	OrderLetters []string
	LabelLayout  label.Layout
	Now          func() time.Time
}

// StockUseCase orquesta consumos e ingresos de resortes: normaliza y valida la entrada, aplica el
// ajuste atómico en el ledger y, después de confirmarlo, notifica o genera etiquetas.
type StockUseCase struct {
	ledger   repository.LedgerRepository
	notifier Notifier
	labels   LabelRenderer
	opts     Options
	log      zerolog.Logger
}

// NewStockUseCase construye el caso de uso. notifier y labels pueden ser nil: el consumo informa
// la notificación como no enviada y la generación de etiquetas falla con un mensaje.
func NewStockUseCase(
	ledger repository.LedgerRepository,
	notifier Notifier,
	labels LabelRenderer,
	opts Options,
	log zerolog.Logger,
) *StockUseCase {
	if len(opts.OrderLetters) == 0 {
		opts.OrderLetters = identifier.DefaultOrderLetters
	}
	if opts.LabelLayout.WidthMM <= 0 || opts.LabelLayout.HeightMM <= 0 {
		opts.LabelLayout = label.DefaultLayout
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &StockUseCase{
		ledger:   ledger,
		notifier: notifier,
		labels:   labels,
		opts:     opts,
		log:      log.With().Str("component", "stock").Logger(),
	}
}

// ConsumeInput entrada de un consumo. ScanPayload es lo que entregó el escáner (string u objeto).
// Si Order no es nil el número de orden se arma desde sus partes y OrderRef se ignora.
type ConsumeInput struct {
	ScanPayload any
	Initials    string
	OrderRef    string
	Order       *identifier.OrderRefParts
	Quantity    int
}

// ReceiveInput entrada de un ingreso.
type ReceiveInput struct {
	PartID              string
	Quantity            int
	Note                string
	PrintLabels         bool
	LabelsMatchQuantity bool
	LabelCopies         int
}

// LabelDocument PDF de etiquetas listo para descargar.
type LabelDocument struct {
	Filename string
	Copies   int
	PDF      []byte
}

// Consume valida la entrada completa, descuenta la cantidad y envía un único aviso.
// Los errores del ledger (stock insuficiente, almacén no disponible) se devuelven sin cambios.
func (uc *StockUseCase) Consume(ctx context.Context, in ConsumeInput) (*dto.ConsumeResult, error) {
	partID := identifier.NormalizeScanPayload(in.ScanPayload)
	initials := identifier.NormalizeInitials(in.Initials)

	var violations []string
	if partID == "" {
		violations = append(violations, "el número de resorte es obligatorio (escanee el código QR)")
	}
	if !identifier.ValidateInitials(initials) {
		violations = append(violations, "las iniciales deben ser exactamente 2 letras (p. ej. PV)")
	}
	var orderRef string
	if in.Order != nil {
		violations = append(violations, in.Order.Violations(uc.opts.OrderLetters)...)
		orderRef = in.Order.Build()
	} else {
		orderRef = identifier.NormalizeOrderRef(in.OrderRef)
		if !identifier.ValidateOrderRef(orderRef) {
			violations = append(violations, "el número de orden debe tener el formato ddd-yyLnnn (p. ej. 005-26R01)")
		}
	}
	if in.Quantity < 1 {
		violations = append(violations, "la cantidad debe ser 1 o mayor")
	} else if in.Quantity > stock.MaxQuantity {
		violations = append(violations, fmt.Sprintf("la cantidad no puede superar %d", stock.MaxQuantity))
	}
	if err := domain.NewValidationError(violations); err != nil {
		return nil, err
	}

	adj, err := uc.ledger.Adjust(ctx, partID, -in.Quantity, entity.MovementConsume, entity.MovementMeta{
		Initials: initials,
		OrderRef: orderRef,
	})
	if err != nil {
		uc.logRejected(err, "consumo", partID, in.Quantity)
		return nil, err
	}
	uc.log.Info().
		Str("part_id", partID).Str("order_ref", orderRef).Str("initials", initials).
		Int("quantity", in.Quantity).Int("before", adj.Before).Int("after", adj.After).
		Int64("sequence", adj.Movement.Sequence).
		Msg("consumo registrado")

	res := &dto.ConsumeResult{
		Sequence:  adj.Movement.Sequence,
		PartID:    partID,
		OrderRef:  orderRef,
		Initials:  initials,
		Quantity:  in.Quantity,
		QtyBefore: adj.Before,
		QtyAfter:  adj.After,
	}
	res.NotificationOK, res.NotificationMessage = uc.notify(ctx, res, adj.Movement.CreatedAt)
	return res, nil
}

func (uc *StockUseCase) notify(ctx context.Context, res *dto.ConsumeResult, at time.Time) (bool, string) {
	if uc.notifier == nil {
		return false, "notificación deshabilitada"
	}
	if at.IsZero() {
		at = uc.opts.Now()
	}
	subject := fmt.Sprintf("Consumo de resorte %s (orden %s)", res.PartID, res.OrderRef)
	body := fmt.Sprintf(
		"Orden: %s\nResorte: %s\nCantidad consumida: %d\nIniciales: %s\nFecha (UTC): %s\nStock actual: %d\n",
		res.OrderRef, res.PartID, res.Quantity, res.Initials,
		at.UTC().Format("2006-01-02 15:04:05"), res.QtyAfter,
	)
	ok, msg := uc.notifier.Notify(ctx, subject, body)
	if !ok {
		uc.log.Warn().Str("part_id", res.PartID).Int64("sequence", res.Sequence).Str("reason", msg).
			Msg("consumo registrado sin notificación")
	}
	return ok, msg
}

// Receive suma la cantidad al saldo. Con PrintLabels genera además el PDF de etiquetas; si esa
// generación falla el ingreso queda confirmado y el motivo va en LabelError.
func (uc *StockUseCase) Receive(ctx context.Context, in ReceiveInput) (*dto.ReceiveResult, error) {
	partID := identifier.NormalizeScanPayload(in.PartID)

	var violations []string
	if partID == "" {
		violations = append(violations, "el número de resorte es obligatorio")
	}
	if in.Quantity < 1 {
		violations = append(violations, "la cantidad debe ser 1 o mayor")
	} else if in.Quantity > stock.MaxQuantity {
		violations = append(violations, fmt.Sprintf("la cantidad no puede superar %d", stock.MaxQuantity))
	}
	copies := in.LabelCopies
	if in.LabelsMatchQuantity {
		copies = in.Quantity
	}
	if in.PrintLabels && !in.LabelsMatchQuantity && copies < 1 {
		violations = append(violations, "la cantidad de etiquetas debe ser 1 o mayor")
	}
	if err := domain.NewValidationError(violations); err != nil {
		return nil, err
	}

	adj, err := uc.ledger.Adjust(ctx, partID, in.Quantity, entity.MovementReceive, entity.MovementMeta{Note: in.Note})
	if err != nil {
		uc.logRejected(err, "ingreso", partID, in.Quantity)
		return nil, err
	}
	uc.log.Info().
		Str("part_id", partID).Int("quantity", in.Quantity).
		Int("before", adj.Before).Int("after", adj.After).Int64("sequence", adj.Movement.Sequence).
		Msg("ingreso registrado")

	res := &dto.ReceiveResult{
		Sequence:  adj.Movement.Sequence,
		PartID:    partID,
		Quantity:  in.Quantity,
		QtyBefore: adj.Before,
		QtyAfter:  adj.After,
	}
	if !in.PrintLabels {
		return res, nil
	}
	doc, err := uc.RenderLabels(ctx, partID, copies)
	if err != nil {
		uc.log.Warn().Str("part_id", partID).Int("copies", copies).Err(err).
			Msg("ingreso registrado sin etiquetas")
		res.LabelError = err.Error()
		return res, nil
	}
	res.LabelCopies = doc.Copies
	res.LabelFilename = doc.Filename
	res.LabelPDF = doc.PDF
	return res, nil
}

// RenderLabels genera copies etiquetas para partID (reimpresión; no toca el ledger).
func (uc *StockUseCase) RenderLabels(ctx context.Context, partID string, copies int) (*LabelDocument, error) {
	partID = identifier.NormalizeScanPayload(partID)
	sheet, err := label.NewSheet(partID, copies, uc.opts.LabelLayout)
	if err != nil {
		return nil, err
	}
	if uc.labels == nil {
		return nil, errors.New("generador de etiquetas no configurado")
	}
	pdf, err := uc.labels.RenderLabels(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("generar etiquetas %s: %w", partID, err)
	}
	return &LabelDocument{Filename: sheet.Filename(), Copies: len(sheet.Pages), PDF: pdf}, nil
}

func (uc *StockUseCase) logRejected(err error, op, partID string, qty int) {
	var ev *zerolog.Event
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		ev = uc.log.Error()
	default:
		ev = uc.log.Warn()
	}
	ev.Err(err).Str("part_id", partID).Int("quantity", qty).Msg(op + " rechazado")
}
