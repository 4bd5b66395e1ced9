package inventory

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
)

// ListBalances devuelve los saldos ordenados por parte.
func (uc *StockUseCase) ListBalances(ctx context.Context) ([]dto.BalanceDTO, error) {
	list, err := uc.ledger.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceDTO, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BalanceDTO{PartID: b.PartID, QtyOnHand: b.QtyOnHand, UpdatedAt: b.UpdatedAt})
	}
	return out, nil
}

// ListMovements devuelve el log más reciente primero (por defecto los últimos 300).
func (uc *StockUseCase) ListMovements(ctx context.Context, partID string, limit int) ([]dto.MovementDTO, error) {
	list, err := uc.ledger.ListMovements(ctx, repository.MovementFilter{PartID: partID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementDTO{
			Sequence:  m.Sequence,
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			Kind:      string(m.Kind),
			PartID:    m.PartID,
			Quantity:  m.Quantity,
			Initials:  m.Initials,
			OrderRef:  m.OrderRef,
			Note:      m.Note,
		})
	}
	return out, nil
}

// ExportBalancesCSV escribe los saldos como CSV con encabezado part_id,qty_on_hand.
func (uc *StockUseCase) ExportBalancesCSV(ctx context.Context, w io.Writer) error {
	list, err := uc.ledger.ListBalances(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"part_id", "qty_on_hand"}); err != nil {
		return err
	}
	for _, b := range list {
		if err := cw.Write([]string{b.PartID, strconv.Itoa(b.QtyOnHand)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Reconcile compara los saldos con los recalculados desde el log; con apply los corrige.
func (uc *StockUseCase) Reconcile(ctx context.Context, apply bool) (*dto.ReconcileResult, error) {
	drift, err := uc.ledger.Reconcile(ctx, apply)
	if err != nil {
		uc.log.Error().Err(err).Bool("apply", apply).Msg("reconciliación fallida")
		return nil, err
	}
	res := &dto.ReconcileResult{Applied: apply, Drift: make([]dto.DriftDTO, 0, len(drift))}
	for _, d := range drift {
		res.Drift = append(res.Drift, dto.DriftDTO{PartID: d.PartID, Stored: d.Stored, Replayed: d.Replayed, Missing: d.Missing})
		uc.log.Warn().Str("part_id", d.PartID).Int("stored", d.Stored).Int("replayed", d.Replayed).
			Bool("applied", apply).Msg("saldo distinto al log")
	}
	uc.log.Info().Int("drift", len(drift)).Bool("apply", apply).Msg("reconciliación terminada")
	return res, nil
}
