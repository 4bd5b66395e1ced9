package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
	"github.com/jhoicas/resortes-api/internal/domain/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del ledger sobre PostgreSQL.
// Cada Adjust es una transacción: bloqueo de la fila de la parte (SELECT FOR UPDATE),
// verificación del saldo, UPDATE del saldo e INSERT del movimiento, y Commit o Rollback.
type LedgerRepo struct {
	pool     *pgxpool.Pool
	txRunner *TxRunner
	now      func() time.Time
}

// NewLedgerRepository construye el ledger con el pool.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{
		pool:     pool,
		txRunner: NewTxRunner(pool),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Adjust aplica delta al saldo de partID y agrega el movimiento en la misma transacción.
func (r *LedgerRepo) Adjust(ctx context.Context, partID string, delta int, kind entity.MovementKind, meta entity.MovementMeta) (entity.Adjustment, error) {
	if err := inventory.ValidateAdjust(partID, delta, kind); err != nil {
		return entity.Adjustment{}, err
	}

	var adj entity.Adjustment
	err := r.txRunner.Run(ctx, func(balances *PartBalanceRepo, movements *MovementRepo) error {
		now := r.now()
		bal, err := balances.GetForUpdate(ctx, partID, now)
		if err != nil {
			return err
		}
		after, err := inventory.ApplyDelta(partID, bal.QtyOnHand, delta)
		if err != nil {
			adj = entity.Adjustment{Before: bal.QtyOnHand, After: bal.QtyOnHand}
			return err
		}

		bal.QtyOnHand = after
		bal.UpdatedAt = now
		if err := balances.Update(ctx, bal); err != nil {
			return err
		}
		mov := entity.Movement{
			CreatedAt: now,
			Kind:      kind,
			PartID:    partID,
			Quantity:  delta * kind.Sign(),
		}
		if kind == entity.MovementConsume {
			mov.Initials = meta.Initials
			mov.OrderRef = meta.OrderRef
		} else {
			mov.Note = meta.Note
		}
		if err := movements.Create(ctx, &mov); err != nil {
			return err
		}
		adj = entity.Adjustment{Before: after - delta, After: after, Movement: mov}
		return nil
	})
	if err != nil {
		return adj, r.translate(partID, delta, adj.Before, "adjust", err)
	}
	return adj, nil
}

// translate deja pasar errores de dominio; el CHECK qty_on_hand >= 0 se reporta como stock
// insuficiente y cualquier otra falla como almacén no disponible.
func (r *LedgerRepo) translate(partID string, delta, before int, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrCorruptLedger):
		return err
	case isCheckViolation(err):
		return &domain.InsufficientStockError{PartID: partID, OnHand: before, Requested: -delta}
	case isOutOfRange(err):
		return domain.NewValidationError([]string{fmt.Sprintf("la cantidad de %s excede el rango permitido", partID)})
	default:
		return domain.StoreError(op, err)
	}
}

// GetBalance obtiene el saldo de una parte.
func (r *LedgerRepo) GetBalance(ctx context.Context, partID string) (entity.PartBalance, bool, error) {
	b, ok, err := NewPartBalanceRepository(r.pool).Get(ctx, partID)
	if err != nil {
		return entity.PartBalance{}, false, domain.StoreError("get balance", err)
	}
	return b, ok, nil
}

// ListBalances lista los saldos ordenados por parte.
func (r *LedgerRepo) ListBalances(ctx context.Context) ([]entity.PartBalance, error) {
	list, err := NewPartBalanceRepository(r.pool).List(ctx)
	if err != nil {
		return nil, domain.StoreError("list balances", err)
	}
	return list, nil
}

// ListMovements lista el log, más reciente primero.
func (r *LedgerRepo) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]entity.Movement, error) {
	list, err := NewMovementRepository(r.pool).List(ctx, filter)
	if err != nil {
		return nil, domain.StoreError("list movements", err)
	}
	return list, nil
}

// Reconcile recalcula los saldos desde el log dentro de una transacción. Con apply bloquea
// part_balances (los ajustes esperan) y sobrescribe los saldos que difieren. Sin apply lee
// log y saldos en una única foto REPEATABLE READ de solo lectura.
func (r *LedgerRepo) Reconcile(ctx context.Context, apply bool) ([]entity.BalanceDrift, error) {
	var drift []entity.BalanceDrift
	err := r.txRunner.RunWith(ctx, reconcileTxOptions(apply), func(balances *PartBalanceRepo, movements *MovementRepo) error {
		if apply {
			if err := balances.LockAll(ctx); err != nil {
				return err
			}
		}
		movs, err := movements.ListAll(ctx)
		if err != nil {
			return err
		}
		replayed, err := inventory.Replay(movs)
		if err != nil {
			return err
		}
		list, err := balances.List(ctx)
		if err != nil {
			return err
		}
		stored := make(map[string]int, len(list))
		for _, b := range list {
			stored[b.PartID] = b.QtyOnHand
		}
		drift = inventory.Drift(stored, replayed)
		if !apply {
			return nil
		}
		now := r.now()
		for _, d := range drift {
			if err := balances.Upsert(ctx, entity.PartBalance{PartID: d.PartID, QtyOnHand: d.Replayed, UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, r.translate("", 0, 0, "reconcile", err)
	}
	return drift, nil
}

// reconcileTxOptions con apply usa la tx por defecto (LockAll serializa contra los ajustes);
// sin apply usa SnapshotTx para que ningún ajuste confirmado entre las dos lecturas
// aparezca como diferencia.
func reconcileTxOptions(apply bool) pgx.TxOptions {
	if apply {
		return pgx.TxOptions{}
	}
	return SnapshotTx
}
