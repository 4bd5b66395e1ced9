package repository

import (
	"context"

	"github.com/jhoicas/resortes-api/internal/domain/entity"
)

// DefaultMovementLimit cantidad de movimientos devueltos cuando el filtro no indica límite.
const DefaultMovementLimit = 300

// MovementFilter filtro para listar el log de movimientos (más recientes primero).
type MovementFilter struct {
	PartID string // vacío = todas las partes
	Limit  int
}

// LedgerRepository define el puerto del ledger: saldo por parte + log de movimientos append-only.
//
// Adjust ejecuta como una sola unidad atómica la lectura del saldo, la verificación
// saldo+delta >= 0, la escritura del nuevo saldo y la inserción del movimiento.
// Dos llamadas sobre el mismo partID no se intercalan; partes distintas no se bloquean.
// Si falla no hay efecto observable: domain.ErrInsufficientStock o domain.ErrStoreUnavailable.
type LedgerRepository interface {
	Adjust(ctx context.Context, partID string, delta int, kind entity.MovementKind, meta entity.MovementMeta) (entity.Adjustment, error)
	GetBalance(ctx context.Context, partID string) (entity.PartBalance, bool, error)
	ListBalances(ctx context.Context) ([]entity.PartBalance, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]entity.Movement, error)
	// Reconcile recalcula los saldos desde el log; con apply=true sobrescribe los saldos guardados.
	Reconcile(ctx context.Context, apply bool) ([]entity.BalanceDrift, error)
}
