package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/resortes-api/internal/domain"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// TxFunc recibe los repos atados a la transacción.
type TxFunc func(balances *PartBalanceRepo, movements *MovementRepo) error

// SnapshotTx lectura consistente: todas las consultas ven la misma foto de la base.
var SnapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// Run inicia una transacción (READ COMMITTED), ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Fallas al abrir o confirmar la transacción se reportan como
// domain.ErrStoreUnavailable; los errores de fn se devuelven sin cambios.
func (r *TxRunner) Run(ctx context.Context, fn TxFunc) error {
	return r.RunWith(ctx, pgx.TxOptions{}, fn)
}

// RunWith es Run con opciones de transacción explícitas.
func (r *TxRunner) RunWith(ctx context.Context, opts pgx.TxOptions, fn TxFunc) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return domain.StoreError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPartBalanceRepository(tx), NewMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StoreError("commit transaction", err)
	}
	return nil
}
