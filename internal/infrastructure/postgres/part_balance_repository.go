package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
)

// PartBalanceRepo acceso a la tabla part_balances (usable con pool o tx).
type PartBalanceRepo struct {
	q Querier
}

// NewPartBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartBalanceRepository(q Querier) *PartBalanceRepo {
	return &PartBalanceRepo{q: q}
}

// GetForUpdate obtiene el saldo y bloquea solo la fila de esa parte (SELECT FOR UPDATE).
// Si la parte no existe se inserta con saldo 0 dentro de la misma transacción, así la fila
// siempre existe para bloquearla y no hay carrera entre "existe?" e "insertar". Si la
// transacción termina en rollback la fila desaparece.
func (r *PartBalanceRepo) GetForUpdate(ctx context.Context, partID string, now time.Time) (entity.PartBalance, error) {
	seed := `
		INSERT INTO part_balances (part_id, qty_on_hand, updated_at)
		VALUES ($1, 0, $2)
		ON CONFLICT (part_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, partID, now); err != nil {
		return entity.PartBalance{}, fmt.Errorf("seed part balance: %w", err)
	}
	query := `
		SELECT part_id, qty_on_hand, updated_at
		FROM part_balances WHERE part_id = $1
		FOR UPDATE`
	var b entity.PartBalance
	err := r.q.QueryRow(ctx, query, partID).Scan(&b.PartID, &b.QtyOnHand, &b.UpdatedAt)
	if err != nil {
		return entity.PartBalance{}, fmt.Errorf("get part balance for update: %w", err)
	}
	return b, nil
}

// Update guarda el nuevo saldo de una fila ya bloqueada.
func (r *PartBalanceRepo) Update(ctx context.Context, b entity.PartBalance) error {
	query := `UPDATE part_balances SET qty_on_hand = $2, updated_at = $3 WHERE part_id = $1`
	tag, err := r.q.Exec(ctx, query, b.PartID, b.QtyOnHand, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update part balance: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update part balance: %s no existe", b.PartID)
	}
	return nil
}

// Upsert sobrescribe el saldo (solo reconciliación).
func (r *PartBalanceRepo) Upsert(ctx context.Context, b entity.PartBalance) error {
	query := `
		INSERT INTO part_balances (part_id, qty_on_hand, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (part_id)
		DO UPDATE SET qty_on_hand = EXCLUDED.qty_on_hand, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, b.PartID, b.QtyOnHand, b.UpdatedAt); err != nil {
		return fmt.Errorf("upsert part balance: %w", err)
	}
	return nil
}

// Get obtiene el saldo sin bloquear. ok=false si la parte no existe.
func (r *PartBalanceRepo) Get(ctx context.Context, partID string) (entity.PartBalance, bool, error) {
	query := `SELECT part_id, qty_on_hand, updated_at FROM part_balances WHERE part_id = $1`
	var b entity.PartBalance
	err := r.q.QueryRow(ctx, query, partID).Scan(&b.PartID, &b.QtyOnHand, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.PartBalance{}, false, nil
		}
		return entity.PartBalance{}, false, fmt.Errorf("get part balance: %w", err)
	}
	return b, true, nil
}

// List lista todos los saldos ordenados por parte.
func (r *PartBalanceRepo) List(ctx context.Context) ([]entity.PartBalance, error) {
	rows, err := r.q.Query(ctx, `SELECT part_id, qty_on_hand, updated_at FROM part_balances ORDER BY part_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list part balances: %w", err)
	}
	defer rows.Close()
	var list []entity.PartBalance
	for rows.Next() {
		var b entity.PartBalance
		if err := rows.Scan(&b.PartID, &b.QtyOnHand, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan part balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// LockAll bloquea la tabla contra ajustes concurrentes hasta el fin de la transacción.
// Las lecturas simples siguen permitidas.
func (r *PartBalanceRepo) LockAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE part_balances IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock part balances: %w", err)
	}
	return nil
}
