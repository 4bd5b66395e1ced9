package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
)

// MovementRepo acceso a la tabla movements (append-only: no hay UPDATE ni DELETE).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `sequence, id::text, created_at, kind, part_id, quantity, initials, order_ref, note`

// Create persiste un movimiento y completa su Sequence asignada por la base.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, created_at, kind, part_id, quantity, initials, order_ref, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.CreatedAt, string(m.Kind), m.PartID, m.Quantity,
		nullable(m.Initials), nullable(m.OrderRef), nullable(m.Note),
	).Scan(&m.Sequence)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List lista movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]entity.Movement, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultMovementLimit
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	args := []any{}
	pos := 1
	if filter.PartID != "" {
		query += fmt.Sprintf(" WHERE part_id = $%d", pos)
		args = append(args, filter.PartID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sequence DESC LIMIT $%d", pos)
	args = append(args, limit)
	return r.query(ctx, query, args...)
}

// ListAll devuelve el log completo en orden de secuencia (para recalcular saldos).
func (r *MovementRepo) ListAll(ctx context.Context) ([]entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM movements ORDER BY sequence ASC`)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []entity.Movement
	for rows.Next() {
		var (
			m                        entity.Movement
			kind                     string
			initials, orderRef, note *string
		)
		if err := rows.Scan(&m.Sequence, &m.ID, &m.CreatedAt, &kind, &m.PartID, &m.Quantity,
			&initials, &orderRef, &note); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.Initials = deref(initials)
		m.OrderRef = deref(orderRef)
		m.Note = deref(note)
		list = append(list, m)
	}
	return list, rows.Err()
}
