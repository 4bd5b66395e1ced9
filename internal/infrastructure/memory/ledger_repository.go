// Package memory implementa el ledger en memoria: desarrollo local (STORE_DRIVER=memory) y tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
	"github.com/jhoicas/resortes-api/internal/domain/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo guarda saldos y movimientos en memoria.
//
// Cada parte tiene su propio mutex que cubre la secuencia leer-verificar-escribir, así que
// partes distintas no se bloquean. mu protege solo los mapas y el slice, y se toma en
// escritura una sola vez por ajuste para publicar saldo y movimiento juntos.
// gate lo toman los ajustes en modo lectura y Reconcile(apply) en modo exclusivo.
type LedgerRepo struct {
	gate sync.RWMutex

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	mu        sync.RWMutex
	balances  map[string]entity.PartBalance
	movements []entity.Movement
	seq       int64

	now func() time.Time
}

// NewLedgerRepository construye un ledger vacío.
func NewLedgerRepository() *LedgerRepo {
	return &LedgerRepo{
		locks:    make(map[string]*sync.Mutex),
		balances: make(map[string]entity.PartBalance),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *LedgerRepo) partLock(partID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[partID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[partID] = l
	}
	return l
}

// Adjust aplica delta al saldo de partID y agrega el movimiento en una sola unidad.
func (r *LedgerRepo) Adjust(_ context.Context, partID string, delta int, kind entity.MovementKind, meta entity.MovementMeta) (entity.Adjustment, error) {
	if err := inventory.ValidateAdjust(partID, delta, kind); err != nil {
		return entity.Adjustment{}, err
	}

	r.gate.RLock()
	defer r.gate.RUnlock()

	l := r.partLock(partID)
	l.Lock()
	defer l.Unlock()

	r.mu.RLock()
	before := r.balances[partID].QtyOnHand
	r.mu.RUnlock()

	after, err := inventory.ApplyDelta(partID, before, delta)
	if err != nil {
		return entity.Adjustment{Before: before, After: before}, err
	}

	now := r.now()
	mov := entity.Movement{
		ID:        uuid.New().String(),
		CreatedAt: now,
		Kind:      kind,
		PartID:    partID,
		Quantity:  abs(delta),
	}
	switch kind {
	case entity.MovementConsume:
		mov.Initials = meta.Initials
		mov.OrderRef = meta.OrderRef
	case entity.MovementReceive:
		mov.Note = meta.Note
	}

	r.mu.Lock()
	r.seq++
	mov.Sequence = r.seq
	r.movements = append(r.movements, mov)
	r.balances[partID] = entity.PartBalance{PartID: partID, QtyOnHand: after, UpdatedAt: now}
	r.mu.Unlock()

	return entity.Adjustment{Before: before, After: after, Movement: mov}, nil
}

// GetBalance devuelve el saldo de la parte; ok=false si nunca tuvo movimientos.
func (r *LedgerRepo) GetBalance(_ context.Context, partID string) (entity.PartBalance, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.balances[partID]
	return b, ok, nil
}

// ListBalances lista los saldos ordenados por parte.
func (r *LedgerRepo) ListBalances(_ context.Context) ([]entity.PartBalance, error) {
	r.mu.RLock()
	list := make([]entity.PartBalance, 0, len(r.balances))
	for _, b := range r.balances {
		list = append(list, b)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].PartID < list[j].PartID })
	return list, nil
}

// ListMovements lista movimientos del más reciente al más antiguo.
func (r *LedgerRepo) ListMovements(_ context.Context, filter repository.MovementFilter) ([]entity.Movement, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultMovementLimit
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]entity.Movement, 0, min(limit, len(r.movements)))
	for i := len(r.movements) - 1; i >= 0 && len(list) < limit; i-- {
		m := r.movements[i]
		if filter.PartID != "" && m.PartID != filter.PartID {
			continue
		}
		list = append(list, m)
	}
	return list, nil
}

// Reconcile recalcula los saldos desde el log. Con apply espera a que terminen los ajustes
// en curso y los bloquea mientras reescribe los saldos.
func (r *LedgerRepo) Reconcile(_ context.Context, apply bool) ([]entity.BalanceDrift, error) {
	if apply {
		r.gate.Lock()
		defer r.gate.Unlock()
		r.mu.Lock()
		defer r.mu.Unlock()
	} else {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	replayed, err := inventory.Replay(r.movements)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]int, len(r.balances))
	for id, b := range r.balances {
		stored[id] = b.QtyOnHand
	}
	drift := inventory.Drift(stored, replayed)
	if apply {
		now := r.now()
		for _, d := range drift {
			r.balances[d.PartID] = entity.PartBalance{PartID: d.PartID, QtyOnHand: d.Replayed, UpdatedAt: now}
		}
	}
	return drift, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
