package memory

import "github.com/jhoicas/resortes-api/internal/domain/entity"

// CorruptBalance reemplaza un saldo sin registrar movimiento, para probar la reconciliación.
func (r *LedgerRepo) CorruptBalance(partID string, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[partID] = entity.PartBalance{PartID: partID, QtyOnHand: qty, UpdatedAt: r.now()}
}
