package inventory

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
)

// MaxQuantity tope de cantidades y saldos: las columnas qty_on_hand y quantity son INTEGER.
const MaxQuantity = math.MaxInt32

// ValidateAdjust verifica los argumentos de un ajuste antes de tocar el ledger:
// parte no vacía, tipo conocido, delta distinto de cero y con el signo del tipo.
func ValidateAdjust(partID string, delta int, kind entity.MovementKind) error {
	var violations []string
	if strings.TrimSpace(partID) == "" {
		violations = append(violations, "el número de resorte es obligatorio")
	}
	if !kind.Valid() {
		violations = append(violations, fmt.Sprintf("tipo de movimiento desconocido: %q", kind))
	} else if delta == 0 || (delta > 0) != (kind.Sign() > 0) {
		violations = append(violations, fmt.Sprintf("delta %d no corresponde a un movimiento %s", delta, kind))
	} else if delta > MaxQuantity || delta < -MaxQuantity {
		violations = append(violations, fmt.Sprintf("la cantidad no puede superar %d", MaxQuantity))
	}
	return domain.NewValidationError(violations)
}

// ApplyDelta calcula el saldo resultante; nunca permite un saldo negativo ni uno mayor que
// MaxQuantity.
// NuevoSaldo = SaldoActual + Delta
func ApplyDelta(partID string, before, delta int) (int, error) {
	if delta > 0 && before > MaxQuantity-delta {
		return before, domain.NewValidationError([]string{
			fmt.Sprintf("el saldo de %s superaría %d (actual %d, ingreso %d)", partID, MaxQuantity, before, delta),
		})
	}
	after := before + delta
	if after < 0 {
		return before, &domain.InsufficientStockError{PartID: partID, OnHand: before, Requested: -delta}
	}
	return after, nil
}

// Replay recalcula el saldo por parte usando solo el log. Los movimientos deben venir en
// orden de secuencia; si algún estado intermedio queda negativo el log es inconsistente.
func Replay(movements []entity.Movement) (map[string]int, error) {
	balances := make(map[string]int)
	for _, m := range movements {
		if m.Quantity <= 0 {
			return nil, fmt.Errorf("%w: movimiento %d con cantidad %d", domain.ErrCorruptLedger, m.Sequence, m.Quantity)
		}
		after := balances[m.PartID] + m.Delta()
		if after < 0 {
			return nil, fmt.Errorf("%w: %s queda en %d tras el movimiento %d", domain.ErrCorruptLedger, m.PartID, after, m.Sequence)
		}
		balances[m.PartID] = after
	}
	return balances, nil
}

// Drift compara saldos guardados con los recalculados. Una parte guardada sin movimientos
// debe tener saldo 0. El resultado va ordenado por parte.
func Drift(stored map[string]int, replayed map[string]int) []entity.BalanceDrift {
	var out []entity.BalanceDrift
	for partID, want := range replayed {
		got, ok := stored[partID]
		if !ok || got != want {
			out = append(out, entity.BalanceDrift{PartID: partID, Stored: got, Replayed: want, Missing: !ok})
		}
	}
	for partID, got := range stored {
		if _, ok := replayed[partID]; !ok && got != 0 {
			out = append(out, entity.BalanceDrift{PartID: partID, Stored: got, Replayed: 0})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartID < out[j].PartID })
	return out
}
