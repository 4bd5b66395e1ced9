package entity

import "time"

// PartBalance representa el stock actual de un resorte (tabla materializada a partir de los movimientos).
type PartBalance struct {
	PartID    string
	QtyOnHand int
	UpdatedAt time.Time
}

// BalanceDrift diferencia entre el saldo guardado y el saldo recalculado desde el registro.
type BalanceDrift struct {
	PartID   string
	Stored   int
	Replayed int
	Missing  bool // no existe fila de saldo para una parte con movimientos
}
