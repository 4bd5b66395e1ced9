package entity

import "time"

// MovementKind tipo de movimiento de stock.
type MovementKind string

// Tipos de movimiento.
const (
	MovementReceive MovementKind = "RECEIVE" // entrada
	MovementConsume MovementKind = "CONSUME" // consumo contra una orden de trabajo
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k == MovementReceive || k == MovementConsume
}

// Sign devuelve +1 para entradas y -1 para consumos.
func (k MovementKind) Sign() int {
	if k == MovementConsume {
		return -1
	}
	return 1
}

// MovementMeta datos asociados según el tipo: Initials y OrderRef en CONSUME, Note en RECEIVE.
type MovementMeta struct {
	Initials string
	OrderRef string
	Note     string
}

// Movement registro inmutable del log de movimientos. Quantity siempre es positiva;
// el signo lo da Kind.
type Movement struct {
	Sequence  int64
	ID        string
	CreatedAt time.Time
	Kind      MovementKind
	PartID    string
	Quantity  int
	Initials  string
	OrderRef  string
	Note      string
}

// Delta cambio con signo que el movimiento aplica al saldo.
func (m Movement) Delta() int {
	return m.Kind.Sign() * m.Quantity
}

// Adjustment resultado de un ajuste confirmado en el ledger.
type Adjustment struct {
	Before   int
	After    int
	Movement Movement
}
