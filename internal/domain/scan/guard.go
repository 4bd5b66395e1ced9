// Package scan implementa la protección contra lecturas repetidas de un escáner que
// permanece activo: una sola lectura física no puede producir más de un consumo.
package scan

// State estado del guard.
type State int

// Estados posibles.
const (
	StateEmpty    State = iota // esperando lectura
	StateArmed                 // hay un número de resorte listo para consumir
	StateConsumed              // el último valor ya se consumió; listo para la siguiente lectura
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "ARMED"
	case StateConsumed:
		return "CONSUMED"
	default:
		return "EMPTY"
	}
}

// Guard máquina de estados por sesión de operario. No es segura para uso concurrente:
// la sesión que la contiene serializa el acceso.
type Guard struct {
	state State
	value string
}

// Scan registra una lectura ya normalizada. Devuelve true solo cuando se detecta un
// identificador nuevo (el llamador emite entonces un único aviso de lectura).
// Lecturas vacías se ignoran.
func (g *Guard) Scan(v string) bool {
	if v == "" {
		return false
	}
	switch g.state {
	case StateArmed, StateConsumed:
		// El escáner sigue reportando el mismo código en cada refresco.
		if v == g.value {
			return false
		}
	}
	g.state = StateArmed
	g.value = v
	return true
}

// Current valor armado, o "" si no hay nada listo para consumir.
func (g *Guard) Current() string {
	if g.state != StateArmed {
		return ""
	}
	return g.value
}

// State estado actual.
func (g *Guard) State() State { return g.state }

// Committed marca el consumo del valor armado como confirmado. Un nuevo reporte del mismo
// código no vuelve a armarlo; hace falta otro código o Reset.
func (g *Guard) Committed() {
	if g.state == StateArmed {
		g.state = StateConsumed
	}
}

// Reset vuelve a EMPTY (botón "nueva lectura" del operario).
func (g *Guard) Reset() {
	g.state = StateEmpty
	g.value = ""
}
