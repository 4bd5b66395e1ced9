package inventory

import (
	"context"

	"github.com/jhoicas/resortes-api/internal/domain/label"
)

// Notifier avisa de un consumo confirmado. No devuelve error: ok=false y message explican por
// qué no se envió. Un aviso fallido nunca deshace el consumo.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) (ok bool, message string)
}

// LabelRenderer convierte un documento de etiquetas en bytes imprimibles (PDF).
type LabelRenderer interface {
	RenderLabels(ctx context.Context, sheet label.Sheet) ([]byte, error)
}
