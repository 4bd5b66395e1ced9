package dto

import (
	"time"

	"github.com/jhoicas/resortes-api/internal/domain/identifier"
)

// ConsumeRequest body para POST /api/sessions/:id/consume.
// Se usa OrderRef tal cual o, si viene Order, el número se arma desde sus partes.
type ConsumeRequest struct {
	Initials string                    `json:"initials"`
	OrderRef string                    `json:"order_ref,omitempty"`
	Order    *identifier.OrderRefParts `json:"order,omitempty"`
	Quantity int                       `json:"quantity"`
}

// StatelessConsumeRequest body para POST /api/consumptions: el contenido escaneado viaja en la
// misma petición (string u objeto con text/data/raw/result/value).
type StatelessConsumeRequest struct {
	ScanPayload any `json:"scan_payload"`
	ConsumeRequest
}

// ConsumeResult resultado de un consumo confirmado.
type ConsumeResult struct {
	Sequence            int64  `json:"sequence"`
	PartID              string `json:"part_id"`
	OrderRef            string `json:"order_ref"`
	Initials            string `json:"initials"`
	Quantity            int    `json:"quantity"`
	QtyBefore           int    `json:"qty_before"`
	QtyAfter            int    `json:"qty_after"`
	NotificationOK      bool   `json:"notification_ok"`
	NotificationMessage string `json:"notification_message"`
}

// ReceiveRequest body para POST /api/admin/receipts.
// Con PrintLabels se devuelve el PDF de etiquetas en base64: LabelCopies copias, o tantas como
// Quantity si LabelsMatchQuantity.
type ReceiveRequest struct {
	PartID              string `json:"part_id"`
	Quantity            int    `json:"quantity"`
	Note                string `json:"note,omitempty"`
	PrintLabels         bool   `json:"print_labels"`
	LabelsMatchQuantity bool   `json:"labels_match_quantity"`
	LabelCopies         int    `json:"label_copies,omitempty"`
}

// ReceiveResult resultado de un ingreso confirmado.
type ReceiveResult struct {
	Sequence      int64  `json:"sequence"`
	PartID        string `json:"part_id"`
	Quantity      int    `json:"quantity"`
	QtyBefore     int    `json:"qty_before"`
	QtyAfter      int    `json:"qty_after"`
	LabelCopies   int    `json:"label_copies,omitempty"`
	LabelFilename string `json:"label_filename,omitempty"`
	LabelPDF      []byte `json:"label_pdf,omitempty"`
	LabelError    string `json:"label_error,omitempty"`
}

// BalanceDTO saldo de una parte.
type BalanceDTO struct {
	PartID    string    `json:"part_id"`
	QtyOnHand int       `json:"qty_on_hand"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementDTO entrada del log de movimientos.
type MovementDTO struct {
	Sequence  int64     `json:"sequence"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Kind      string    `json:"kind"`
	PartID    string    `json:"part_id"`
	Quantity  int       `json:"quantity"`
	Initials  string    `json:"initials,omitempty"`
	OrderRef  string    `json:"order_ref,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// DriftDTO diferencia entre el saldo guardado y el recalculado desde el log.
type DriftDTO struct {
	PartID   string `json:"part_id"`
	Stored   int    `json:"stored"`
	Replayed int    `json:"replayed"`
	Missing  bool   `json:"missing,omitempty"`
}

// ReconcileResult resultado de POST /api/admin/reconcile.
type ReconcileResult struct {
	Applied bool       `json:"applied"`
	Drift   []DriftDTO `json:"drift"`
}

// SessionResponse respuesta de POST /api/sessions.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// ScanRequest body para POST /api/sessions/:id/scan.
type ScanRequest struct {
	Payload any `json:"payload"`
}

// ScanResponse estado de la sesión tras un escaneo.
type ScanResponse struct {
	PartID   string `json:"part_id"`
	Detected bool   `json:"detected"`
	State    string `json:"state"`
}

// LoginRequest body para POST /api/admin/login.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse token de administración.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
