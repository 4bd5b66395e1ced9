// Package label define el contenido y la geometría de las etiquetas de resorte.
// Cada página es una etiqueta: el número de resorte como texto visible y como código QR.
package label

import (
	"strings"

	"github.com/jhoicas/resortes-api/internal/domain"
)

// Layout geometría de la etiqueta en milímetros. Los offsets se miden desde el borde superior
// izquierdo de la página.
type Layout struct {
	WidthMM  float64
	HeightMM float64

	TextLeftMM float64
	TextTopMM  float64
	TextSizePt float64

	QRSizeMM  float64
	QRRightMM float64 // distancia del QR al borde derecho
	QRTopMM   float64
}

// DefaultLayout etiqueta DYMO 99012 (89 x 36 mm): texto arriba a la izquierda, QR de 26 mm a la derecha.
var DefaultLayout = Layout{
	WidthMM:    89,
	HeightMM:   36,
	TextLeftMM: 4,
	TextTopMM:  8,
	TextSizePt: 12,
	QRSizeMM:   26,
	QRRightMM:  4,
	QRTopMM:    4,
}

// QRLeftMM posición horizontal del QR.
func (l Layout) QRLeftMM() float64 {
	return l.WidthMM - l.QRSizeMM - l.QRRightMM
}

// Page una etiqueta. Payload es exactamente lo que codifica el QR.
type Page struct {
	Payload string
	Text    string
}

// Sheet documento de etiquetas: una página por copia.
type Sheet struct {
	PartID string
	Layout Layout
	Pages  []Page
}

// NewSheet arma copies páginas idénticas para partID. copies < 1 es un error de validación,
// no un documento vacío. Un layout sin dimensiones usa DefaultLayout.
func NewSheet(partID string, copies int, layout Layout) (Sheet, error) {
	var violations []string
	if strings.TrimSpace(partID) == "" {
		violations = append(violations, "el número de resorte es obligatorio para imprimir etiquetas")
	}
	if copies < 1 {
		violations = append(violations, "la cantidad de etiquetas debe ser 1 o mayor")
	}
	if err := domain.NewValidationError(violations); err != nil {
		return Sheet{}, err
	}
	if layout.WidthMM <= 0 || layout.HeightMM <= 0 {
		layout = DefaultLayout
	}
	pages := make([]Page, copies)
	for i := range pages {
		pages[i] = Page{Payload: partID, Text: partID}
	}
	return Sheet{PartID: partID, Layout: layout, Pages: pages}, nil
}

// Filename nombre sugerido para descargar el PDF.
func (s Sheet) Filename() string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s.PartID)
	return "etiquetas_" + safe + ".pdf"
}
