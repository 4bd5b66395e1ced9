// Package pdf genera las etiquetas de resorte en PDF con Maroto v2.
//
// Layout de cada página (DYMO 99012, 89 x 36 mm por defecto):
//
//	┌───────────────────────────────────────┐
//	│  LSR-12345                  ┌──────┐  │
//	│                             │  QR  │  │
//	│                             │      │  │
//	│                             └──────┘  │
//	└───────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	"github.com/boombuler/barcode/qr"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/resortes-api/internal/domain/label"
)

const (
	gridSize = 12
	qrCols   = 4
)

// MarotoLabelGenerator implementa inventory.LabelRenderer usando Maroto v2.
type MarotoLabelGenerator struct{}

// NewMarotoLabelGenerator construye el generador.
func NewMarotoLabelGenerator() *MarotoLabelGenerator { return &MarotoLabelGenerator{} }

// RenderLabels genera el PDF del documento: una página por etiqueta.
func (g *MarotoLabelGenerator) RenderLabels(ctx context.Context, sheet label.Sheet) ([]byte, error) {
	if len(sheet.Pages) == 0 {
		return nil, fmt.Errorf("pdf: documento sin etiquetas")
	}
	// Se valida el contenido del QR antes de maquetar: un payload no codificable falla acá
	// con un error claro y no a mitad de la generación.
	for _, p := range sheet.Pages {
		if _, err := EncodePayload(p.Payload); err != nil {
			return nil, err
		}
	}

	l := sheet.Layout
	cfg := config.NewBuilder().
		WithDimensions(l.WidthMM, l.HeightMM).
		WithLeftMargin(l.TextLeftMM).WithRightMargin(l.QRRightMM).
		WithTopMargin(l.QRTopMM).WithBottomMargin(l.QRTopMM).
		WithDefaultFont(&props.Font{Family: fontfamily.Helvetica, Size: l.TextSizePt}).
		WithTitle("Etiquetas "+sheet.PartID, true).
		Build()

	m := maroto.New(cfg)
	for _, p := range sheet.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddPages(labelPage(l, p))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// labelPage: texto a la izquierda, QR en la columna derecha.
func labelPage(l label.Layout, p label.Page) core.Page {
	height := l.HeightMM - 2*l.QRTopMM
	usable := l.WidthMM - l.TextLeftMM - l.QRRightMM
	qrCol := usable * qrCols / gridSize
	percent := 100.0
	if qrCol > 0 && l.QRSizeMM < qrCol {
		percent = l.QRSizeMM / qrCol * 100
	}

	return page.New().Add(
		row.New(height).Add(
			col.New(gridSize-qrCols).Add(
				text.New(p.Text, props.Text{
					Family: fontfamily.Helvetica,
					Style:  fontstyle.Bold,
					Size:   l.TextSizePt,
					Top:    l.TextTopMM - l.QRTopMM,
				}),
			),
			col.New(qrCols).Add(code.NewQr(p.Payload, props.Rect{
				Percent: percent,
			})),
		),
	)
}

// EncodePayload codifica el payload como QR (corrección M) y devuelve el contenido que
// decodificaría un lector. Un payload vacío no es válido.
func EncodePayload(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("pdf: payload QR vacío")
	}
	bc, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("pdf: codificar QR %q: %w", payload, err)
	}
	return bc.Content(), nil
}
