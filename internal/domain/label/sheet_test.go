package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/label"
)

func TestNewSheet_TresCopias(t *testing.T) {
	sheet, err := label.NewSheet("LSR-12345", 3, label.DefaultLayout)
	require.NoError(t, err)
	require.Len(t, sheet.Pages, 3)
	for _, p := range sheet.Pages {
		assert.Equal(t, "LSR-12345", p.Payload)
		assert.Equal(t, "LSR-12345", p.Text)
	}
}

func TestNewSheet_Determinista(t *testing.T) {
	a, err := label.NewSheet("LSR-1", 2, label.DefaultLayout)
	require.NoError(t, err)
	b, err := label.NewSheet("LSR-1", 2, label.DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewSheet_CopiasInvalidas(t *testing.T) {
	_, err := label.NewSheet("LSR-1", 0, label.DefaultLayout)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = label.NewSheet("", 1, label.DefaultLayout)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewSheet_LayoutVacioUsaDefault(t *testing.T) {
	sheet, err := label.NewSheet("LSR-1", 1, label.Layout{})
	require.NoError(t, err)
	assert.Equal(t, label.DefaultLayout, sheet.Layout)
	assert.InDelta(t, 59.0, sheet.Layout.QRLeftMM(), 0.001)
}

func TestSheet_Filename(t *testing.T) {
	sheet, err := label.NewSheet("LSR 12/3", 1, label.DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, "etiquetas_LSR_12_3.pdf", sheet.Filename())
}
