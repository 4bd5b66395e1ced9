package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/resortes-api/internal/domain/scan"
)

// feed envía lecturas al guard y cuenta cuántos avisos de "nuevo identificador" se emiten.
func feed(g *scan.Guard, values ...string) int {
	n := 0
	for _, v := range values {
		if g.Scan(v) {
			n++
		}
	}
	return n
}

func TestGuard_MismoValorDosVecesUnSoloAviso(t *testing.T) {
	var g scan.Guard
	assert.Equal(t, 1, feed(&g, "X1", "X1"))
	assert.Equal(t, scan.StateArmed, g.State())
	assert.Equal(t, "X1", g.Current())
}

func TestGuard_ValoresDistintosDosAvisos(t *testing.T) {
	var g scan.Guard
	assert.Equal(t, 2, feed(&g, "X1", "X2"))
	assert.Equal(t, "X2", g.Current())
}

func TestGuard_LecturaVaciaIgnorada(t *testing.T) {
	var g scan.Guard
	assert.Equal(t, 0, feed(&g, "", ""))
	assert.Equal(t, scan.StateEmpty, g.State())
	assert.Equal(t, "", g.Current())
}

func TestGuard_CommitDejaListoParaSiguienteLectura(t *testing.T) {
	var g scan.Guard
	g.Scan("X1")
	g.Committed()

	assert.Equal(t, scan.StateConsumed, g.State())
	assert.Equal(t, "", g.Current(), "tras el commit no queda nada armado")

	// El escáner sigue viendo la misma etiqueta: no se rearma.
	assert.False(t, g.Scan("X1"))
	assert.Equal(t, "", g.Current())

	// Otra etiqueta sí.
	assert.True(t, g.Scan("X2"))
	assert.Equal(t, "X2", g.Current())
}

func TestGuard_SinCommitSigueArmado(t *testing.T) {
	var g scan.Guard
	g.Scan("X1")
	// Falla del commit: el llamador no invoca Committed y el operario puede reintentar.
	assert.Equal(t, "X1", g.Current())
	assert.Equal(t, scan.StateArmed, g.State())
}

func TestGuard_ResetPermiteRepetirMismoCodigo(t *testing.T) {
	var g scan.Guard
	g.Scan("X1")
	g.Committed()
	g.Reset()

	assert.Equal(t, scan.StateEmpty, g.State())
	assert.True(t, g.Scan("X1"))
	assert.Equal(t, "X1", g.Current())
}

func TestGuard_CommitSinArmarNoCambiaEstado(t *testing.T) {
	var g scan.Guard
	g.Committed()
	assert.Equal(t, scan.StateEmpty, g.State())
	assert.Equal(t, "EMPTY", g.State().String())
}
