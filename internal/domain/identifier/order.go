package identifier

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultOrderLetters letras de serie aceptadas en el formulario de orden.
var DefaultOrderLetters = []string{"R", "S", "I", "W", "X"}

var (
	customerRe = regexp.MustCompile(`^\d{3}$`)
	yearRe     = regexp.MustCompile(`^\d{2}$`)
	seqRe      = regexp.MustCompile(`^\d+$`)
)

// OrderRefParts número de orden capturado por partes (cliente, año, letra, secuencia),
// tal como lo ingresa el operario en el formulario.
type OrderRefParts struct {
	Customer string `json:"customer"`
	Year     string `json:"year"`
	Letter   string `json:"letter"`
	Sequence string `json:"sequence"`
}

// Build arma el número de orden "ddd-yyLnnn" ya normalizado.
func (p OrderRefParts) Build() string {
	return NormalizeOrderRef(fmt.Sprintf("%s-%s%s%s",
		strings.TrimSpace(p.Customer), strings.TrimSpace(p.Year),
		strings.TrimSpace(p.Letter), strings.TrimSpace(p.Sequence)))
}

// Violations devuelve un mensaje por cada parte inválida. letters vacío usa DefaultOrderLetters.
func (p OrderRefParts) Violations(letters []string) []string {
	if len(letters) == 0 {
		letters = DefaultOrderLetters
	}
	var out []string
	if !customerRe.MatchString(strings.TrimSpace(p.Customer)) {
		out = append(out, "el código de cliente debe tener exactamente 3 dígitos (p. ej. 005)")
	}
	if !yearRe.MatchString(strings.TrimSpace(p.Year)) {
		out = append(out, "el año debe tener exactamente 2 dígitos (p. ej. 26)")
	}
	letter := strings.ToUpper(strings.TrimSpace(p.Letter))
	found := false
	for _, l := range letters {
		if l == letter {
			found = true
			break
		}
	}
	if !found {
		out = append(out, fmt.Sprintf("la letra de la orden debe ser una de %s", strings.Join(letters, ", ")))
	}
	if !seqRe.MatchString(strings.TrimSpace(p.Sequence)) {
		out = append(out, "la secuencia solo puede contener dígitos (p. ej. 01, 1, 001)")
	}
	return out
}

// CurrentYear2 año en dos dígitos (UTC) usado como valor por defecto del formulario.
func CurrentYear2(t time.Time) string {
	return fmt.Sprintf("%02d", t.UTC().Year()%100)
}
