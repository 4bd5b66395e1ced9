// Package identifier limpia y valida los identificadores que llegan del operario o del
// escáner: iniciales, números de orden y el contenido leído de un código QR.
// Normalizar nunca falla; la validación es un paso separado.
package identifier

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Formato flexible: ddd-yyL<dígitos...> (p. ej. 005-26R01, 005-26S1, 123-27R001).
	orderRefRe = regexp.MustCompile(`^\d{3}-\d{2}[A-Z]\d+$`)
	initialsRe = regexp.MustCompile(`^[A-Z]{2}$`)

	upper = cases.Upper(language.Und)
)

// ScanPayloadKeys campos candidatos, en orden de prioridad, cuando el escáner entrega un objeto.
var ScanPayloadKeys = []string{"text", "data", "raw", "result", "value"}

// NormalizeInitials elimina todo lo que no sea letra, pasa a mayúsculas y conserva
// los dos primeros caracteres. "p.v." → "PV".
func NormalizeInitials(raw string) string {
	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, raw)
	runes := []rune(upper.String(letters))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}

// NormalizeOrderRef quita todos los espacios y pasa a mayúsculas. "  005-26r01 " → "005-26R01".
func NormalizeOrderRef(raw string) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return upper.String(compact)
}

// ValidateOrderRef verifica la gramática \d{3}-\d{2}[A-Z]\d+.
func ValidateOrderRef(s string) bool {
	return orderRefRe.MatchString(s)
}

// ValidateInitials verifica exactamente dos letras mayúsculas.
func ValidateInitials(s string) bool {
	return initialsRe.MatchString(s)
}

// NormalizeScanPayload extrae el texto de lo que entregue el escáner: un string, bytes o un
// objeto (map o struct) del que se prueban los campos de ScanPayloadKeys en orden. Si ninguno
// tiene valor se usa la conversión directa a string. El resultado siempre va sin espacios
// al inicio ni al final.
func NormalizeScanPayload(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case map[string]string:
		for _, k := range ScanPayloadKeys {
			if s := strings.TrimSpace(v[k]); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, k := range ScanPayloadKeys {
			if s := NormalizeScanPayload(v[k]); s != "" {
				return s
			}
		}
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		if s, ok := structField(raw); ok {
			return s
		}
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

// structField busca en un struct (o puntero a struct) un campo exportado cuyo nombre
// coincida, sin distinguir mayúsculas, con alguno de ScanPayloadKeys.
func structField(raw any) (string, bool) {
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", true
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", false
	}
	for _, k := range ScanPayloadKeys {
		f := rv.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, k) })
		if !f.IsValid() || !f.CanInterface() {
			continue
		}
		if s := NormalizeScanPayload(f.Interface()); s != "" {
			return s, true
		}
	}
	return "", false
}
