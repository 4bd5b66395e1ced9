package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStoreUnavailable  = errors.New("almacén de datos no disponible")
	ErrCorruptLedger     = errors.New("el registro de movimientos es inconsistente")
)

// ValidationError reúne todas las reglas violadas de una entrada (no solo la primera).
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Violations []string
}

// NewValidationError devuelve nil si no hay violaciones.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError describe un consumo rechazado por falta de stock.
type InsufficientStockError struct {
	PartID    string
	OnHand    int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: %s (actual %d, solicitado %d)", ErrInsufficientStock.Error(), e.PartID, e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StoreError envuelve una falla de infraestructura como ErrStoreUnavailable, conservando la causa.
func StoreError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, cause)
}
