package dto

// ErrorResponse cuerpo de error HTTP. Details lista cada regla violada en errores de validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// HealthResponse respuesta de GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
