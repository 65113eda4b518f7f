package dto

// Límites de paginación para listados (skip/limit).
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// PageRequest paginación offset-based para listados.
type PageRequest struct {
	Skip  int `query:"skip" json:"skip"`
	Limit int `query:"limit" json:"limit"`
}

// DefaultPage aplica valores por defecto y recorta límites fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"` // elementos en esta página
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
