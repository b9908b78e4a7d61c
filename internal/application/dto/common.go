package dto

// Ventana de los listados paginados (usuarios, pagos, empresas).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest ventana pedida por el cliente (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize acota la ventana: Limit fuera de rango toma DefaultPageLimit si no vino o es
// negativo, y MaxPageLimit si lo supera; Offset negativo pasa a 0.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	p.Offset = max(p.Offset, 0)
	return p
}

// Response metadatos de la ventana aplicada; total < 0 lo omite.
func (p PageRequest) Response(total int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: max(total, 0)}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
