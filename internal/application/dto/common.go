package dto

// Page respuesta paginada: {count, next, previous, results}.
// Next y Previous son URLs absolutas o null.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ErrorResponse cuerpo de error HTTP: campo (o "detail") -> mensajes.
type ErrorResponse map[string][]string
