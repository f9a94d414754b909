package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthenticated    = errors.New("credenciales de autenticación no provistas o inválidas")
	ErrInvalidCredentials = errors.New("no existe una cuenta activa con las credenciales indicadas")
	ErrInvalidPage        = errors.New("página inválida")
)

// FieldDetail clave usada cuando el error no pertenece a un campo concreto.
const FieldDetail = "detail"

// ValidationError agrupa mensajes de validación por campo (400 en la capa HTTP).
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError crea un error con un único mensaje para field.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add agrega un mensaje al campo indicado.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors indica si hay al menos un mensaje registrado.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implementa error. Los campos se ordenan para que el texto sea estable.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
