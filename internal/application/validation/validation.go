// Package validation adapta go-playground/validator al formato de errores de la API
// (campo JSON -> lista de mensajes).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/tienda-api/internal/domain"
)

// Mensajes reutilizados por validaciones explícitas en los casos de uso.
const (
	MsgRequired = "este campo es obligatorio."
	MsgBlank    = "este campo no puede estar vacío."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reporta los campos por su nombre JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct valida s según sus tags. Devuelve *domain.ValidationError o nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range ve {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// MaxLen valida la longitud de s en caracteres (no bytes).
func MaxLen(s string, max int) bool {
	return len([]rune(s)) <= max
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return "introduzca una dirección de correo electrónico válida."
	case "min":
		return fmt.Sprintf("asegúrese de que este campo tenga al menos %s caracteres.", fe.Param())
	case "max":
		return fmt.Sprintf("asegúrese de que este campo no tenga más de %s caracteres.", fe.Param())
	case "gte":
		return fmt.Sprintf("asegúrese de que este valor sea mayor o igual a %s.", fe.Param())
	default:
		return fmt.Sprintf("valor inválido (%s).", fe.Tag())
	}
}
