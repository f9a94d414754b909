package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// parseBody decodifica el cuerpo JSON en out con el decoder de la app, sin
// exigir Content-Type. Un cuerpo vacío equivale a {}. Un tipo incorrecto se
// reporta en su campo; cualquier otro error de decodificación va a "detail".
func parseBody(c *fiber.Ctx, out any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, typeMessage(typeErr.Type))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.NewValidationError(domain.FieldDetail,
			fmt.Sprintf("JSON inválido: error de sintaxis en la posición %d.", syntaxErr.Offset))
	}
	return domain.NewValidationError(domain.FieldDetail, "JSON inválido.")
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "tipo de dato inválido."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "se requiere un número entero válido."
	case reflect.String:
		return "no es una cadena válida."
	case reflect.Slice, reflect.Array:
		return "se esperaba una lista de elementos."
	case reflect.Bool:
		return "se requiere un valor booleano válido."
	default:
		return "tipo de dato inválido."
	}
}

// paramID lee el parámetro :id; un valor no numérico se trata como recurso inexistente.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// listParams interpreta los query params de un listado según rules.
func listParams(c *fiber.Ctx, rules listing.Rules, pg listing.Pagination) (listing.Params, error) {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		values = url.Values{}
	}
	return listing.Parse(values, rules, pg)
}

// listPage ejecuta fetch con la consulta de p y responde la página. Con
// page=last la consulta se repite una vez conocido el total.
func listPage[T any](c *fiber.Ctx, p listing.Params, fetch func(q repository.ListQuery) ([]T, int, error)) error {
	items, total, err := fetch(p.Query)
	if err != nil {
		return err
	}
	if p.ResolveLast(total) {
		if items, total, err = fetch(p.Query); err != nil {
			return err
		}
	}
	return sendPage(c, p, total, items)
}

// sendPage responde {count, next, previous, results} con enlaces absolutos.
func sendPage[T any](c *fiber.Ctx, p listing.Params, total int, items []T) error {
	requestURL, err := url.Parse(c.BaseURL() + c.OriginalURL())
	if err != nil {
		return err
	}
	page, err := listing.BuildPage(requestURL, p, total, items)
	if err != nil {
		return err
	}
	return c.JSON(page)
}
