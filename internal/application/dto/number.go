package dto

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Int entero de entrada que acepta un número JSON (5) o un string numérico ("5").
// Un valor que no es entero produce *json.UnmarshalTypeError, que el decoder
// completa con el nombre del campo.
type Int int

// UnmarshalJSON implementa json.Unmarshaler.
func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = string(bytes.TrimSpace([]byte(s)))
	}
	v, err := strconv.ParseInt(raw, 10, strconv.IntSize)
	if err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(0)}
	}
	*n = Int(v)
	return nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "value"
	}
	switch data[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "number"
	}
}
