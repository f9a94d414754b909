package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryRef referencia a categoría en la escritura de productos:
// un ID (número o string numérico) o un objeto anidado {"name": ...}.
// Si el objeto trae "id", se trata como referencia por ID.
type CategoryRef struct {
	ID   int64
	Name string
}

// Nested indica si la referencia debe resolverse con get-or-create por nombre.
func (r CategoryRef) Nested() bool {
	return r.ID == 0
}

// UnmarshalJSON acepta 3, "3" o {"name": "Gadgets"}.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID   json.RawMessage `json:"id"`
			Name string          `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("category: %w", err)
		}
		if len(obj.ID) > 0 && !bytes.Equal(obj.ID, []byte("null")) {
			id, err := parseID(obj.ID)
			if err != nil {
				return err
			}
			r.ID = id
			return nil
		}
		r.Name = obj.Name
		return nil
	default:
		id, err := parseID(data)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	}
}

// MarshalJSON emite el ID o el objeto anidado.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	if r.ID > 0 {
		return json.Marshal(r.ID)
	}
	return json.Marshal(map[string]string{"name": r.Name})
}

func parseID(raw []byte) (int64, error) {
	s := strings.Trim(string(raw), `"`)
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("category: se esperaba un ID válido, se recibió %s", string(raw))
	}
	return id, nil
}

// ProductRequest entrada para crear (POST), reemplazar (PUT) o actualizar parcialmente (PATCH) un producto.
// Los punteros distinguen "ausente" de "vacío"; en POST/PUT todos son obligatorios.
type ProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *Int             `json:"stock"`
	Category    *CategoryRef     `json:"category"`
}

// ProductResponse salida de un producto con su categoría anidada.
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       string           `json:"price"` // decimal con 2 dígitos, ej. "1500.00"
	Stock       int              `json:"stock"`
	Category    CategoryResponse `json:"category"`
}
