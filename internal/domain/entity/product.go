package entity

import "github.com/shopspring/decimal"

// Product representa un artículo del catálogo. Name es único en todo el catálogo.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal // NUMERIC(10,2)
	Stock       int
	CategoryID  int64
	Category    *Category // cargada en lecturas
}
