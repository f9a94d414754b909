package entity

import "time"

// Order representa un pedido. UserID y Date los asigna el servidor.
// Quantity es un único escalar para todo el pedido (no hay líneas por producto).
type Order struct {
	ID         int64
	UserID     int64
	ProductIDs []int64
	Quantity   int
	Date       time.Time
}
