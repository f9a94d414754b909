package dto

import "time"

// CreateOrderRequest entrada para crear un pedido. user y date no se aceptan del cliente.
type CreateOrderRequest struct {
	Products *[]int64 `json:"products"`
	Quantity *Int     `json:"quantity"`
}

// OrderResponse salida de un pedido: user y products como identificadores.
type OrderResponse struct {
	ID       int64     `json:"id"`
	User     int64     `json:"user"`
	Products []int64   `json:"products"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date"`
}
