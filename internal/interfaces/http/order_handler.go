package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderHandler maneja creación e historial de pedidos (protegido).
type OrderHandler struct {
	uc *usecase.OrderUseCase
	pg listing.Pagination
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, pg listing.Pagination) *OrderHandler {
	return &OrderHandler{uc: uc, pg: pg}
}

// Create godoc
// @Summary      Crear pedido
// @Description  El usuario del pedido es siempre el autenticado; user y date del cuerpo se ignoran.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "products y quantity"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /order/ [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        quantity   query  int     false  "Filtro exacto por cantidad"
// @Param        ordering   query  string  false  "id, date, quantity (prefijo - para descendente)"
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.Page[dto.OrderResponse]
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/history/ [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	p, err := listParams(c, listing.OrderRules, h.pg)
	if err != nil {
		return err
	}
	return listPage(c, p, func(q repository.ListQuery) ([]dto.OrderResponse, int, error) {
		return h.uc.History(c.UserContext(), GetUserID(c), q)
	})
}
