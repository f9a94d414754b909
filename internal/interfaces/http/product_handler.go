package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
	pg listing.Pagination
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, pg listing.Pagination) *ProductHandler {
	return &ProductHandler{uc: uc, pg: pg}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search          query  string  false  "Búsqueda en nombre, descripción y categoría"
// @Param        name            query  string  false  "Filtro exacto por nombre"
// @Param        category        query  int     false  "Filtro por ID de categoría"
// @Param        category__name  query  string  false  "Filtro exacto por nombre de categoría"
// @Param        ordering        query  string  false  "id, name, price, stock (prefijo - para descendente)"
// @Param        page            query  string  false  "Página (número o last)"
// @Param        page_size       query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.Page[dto.ProductResponse]
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/ [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p, err := listParams(c, listing.ProductRules, h.pg)
	if err != nil {
		return err
	}
	return listPage(c, p, func(q repository.ListQuery) ([]dto.ProductResponse, int, error) {
		return h.uc.List(c.UserContext(), q)
	})
}

// Create godoc
// @Summary      Crear producto
// @Description  category acepta un ID o un objeto {"name": ...} que se crea si no existe.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /products/ [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/ [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Todos los campos"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id}/ [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

// Patch godoc
// @Summary      Actualizar parcialmente un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id}/ [patch]
func (h *ProductHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *ProductHandler) update(c *fiber.Ctx, partial bool) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.ProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in, partial)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/ [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
