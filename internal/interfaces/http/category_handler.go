package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// CategoryHandler maneja las peticiones HTTP para Category.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
	pg listing.Pagination
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, pg listing.Pagination) *CategoryHandler {
	return &CategoryHandler{uc: uc, pg: pg}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por nombre"
// @Param        name       query  string  false  "Filtro exacto por nombre"
// @Param        ordering   query  string  false  "id, name (prefijo - para descendente)"
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.Page[dto.CategoryResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /categories/ [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	p, err := listParams(c, listing.CategoryRules, h.pg)
	if err != nil {
		return err
	}
	return listPage(c, p, func(q repository.ListQuery) ([]dto.CategoryResponse, int, error) {
		return h.uc.List(c.UserContext(), q)
	})
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /categories/ [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
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
// @Summary      Obtener categoría por ID
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /categories/{id}/ [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
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

// Delete godoc
// @Summary      Eliminar categoría (y sus productos)
// @Tags         categories
// @Security     Bearer
// @Param        id   path  int  true  "ID de la categoría"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /categories/{id}/ [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
