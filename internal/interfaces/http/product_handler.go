package http

import (
	"github.com/gofiber/fiber/v2"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/internal/application/catalog"
	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// ProductHandler consumidor de referencia del scope: deriva el filtro de la
// sesión y lo pasa tal cual al caso de uso, sin chequeos de rol propios.
type ProductHandler struct {
	catalog *catalog.UseCase
	session *appaccess.Session
}

// NewProductHandler construye el handler de catálogo.
func NewProductHandler(uc *catalog.UseCase, s *appaccess.Session) *ProductHandler {
	return &ProductHandler{catalog: uc, session: s}
}

// scopeFromSession resuelve el QueryScope vigente del llamador. Un admin puede
// pedir all_stores=true para listar sin filtro de tienda.
func (h *ProductHandler) scopeFromSession(c *fiber.Ctx) (access.QueryScope, error) {
	current, err := h.session.Current(c.Context(), GetProfileID(c))
	if err != nil {
		return access.QueryScope{}, err
	}
	if current == nil {
		if GetRol(c) == entity.RolAdmin {
			return access.QueryScope{Unrestricted: true, Brand: access.Unrestricted()}, nil
		}
		return access.QueryScope{}, domain.ErrStoreAccessDenied
	}
	explicitStore := !(current.Rol == entity.RolAdmin && c.QueryBool("all_stores"))
	return access.ScopeFor(*current, explicitStore), nil
}

// List godoc
// @Summary      Listar productos visibles bajo el scope actual
// @Tags         products
// @Produce      json
// @Param        limit       query  int   false  "Límite de página"
// @Param        offset      query  int   false  "Desplazamiento"
// @Param        all_stores  query  bool  false  "Solo admin: listar sin filtro de tienda"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	scope, err := h.scopeFromSession(c)
	if err != nil {
		return respondError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.catalog.List(c.Context(), scope, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener producto si el scope actual lo alcanza
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	scope, err := h.scopeFromSession(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.catalog.Get(c.Context(), scope, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto en la tienda actual
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	scope, err := h.scopeFromSession(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catalog.Create(c.Context(), scope, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
