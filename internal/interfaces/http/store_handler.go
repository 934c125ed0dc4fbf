package http

import (
	"github.com/gofiber/fiber/v2"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/internal/application/directory"
	"github.com/jpradov/galeria-api/internal/application/dto"
)

// StoreHandler maneja tiendas y asociaciones tienda-proveedor.
type StoreHandler struct {
	directory *directory.UseCase
	resolver  *appaccess.Resolver
}

// NewStoreHandler construye el handler del directorio de tiendas.
func NewStoreHandler(d *directory.UseCase, r *appaccess.Resolver) *StoreHandler {
	return &StoreHandler{directory: d, resolver: r}
}

// Create godoc
// @Summary      Crear tienda
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.StoreResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.directory.CreateStore(c.Context(), GetProfileID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAccessible godoc
// @Summary      Tiendas accesibles del perfil autenticado
// @Tags         stores
// @Produce      json
// @Success      200  {array}  dto.StoreAccessResponse
// @Router       /api/stores [get]
func (h *StoreHandler) ListAccessible(c *fiber.Ctx) error {
	accesses, err := h.resolver.AccessibleStores(c.Context(), GetProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StoreAccessResponse, 0, len(accesses))
	for _, a := range accesses {
		resp := dto.StoreAccessResponse{StoreID: a.StoreID, StoreName: a.StoreName, Rol: a.Rol}
		if marcaID, ok := a.Brand.MarcaID(); ok {
			resp.MarcaID = &marcaID
		}
		out = append(out, resp)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar todas las tiendas activas (uso administrativo)
// @Tags         stores
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/admin/stores [get]
func (h *StoreHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.directory.ListStores(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tienda por ID
// @Tags         stores
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.directory.GetStore(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar tienda (soft delete)
// @Tags         stores
// @Param        id  path  string  true  "ID de la tienda"
// @Success      204
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.directory.DeactivateStore(c.Context(), GetProfileID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertProvider godoc
// @Summary      Crear o actualizar la asociación de un proveedor en la tienda
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Param        pid  path  string  true  "ID del proveedor"
// @Param        body body  dto.UpsertAssociationRequest  true  "Marca asignada"
// @Success      200  {object}  dto.AssociationResponse
// @Router       /api/stores/{id}/providers/{pid} [put]
func (h *StoreHandler) UpsertProvider(c *fiber.Ctx) error {
	var in dto.UpsertAssociationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.directory.UpsertAssociation(c.Context(), GetProfileID(c), c.Params("id"), c.Params("pid"), in.MarcaID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeactivateProvider godoc
// @Summary      Quitar el acceso de un proveedor (conserva la marca)
// @Tags         stores
// @Param        id   path  string  true  "ID de la tienda"
// @Param        pid  path  string  true  "ID del proveedor"
// @Success      204
// @Router       /api/stores/{id}/providers/{pid} [delete]
func (h *StoreHandler) DeactivateProvider(c *fiber.Ctx) error {
	if err := h.directory.DeactivateAssociation(c.Context(), GetProfileID(c), c.Params("id"), c.Params("pid")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReactivateProvider godoc
// @Summary      Restituir el acceso de un proveedor con su marca previa
// @Tags         stores
// @Param        id   path  string  true  "ID de la tienda"
// @Param        pid  path  string  true  "ID del proveedor"
// @Success      204
// @Router       /api/stores/{id}/providers/{pid}/reactivate [post]
func (h *StoreHandler) ReactivateProvider(c *fiber.Ctx) error {
	if err := h.directory.ReactivateAssociation(c.Context(), GetProfileID(c), c.Params("id"), c.Params("pid")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListProviders godoc
// @Summary      Listar asociaciones de la tienda
// @Tags         stores
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {array}  dto.AssociationResponse
// @Router       /api/stores/{id}/providers [get]
func (h *StoreHandler) ListProviders(c *fiber.Ctx) error {
	out, err := h.directory.ListStoreProviders(c.Context(), GetProfileID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
