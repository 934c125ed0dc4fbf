package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpradov/galeria-api/internal/application/directory"
	"github.com/jpradov/galeria-api/internal/application/dto"
)

// MarcaHandler maneja las marcas (partición de propiedad de productos).
type MarcaHandler struct {
	uc *directory.UseCase
}

// NewMarcaHandler construye el handler inyectando el caso de uso del directorio.
func NewMarcaHandler(uc *directory.UseCase) *MarcaHandler {
	return &MarcaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear marca
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMarcaRequest  true  "Datos de la marca"
// @Success      201   {object}  dto.MarcaResponse
// @Router       /api/marcas [post]
func (h *MarcaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMarcaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateBrand(c.Context(), GetProfileID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar marcas
// @Tags         marcas
// @Produce      json
// @Success      200  {array}  dto.MarcaResponse
// @Router       /api/marcas [get]
func (h *MarcaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListBrands(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar marca
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la marca"
// @Param        body  body  dto.CreateMarcaRequest  true  "Datos de la marca"
// @Success      200   {object}  dto.MarcaResponse
// @Router       /api/marcas/{id} [put]
func (h *MarcaHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateMarcaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateBrand(c.Context(), GetProfileID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar marca (falla si tiene productos)
// @Tags         marcas
// @Param        id  path  string  true  "ID de la marca"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/marcas/{id} [delete]
func (h *MarcaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBrand(c.Context(), GetProfileID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
