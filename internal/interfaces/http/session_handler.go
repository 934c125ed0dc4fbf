package http

import (
	"github.com/gofiber/fiber/v2"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain/access"
)

// SessionHandler maneja la tienda actual del perfil autenticado.
type SessionHandler struct {
	session *appaccess.Session
}

// NewSessionHandler construye el handler de sesión de tienda.
func NewSessionHandler(s *appaccess.Session) *SessionHandler {
	return &SessionHandler{session: s}
}

// Select godoc
// @Summary      Seleccionar la tienda actual
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectStoreRequest  true  "Tienda a seleccionar"
// @Success      200   {object}  dto.StoreAccessResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/session/store [put]
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.session.Select(c.Context(), GetProfileID(c), in.StoreID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreAccessResponse(a))
}

// Current godoc
// @Summary      Tienda actual (recalculada contra el directorio)
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.StoreAccessResponse
// @Success      204  "sin tiendas accesibles"
// @Router       /api/session/store [get]
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	a, err := h.session.Current(c.Context(), GetProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	if a == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toStoreAccessResponse(a))
}

// Clear godoc
// @Summary      Borrar la selección de tienda
// @Tags         session
// @Success      204
// @Router       /api/session/store [delete]
func (h *SessionHandler) Clear(c *fiber.Ctx) error {
	if err := h.session.Clear(c.Context(), GetProfileID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toStoreAccessResponse(a *access.UserStoreAccess) dto.StoreAccessResponse {
	resp := dto.StoreAccessResponse{StoreID: a.StoreID, StoreName: a.StoreName, Rol: a.Rol}
	if marcaID, ok := a.Brand.MarcaID(); ok {
		resp.MarcaID = &marcaID
	}
	return resp
}
