package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/application/invitation"
)

// InvitationHandler maneja el ciclo de vida de invitaciones.
type InvitationHandler struct {
	uc *invitation.UseCase
}

// NewInvitationHandler construye el handler inyectando el caso de uso.
func NewInvitationHandler(uc *invitation.UseCase) *InvitationHandler {
	return &InvitationHandler{uc: uc}
}

// Create godoc
// @Summary      Invitar un email a una tienda
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tienda"
// @Param        body  body  dto.CreateInvitationRequest  true  "Datos de la invitación"
// @Success      201   {object}  dto.InvitationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/invitations [post]
func (h *InvitationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetProfileID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Validate godoc
// @Summary      Validar un token de invitación (solo lectura)
// @Tags         invitations
// @Produce      json
// @Param        token  query  string  true  "Token"
// @Success      200    {object}  dto.ValidateInvitationResponse
// @Router       /api/invitations/validate [get]
func (h *InvitationHandler) Validate(c *fiber.Ctx) error {
	tok := c.Query("token")
	if tok == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token es requerido"})
	}
	out, err := h.uc.Validate(c.Context(), tok)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Accept godoc
// @Summary      Aceptar una invitación en nombre del perfil autenticado
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcceptInvitationRequest  true  "Token"
// @Success      200   {object}  dto.InvitationAcceptanceResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invitations/accept [post]
func (h *InvitationHandler) Accept(c *fiber.Ctx) error {
	var in dto.AcceptInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Accept(c.Context(), GetProfileID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar una invitación pendiente
// @Tags         invitations
// @Param        id  path  string  true  "ID de la invitación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invitations/{id}/cancel [post]
func (h *InvitationHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetProfileID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Resend godoc
// @Summary      Reenviar una invitación (token y vencimiento nuevos)
// @Tags         invitations
// @Produce      json
// @Param        id  path  string  true  "ID de la invitación"
// @Success      200  {object}  dto.InvitationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invitations/{id}/resend [post]
func (h *InvitationHandler) Resend(c *fiber.Ctx) error {
	out, err := h.uc.Resend(c.Context(), GetProfileID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByStore godoc
// @Summary      Listar invitaciones de una tienda
// @Tags         invitations
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {array}  dto.InvitationResponse
// @Router       /api/stores/{id}/invitations [get]
func (h *InvitationHandler) ListByStore(c *fiber.Ctx) error {
	out, err := h.uc.ListByStore(c.Context(), GetProfileID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteo de invitaciones por estado
// @Tags         invitations
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.InvitationStatsResponse
// @Router       /api/stores/{id}/invitations/stats [get]
func (h *InvitationHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetProfileID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cleanup godoc
// @Summary      Barrer invitaciones pendientes vencidas (batch, idempotente)
// @Tags         invitations
// @Produce      json
// @Success      200  {object}  dto.CleanupResponse
// @Router       /api/admin/invitations/cleanup [post]
func (h *InvitationHandler) Cleanup(c *fiber.Ctx) error {
	count, err := h.uc.CleanupExpired(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CleanupResponse{Expired: count})
}
