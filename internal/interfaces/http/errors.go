package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
)

// respondError mapea los errores de dominio a códigos HTTP estables. Es el
// único punto de traducción: los handlers no inventan códigos propios.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvitationExpired):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "INVITATION_EXPIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvitationNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVITATION_NOT_PENDING", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateActiveInvitation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ACTIVE_INVITATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateStoreName):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_STORE_NAME", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrBrandInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BRAND_IN_USE", Message: err.Error()})
	case errors.Is(err, domain.ErrStoreAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "STORE_ACCESS_DENIED", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorizedOperation):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
