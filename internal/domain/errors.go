package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno corresponde a un
// código estable que la capa HTTP devuelve al cliente; ninguno es fatal.
var (
	ErrNotFound                  = errors.New("recurso no encontrado")
	ErrValidation                = errors.New("entrada inválida")
	ErrUnauthorized              = errors.New("no autorizado")
	ErrDuplicate                 = errors.New("recurso duplicado")
	ErrEmailAlreadyExists        = errors.New("el email ya está registrado")
	ErrInvalidTransition         = errors.New("transición de estado inválida")
	ErrInvitationExpired         = errors.New("la invitación expiró")
	ErrInvitationNotPending      = errors.New("la invitación ya no está pendiente")
	ErrDuplicateActiveInvitation = errors.New("ya existe una invitación activa para ese email y tienda")
	ErrDuplicateStoreName        = errors.New("ya existe una tienda activa con ese nombre")
	ErrBrandInUse                = errors.New("la marca tiene productos asociados")
	ErrStoreAccessDenied         = errors.New("la tienda no está dentro del acceso del usuario")
	ErrUnauthorizedOperation     = errors.New("operación reservada al administrador o al locatario dueño")
)
