package entity

import "time"

// Estados de una invitación. pending es el único estado inicial; accepted,
// expired y cancelled son terminales salvo que expired admite resend.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationExpired   = "expired"
	InvitationCancelled = "cancelled"
)

// DefaultInvitationTTL vigencia por defecto de una invitación.
const DefaultInvitationTTL = 72 * time.Hour

// Invitation es un token de un solo uso que otorga a un email el derecho de
// asumir un rol en una tienda al aceptarla. El token es una credencial
// portadora: válido únicamente mientras la fila siga pending y sin expirar.
type Invitation struct {
	ID         string
	Token      string
	Email      string // case-folded antes de persistir
	StoreID    string
	Rol        string // proveedor o locatario
	InvitedBy  string
	Status     string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	AcceptedBy *string
	Metadata   map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired indica si la invitación ya pasó su vencimiento. La expiración es
// un hecho derivado en lectura: el estado almacenado puede seguir en pending
// hasta que el barrido la marque.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// CanAccept indica si la invitación puede aceptarse en este instante.
func (i *Invitation) CanAccept(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

// CanResend indica si la invitación admite reenvío: solo pending o expired.
// Revivir un token ya aceptado o cancelado rompería la garantía de un solo uso.
func (i *Invitation) CanResend() bool {
	return i.Status == InvitationPending || i.Status == InvitationExpired
}

// ValidInvitationRol valida el rol que una invitación puede otorgar.
func ValidInvitationRol(rol string) bool {
	return rol == RolProveedor || rol == RolLocatario
}
