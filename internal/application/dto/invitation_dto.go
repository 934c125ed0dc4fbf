package dto

import "time"

// CreateInvitationRequest invita un email a asumir un rol en una tienda.
type CreateInvitationRequest struct {
	Email    string            `json:"email"`
	Rol      string            `json:"rol"` // proveedor | locatario
	TTLHours int               `json:"ttl_hours,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// InvitationResponse representación pública de una invitación. El token solo se
// incluye al crearla o reenviarla; nunca en listados.
type InvitationResponse struct {
	ID         string     `json:"id"`
	Token      string     `json:"token,omitempty"`
	Email      string     `json:"email"`
	StoreID    string     `json:"store_id"`
	Rol        string     `json:"rol"`
	Status     string     `json:"status"`
	InvitedBy  string     `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ValidateInvitationResponse resultado de validar un token (solo lectura).
type ValidateInvitationResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"` // not_found | not_pending | expired
	Email  string `json:"email,omitempty"`
	Rol    string `json:"rol,omitempty"`
}

// AcceptInvitationRequest acepta un token en nombre del perfil autenticado.
type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

// InvitationAcceptanceResult resultado de la aceptación.
type InvitationAcceptanceResult struct {
	Success bool   `json:"success"`
	StoreID string `json:"store_id,omitempty"`
}

// InvitationStatsResponse conteo de invitaciones por estado para una tienda.
type InvitationStatsResponse struct {
	StoreID string         `json:"store_id"`
	Counts  map[string]int `json:"counts"`
}

// CleanupResponse resultado del barrido de expiración.
type CleanupResponse struct {
	Expired int64 `json:"expired"`
}
