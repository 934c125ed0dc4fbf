package entity

import "time"

// Roles globales válidos para Profile.
const (
	RolAdmin     = "admin"
	RolLocatario = "locatario"
	RolProveedor = "proveedor"
)

// Profile representa una identidad del sistema. El vínculo con el proveedor de
// identidad (AuthSubjectID) queda en nil hasta que la persona acepta una
// invitación o completa el registro.
type Profile struct {
	ID            string
	AuthSubjectID *string
	Email         string
	Name          string
	Rol           string // admin, locatario, proveedor
	StoreID       *string // tienda propia, solo locatarios
	MarcaID       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin indica si el perfil tiene rol global de administrador.
func (p *Profile) IsAdmin() bool { return p.Rol == RolAdmin }

// ValidRol valida un rol global.
func ValidRol(rol string) bool {
	return rol == RolAdmin || rol == RolLocatario || rol == RolProveedor
}
