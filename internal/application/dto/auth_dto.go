package dto

import "time"

// RegisterRequest alta de un perfil con credenciales locales.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Rol      string `json:"rol"` // por defecto locatario
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido más el perfil autenticado.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse representación pública de un perfil.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Rol       string    `json:"rol"`
	StoreID   *string   `json:"store_id,omitempty"`
	MarcaID   *string   `json:"marca_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
