package dto

import "time"

// CreateStoreRequest alta de tienda.
type CreateStoreRequest struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	LocatarioID string         `json:"locatario_id,omitempty"` // solo admin; locatario crea la propia
	Settings    map[string]any `json:"settings,omitempty"`
}

// StoreResponse representación pública de una tienda.
type StoreResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	LocatarioID string         `json:"locatario_id"`
	Active      bool           `json:"active"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateMarcaRequest alta de marca.
type CreateMarcaRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarcaResponse representación pública de una marca.
type MarcaResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpsertAssociationRequest asigna (o reasigna) la marca de un proveedor en una tienda.
type UpsertAssociationRequest struct {
	MarcaID *string `json:"marca_id"`
}

// AssociationResponse representación pública de una asociación tienda-proveedor.
type AssociationResponse struct {
	StoreID    string    `json:"store_id"`
	ProviderID string    `json:"provider_id"`
	MarcaID    *string   `json:"marca_id,omitempty"`
	Active     bool      `json:"active"`
	InvitedAt  time.Time `json:"invited_at"`
}
