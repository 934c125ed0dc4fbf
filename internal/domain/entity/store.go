package entity

import "time"

// Store representa una tienda: la unidad de aislamiento multi-tenant.
// Se desactiva vía Active (soft delete); nunca se elimina mientras existan
// asociaciones que la referencien.
type Store struct {
	ID          string
	Name        string
	Address     string
	LocatarioID string // dueño de la tienda
	Active      bool
	Settings    map[string]any // configuración opaca para la capa UI
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
