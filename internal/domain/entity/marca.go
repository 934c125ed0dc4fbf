package entity

import "time"

// Marca es una partición de propiedad de productos. Es independiente de la
// tienda: se asigna a un proveedor en el contexto de una tienda concreta vía
// StoreProviderAssociation.
type Marca struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
