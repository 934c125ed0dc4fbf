package entity

import "time"

// StoreProviderAssociation vincula un proveedor con una tienda y, opcionalmente,
// con una marca dentro de esa tienda. Identidad compuesta (StoreID, ProviderID):
// existe a lo sumo una fila por par; quitar el acceso pone Active=false y
// volver a agregarlo la reactiva en lugar de insertar un duplicado.
type StoreProviderAssociation struct {
	StoreID    string
	ProviderID string
	MarcaID    *string // nil = sin marca asignada (el proveedor no ve nada)
	Active     bool
	InvitedAt  time.Time
	UpdatedAt  time.Time
}
