package dto

// StoreAccessResponse una tienda accesible con el rol efectivo y la marca.
type StoreAccessResponse struct {
	StoreID   string  `json:"store_id"`
	StoreName string  `json:"store_name"`
	Rol       string  `json:"rol"`
	MarcaID   *string `json:"marca_id,omitempty"` // nil con rol proveedor = sin asignar
}

// SelectStoreRequest selección de la tienda actual de la sesión.
type SelectStoreRequest struct {
	StoreID string `json:"store_id"`
}
