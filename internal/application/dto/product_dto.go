package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto dentro de la tienda actual.
type CreateProductRequest struct {
	Name    string          `json:"name"`
	SKU     string          `json:"sku"`
	Price   decimal.Decimal `json:"price"`
	MarcaID *string         `json:"marca_id,omitempty"` // ignorado para proveedores: se etiqueta con su marca
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID      string          `json:"id"`
	StoreID string          `json:"store_id"`
	MarcaID *string         `json:"marca_id,omitempty"`
	Name    string          `json:"name"`
	SKU     string          `json:"sku"`
	Price   decimal.Decimal `json:"price"`
	Active  bool            `json:"active"`
}
