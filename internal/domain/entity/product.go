package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de una tienda. MarcaID determina qué proveedor
// puede verlo; los registros importados por el sincronizador de comercio se
// crean ya etiquetados con la marca del scope del llamador.
type Product struct {
	ID        string
	StoreID   string
	MarcaID   *string
	Name      string
	SKU       string
	Price     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
