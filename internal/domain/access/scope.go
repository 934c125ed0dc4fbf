package access

import "github.com/jpradov/galeria-api/internal/domain/entity"

// BrandScope es la restricción de marca de un acceso, como tipo suma explícito
// en lugar de un puntero nullable interpretado distinto en cada call site. Un
// proveedor sin marca asignada tiene RestrictedToNone: no ve nada, nunca "todo".
type BrandScope struct {
	kind    brandScopeKind
	marcaID string
}

type brandScopeKind int

const (
	scopeUnrestricted brandScopeKind = iota
	scopeRestrictedTo
	scopeRestrictedToNone
)

// Unrestricted acceso a todas las marcas (admin, locatario dentro de su tienda).
func Unrestricted() BrandScope { return BrandScope{kind: scopeUnrestricted} }

// RestrictedTo acceso limitado a una marca concreta.
func RestrictedTo(marcaID string) BrandScope {
	return BrandScope{kind: scopeRestrictedTo, marcaID: marcaID}
}

// RestrictedToNone proveedor sin marca asignada: el scope no matchea ninguna fila.
func RestrictedToNone() BrandScope { return BrandScope{kind: scopeRestrictedToNone} }

// FromAssociationMarca traduce el marca_id nullable de una asociación al tipo suma.
func FromAssociationMarca(marcaID *string) BrandScope {
	if marcaID == nil || *marcaID == "" {
		return RestrictedToNone()
	}
	return RestrictedTo(*marcaID)
}

// IsUnrestricted indica si el scope no restringe por marca.
func (s BrandScope) IsUnrestricted() bool { return s.kind == scopeUnrestricted }

// MatchesNothing indica si el scope no matchea ninguna fila.
func (s BrandScope) MatchesNothing() bool { return s.kind == scopeRestrictedToNone }

// MarcaID devuelve la marca restringida y ok=true solo en el caso RestrictedTo.
func (s BrandScope) MarcaID() (string, bool) {
	if s.kind != scopeRestrictedTo {
		return "", false
	}
	return s.marcaID, true
}

// UserStoreAccess es la vista derivada de acceso: una tienda accesible, con el
// rol efectivo y la restricción de marca. Se recalcula en cada resolución desde
// el directorio; nunca se persiste ni se cachea en el core.
type UserStoreAccess struct {
	StoreID   string
	StoreName string
	Rol       string
	Brand     BrandScope
}

// QueryScope es el predicado que toda consulta sobre datos de tenant debe
// aplicar. Unrestricted=true (solo admin sin tienda explícita) significa sin
// filtro de tienda.
type QueryScope struct {
	StoreID      string
	Unrestricted bool
	Brand        BrandScope
}

// ScopeFor deriva el QueryScope de un acceso resuelto. Es la única tabla
// autoritativa rol→filtro; ningún camino de acceso a datos debe hacer chequeos
// de rol por su cuenta.
//
//	admin:     sin filtro de tienda (o la seleccionada si explicitStore), sin filtro de marca
//	locatario: tienda actual, todas las marcas de la tienda
//	proveedor: tienda actual, la marca asociada; sin marca asignada no matchea nada
func ScopeFor(a UserStoreAccess, explicitStore bool) QueryScope {
	switch a.Rol {
	case entity.RolAdmin:
		if explicitStore {
			return QueryScope{StoreID: a.StoreID, Brand: Unrestricted()}
		}
		return QueryScope{Unrestricted: true, Brand: Unrestricted()}
	case entity.RolLocatario:
		return QueryScope{StoreID: a.StoreID, Brand: Unrestricted()}
	default:
		return QueryScope{StoreID: a.StoreID, Brand: a.Brand}
	}
}
