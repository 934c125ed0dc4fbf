package access

import (
	"context"
	"sort"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

// Resolver calcula el conjunto de tiendas accesibles para una identidad. Es una
// función pura sobre el estado actual del directorio: sin caché, sin estado
// mutable compartido, reentrante. Cualquier caché pertenece a la capa llamadora
// y queda invalidada por cualquier mutación del directorio.
type Resolver struct {
	profileRepo repository.ProfileRepository
	storeRepo   repository.StoreRepository
	assocRepo   repository.AssociationRepository
}

// NewResolver construye el resolver sobre los puertos del directorio.
func NewResolver(
	profileRepo repository.ProfileRepository,
	storeRepo repository.StoreRepository,
	assocRepo repository.AssociationRepository,
) *Resolver {
	return &Resolver{profileRepo: profileRepo, storeRepo: storeRepo, assocRepo: assocRepo}
}

// AccessibleStores devuelve cada tienda sobre la que la identidad puede actuar,
// anotada con rol efectivo y restricción de marca.
//
// Admin global: toda tienda activa, rol admin, sin restricción. Si no, unión de
// (a) tiendas propias como locatario y (b) tiendas con asociación activa como
// proveedor, con la marca de la asociación (nil = RestrictedToNone). Se
// deduplica por tienda: la titularidad gana, una identidad no tiene dos roles
// en la misma tienda. El orden es determinista (propias primero, luego
// asociaciones; cada grupo por fecha de creación de la tienda y luego por id)
// porque la selección por defecto de la sesión toma el primer elemento.
func (r *Resolver) AccessibleStores(ctx context.Context, profileID string) ([]access.UserStoreAccess, error) {
	profile, err := r.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	if profile.IsAdmin() {
		stores, err := r.storeRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		sortStores(stores)
		out := make([]access.UserStoreAccess, 0, len(stores))
		for _, s := range stores {
			out = append(out, access.UserStoreAccess{
				StoreID:   s.ID,
				StoreName: s.Name,
				Rol:       entity.RolAdmin,
				Brand:     access.Unrestricted(),
			})
		}
		return out, nil
	}

	var out []access.UserStoreAccess
	seen := make(map[string]bool)

	owned, err := r.storeRepo.ListOwnedBy(ctx, profileID)
	if err != nil {
		return nil, err
	}
	sortStores(owned)
	for _, s := range owned {
		if !s.Active || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, access.UserStoreAccess{
			StoreID:   s.ID,
			StoreName: s.Name,
			Rol:       entity.RolLocatario,
			Brand:     access.Unrestricted(),
		})
	}

	assocs, err := r.assocRepo.ListActiveByProvider(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(assocs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(assocs))
	marcaByStore := make(map[string]*string, len(assocs))
	for _, a := range assocs {
		ids = append(ids, a.StoreID)
		marcaByStore[a.StoreID] = a.MarcaID
	}
	stores, err := r.storeRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sortStores(stores)
	for _, s := range stores {
		if !s.Active || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, access.UserStoreAccess{
			StoreID:   s.ID,
			StoreName: s.Name,
			Rol:       entity.RolProveedor,
			Brand:     access.FromAssociationMarca(marcaByStore[s.ID]),
		})
	}
	return out, nil
}

func sortStores(stores []*entity.Store) {
	sort.Slice(stores, func(i, j int) bool {
		if !stores[i].CreatedAt.Equal(stores[j].CreatedAt) {
			return stores[i].CreatedAt.Before(stores[j].CreatedAt)
		}
		return stores[i].ID < stores[j].ID
	})
}
