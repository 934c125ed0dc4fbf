package access

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/access"
)

// SessionStore puerto de persistencia de la tienda seleccionada por perfil.
// Solo guarda el id: el acceso completo se recalcula en cada lectura.
type SessionStore interface {
	Get(ctx context.Context, profileID string) (string, error) // "" si no hay selección
	Set(ctx context.Context, profileID, storeID string) error
	Delete(ctx context.Context, profileID string) error
}

// Session mantiene la tienda actual de cada identidad. Nunca es un singleton de
// proceso: cada operación recibe el perfil explícito y revalida la selección
// contra el resolver, de modo que una reasignación de marca o la pérdida de
// acceso surten efecto en la siguiente lectura sin invalidación explícita.
type Session struct {
	resolver *Resolver
	store    SessionStore
}

// NewSession construye la sesión de contexto de tienda.
func NewSession(resolver *Resolver, store SessionStore) *Session {
	return &Session{resolver: resolver, store: store}
}

// Select fija la tienda actual. Falla con ErrStoreAccessDenied si la tienda no
// figura en el acceso resuelto en este instante (no se confía en resoluciones
// previas).
func (s *Session) Select(ctx context.Context, profileID, storeID string) (*access.UserStoreAccess, error) {
	accesses, err := s.resolver.AccessibleStores(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for i := range accesses {
		if accesses[i].StoreID == storeID {
			if err := s.store.Set(ctx, profileID, storeID); err != nil {
				return nil, err
			}
			return &accesses[i], nil
		}
	}
	return nil, domain.ErrStoreAccessDenied
}

// Current devuelve el acceso de la tienda seleccionada, recalculado desde el
// resolver. Si la selección guardada ya no es accesible cae a la selección por
// defecto (primer elemento del orden estable del resolver) y la repersiste; si
// no hay ninguna tienda accesible devuelve nil sin error.
func (s *Session) Current(ctx context.Context, profileID string) (*access.UserStoreAccess, error) {
	accesses, err := s.resolver.AccessibleStores(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(accesses) == 0 {
		_ = s.store.Delete(ctx, profileID)
		return nil, nil
	}

	saved, err := s.store.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if saved != "" {
		for i := range accesses {
			if accesses[i].StoreID == saved {
				return &accesses[i], nil
			}
		}
	}

	// fallback: única política por defecto
	first := accesses[0]
	if err := s.store.Set(ctx, profileID, first.StoreID); err != nil {
		return nil, err
	}
	return &first, nil
}

// DefaultSelection devuelve el id de la tienda por defecto ("" si no hay
// ninguna accesible).
func (s *Session) DefaultSelection(ctx context.Context, profileID string) (string, error) {
	accesses, err := s.resolver.AccessibleStores(ctx, profileID)
	if err != nil {
		return "", err
	}
	if len(accesses) == 0 {
		return "", nil
	}
	return accesses[0].StoreID, nil
}

// Clear borra la selección persistida.
func (s *Session) Clear(ctx context.Context, profileID string) error {
	return s.store.Delete(ctx, profileID)
}
