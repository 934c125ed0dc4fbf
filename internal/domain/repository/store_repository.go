package repository

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store.
type StoreRepository interface {
	Create(ctx context.Context, s *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetActiveByName(ctx context.Context, name string) (*entity.Store, error)
	ListActive(ctx context.Context) ([]*entity.Store, error)
	ListOwnedBy(ctx context.Context, locatarioID string) ([]*entity.Store, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Store, error)
	Update(ctx context.Context, s *entity.Store) error
	// Deactivate marca la tienda como inactiva (soft delete); idempotente.
	Deactivate(ctx context.Context, id string) error
}
