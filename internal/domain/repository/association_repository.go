package repository

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// AssociationRepository define el puerto de persistencia para
// StoreProviderAssociation. La clave compuesta (store, provider) admite a lo
// sumo una fila; toda escritura es insert-or-update, nunca un duplicado.
type AssociationRepository interface {
	Get(ctx context.Context, storeID, providerID string) (*entity.StoreProviderAssociation, error)
	// Upsert inserta la asociación o actualiza marca y active de la existente.
	Upsert(ctx context.Context, a *entity.StoreProviderAssociation) error
	// UpsertOnAccept inserta la fila con marca NULL, o reactiva la existente
	// preservando la marca que tenía. Es la escritura que dispara la aceptación
	// de una invitación dentro de la misma transacción.
	UpsertOnAccept(ctx context.Context, storeID, providerID string) error
	// SetActive cambia el flag active sin tocar la marca; idempotente.
	SetActive(ctx context.Context, storeID, providerID string, active bool) error
	ListActiveByProvider(ctx context.Context, providerID string) ([]*entity.StoreProviderAssociation, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProviderAssociation, error)
}
