package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ repository.AssociationRepository = (*AssociationRepo)(nil)

const assocColumns = `store_id, provider_id, marca_id, active, invited_at, updated_at`

// AssociationRepo implementación del puerto AssociationRepository sobre
// PostgreSQL. La PK compuesta (store_id, provider_id) más los upserts
// ON CONFLICT garantizan la invariante de fila única por par.
type AssociationRepo struct {
	db dbtx
}

// NewAssociationRepository construye el adaptador de persistencia para asociaciones.
func NewAssociationRepository(db dbtx) *AssociationRepo {
	return &AssociationRepo{db: db}
}

// Get obtiene la asociación (tienda, proveedor), activa o no.
func (r *AssociationRepo) Get(ctx context.Context, storeID, providerID string) (*entity.StoreProviderAssociation, error) {
	query := `SELECT ` + assocColumns + ` FROM store_provider_associations
		WHERE store_id = $1 AND provider_id = $2`
	var a entity.StoreProviderAssociation
	err := r.db.QueryRow(ctx, query, storeID, providerID).Scan(
		&a.StoreID, &a.ProviderID, &a.MarcaID, &a.Active, &a.InvitedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get association: %w", err)
	}
	return &a, nil
}

// Upsert inserta la asociación o actualiza marca y active de la existente.
func (r *AssociationRepo) Upsert(ctx context.Context, a *entity.StoreProviderAssociation) error {
	query := `
		INSERT INTO store_provider_associations (` + assocColumns + `)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (store_id, provider_id)
		DO UPDATE SET marca_id = EXCLUDED.marca_id, active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, query, a.StoreID, a.ProviderID, a.MarcaID, a.Active, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert association: %w", err)
	}
	return nil
}

// UpsertOnAccept inserta la fila con marca NULL o reactiva la existente
// preservando la marca que tenía (sin pérdida de datos a través del toggle).
func (r *AssociationRepo) UpsertOnAccept(ctx context.Context, storeID, providerID string) error {
	query := `
		INSERT INTO store_provider_associations (store_id, provider_id, marca_id, active, invited_at, updated_at)
		VALUES ($1, $2, NULL, true, now(), now())
		ON CONFLICT (store_id, provider_id)
		DO UPDATE SET active = true, updated_at = now()`
	_, err := r.db.Exec(ctx, query, storeID, providerID)
	if err != nil {
		return fmt.Errorf("upsert association on accept: %w", err)
	}
	return nil
}

// SetActive cambia el flag active sin tocar la marca; idempotente (cero filas
// afectadas no es un error).
func (r *AssociationRepo) SetActive(ctx context.Context, storeID, providerID string, active bool) error {
	query := `
		UPDATE store_provider_associations SET active = $3, updated_at = now()
		WHERE store_id = $1 AND provider_id = $2`
	_, err := r.db.Exec(ctx, query, storeID, providerID, active)
	if err != nil {
		return fmt.Errorf("set association active: %w", err)
	}
	return nil
}

// ListActiveByProvider lista las asociaciones activas de un proveedor.
func (r *AssociationRepo) ListActiveByProvider(ctx context.Context, providerID string) ([]*entity.StoreProviderAssociation, error) {
	query := `SELECT ` + assocColumns + ` FROM store_provider_associations
		WHERE provider_id = $1 AND active = true`
	rows, err := r.db.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list associations by provider: %w", err)
	}
	return r.scanAll(rows)
}

// ListByStore lista todas las asociaciones de una tienda.
func (r *AssociationRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProviderAssociation, error) {
	query := `SELECT ` + assocColumns + ` FROM store_provider_associations
		WHERE store_id = $1 ORDER BY invited_at`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list associations by store: %w", err)
	}
	return r.scanAll(rows)
}

func (r *AssociationRepo) scanAll(rows pgx.Rows) ([]*entity.StoreProviderAssociation, error) {
	defer rows.Close()
	var list []*entity.StoreProviderAssociation
	for rows.Next() {
		var a entity.StoreProviderAssociation
		if err := rows.Scan(&a.StoreID, &a.ProviderID, &a.MarcaID, &a.Active, &a.InvitedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
