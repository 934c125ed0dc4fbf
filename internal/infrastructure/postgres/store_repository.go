package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

const storeColumns = `id, name, address, locatario_id, active, settings, created_at, updated_at`

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	db dbtx
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(db dbtx) *StoreRepo {
	return &StoreRepo{db: db}
}

// Create persiste una nueva tienda. El índice parcial por nombre activo es el
// backstop de unicidad; una violación se reporta como ErrDuplicate.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.Name, s.Address, s.LocatarioID, s.Active, s.Settings,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetActiveByName obtiene la tienda activa con ese nombre exacto, si existe.
func (r *StoreRepo) GetActiveByName(ctx context.Context, name string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE name = $1 AND active = true LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, name))
}

// ListActive lista las tiendas activas.
func (r *StoreRepo) ListActive(ctx context.Context) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE active = true ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return r.scanAll(rows)
}

// ListOwnedBy lista las tiendas de un locatario.
func (r *StoreRepo) ListOwnedBy(ctx context.Context, locatarioID string) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE locatario_id = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, locatarioID)
	if err != nil {
		return nil, fmt.Errorf("list stores by locatario: %w", err)
	}
	return r.scanAll(rows)
}

// ListByIDs obtiene un lote de tiendas por id.
func (r *StoreRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list stores by ids: %w", err)
	}
	return r.scanAll(rows)
}

// Update actualiza una tienda.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, address = $3, locatario_id = $4, active = $5, settings = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.Name, s.Address, s.LocatarioID, s.Active, s.Settings, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// Deactivate marca la tienda como inactiva; idempotente.
func (r *StoreRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE stores SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate store: %w", err)
	}
	return nil
}

func (r *StoreRepo) scanOne(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.LocatarioID, &s.Active, &s.Settings, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

func (r *StoreRepo) scanAll(rows pgx.Rows) ([]*entity.Store, error) {
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.LocatarioID, &s.Active, &s.Settings, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
