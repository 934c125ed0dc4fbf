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

var _ repository.MarcaRepository = (*MarcaRepo)(nil)

// MarcaRepo implementación del puerto MarcaRepository sobre PostgreSQL.
type MarcaRepo struct {
	db dbtx
}

// NewMarcaRepository construye el adaptador de persistencia para marcas.
func NewMarcaRepository(db dbtx) *MarcaRepo {
	return &MarcaRepo{db: db}
}

// Create persiste una nueva marca.
func (r *MarcaRepo) Create(ctx context.Context, m *entity.Marca) error {
	query := `
		INSERT INTO marcas (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, m.ID, m.Name, m.Description, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert marca: %w", err)
	}
	return nil
}

// GetByID obtiene una marca por ID.
func (r *MarcaRepo) GetByID(ctx context.Context, id string) (*entity.Marca, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM marcas WHERE id = $1`
	var m entity.Marca
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marca: %w", err)
	}
	return &m, nil
}

// List lista todas las marcas.
func (r *MarcaRepo) List(ctx context.Context) ([]*entity.Marca, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM marcas ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list marcas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Marca
	for rows.Next() {
		var m entity.Marca
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan marca: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update actualiza una marca.
func (r *MarcaRepo) Update(ctx context.Context, m *entity.Marca) error {
	query := `UPDATE marcas SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, m.ID, m.Name, m.Description, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update marca: %w", err)
	}
	return nil
}

// Delete elimina una marca por ID. El chequeo de productos asociados es del
// caso de uso; la FK de products es el backstop.
func (r *MarcaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM marcas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete marca: %w", err)
	}
	return nil
}
