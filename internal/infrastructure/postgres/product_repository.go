package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, store_id, marca_id, name, sku, price, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	db dbtx
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(db dbtx) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.StoreID, p.MarcaID, p.Name, p.SKU, p.Price, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.StoreID, &p.MarcaID, &p.Name, &p.SKU, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List compila el QueryScope en el WHERE de la consulta. Es el único camino de
// lectura de productos: el predicado sale exclusivamente del scope.
func (r *ProductRepo) List(ctx context.Context, scope access.QueryScope, limit, offset int) ([]*entity.Product, error) {
	if scope.Brand.MatchesNothing() {
		// proveedor sin marca asignada: cero filas, nunca "todas"
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE active = true`
	args := []any{}
	if !scope.Unrestricted {
		args = append(args, scope.StoreID)
		query += fmt.Sprintf(" AND store_id = $%d", len(args))
	}
	if marcaID, ok := scope.Brand.MarcaID(); ok {
		args = append(args, marcaID)
		query += fmt.Sprintf(" AND marca_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.MarcaID, &p.Name, &p.SKU, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountByMarca cuenta los productos que referencian una marca (para DeleteBrand).
func (r *ProductRepo) CountByMarca(ctx context.Context, marcaID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE marca_id = $1`, marcaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by marca: %w", err)
	}
	return n, nil
}
