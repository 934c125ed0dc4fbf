package repository

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product. Las lecturas
// reciben el QueryScope derivado de la tabla rol→filtro; no hay otro camino
// para consultar productos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, scope access.QueryScope, limit, offset int) ([]*entity.Product, error)
	CountByMarca(ctx context.Context, marcaID string) (int, error)
}
