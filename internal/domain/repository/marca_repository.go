package repository

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// MarcaRepository define el puerto de persistencia para Marca.
type MarcaRepository interface {
	Create(ctx context.Context, m *entity.Marca) error
	GetByID(ctx context.Context, id string) (*entity.Marca, error)
	List(ctx context.Context) ([]*entity.Marca, error)
	Update(ctx context.Context, m *entity.Marca) error
	Delete(ctx context.Context, id string) error
}
