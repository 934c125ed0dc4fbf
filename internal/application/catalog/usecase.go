package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

// UseCase consumidor de referencia del filtro de scope: todo acceso a productos
// deriva su predicado exclusivamente de la tabla rol→filtro, sin chequeos de
// rol ad hoc. El sincronizador de comercio usa el mismo camino para etiquetar
// registros importados con la marca correcta.
type UseCase struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(productRepo repository.ProductRepository) *UseCase {
	return &UseCase{productRepo: productRepo, now: time.Now}
}

// List devuelve los productos visibles bajo el scope del llamador. Un scope
// RestrictedToNone corta en cero filas sin tocar la base.
func (uc *UseCase) List(ctx context.Context, scope access.QueryScope, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	if scope.Brand.MatchesNothing() {
		return []*dto.ProductResponse{}, nil
	}
	products, err := uc.productRepo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Create crea un producto dentro de la tienda del scope. Un proveedor solo crea
// bajo su marca asignada (la marca del request se ignora); sin marca asignada
// no puede crear nada. Locatario y admin eligen la marca libremente.
func (uc *UseCase) Create(ctx context.Context, scope access.QueryScope, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrValidation
	}
	if scope.StoreID == "" {
		// admin sin tienda seleccionada: no hay tenant al que pertenezca el alta
		return nil, domain.ErrValidation
	}

	marcaID := in.MarcaID
	if marca, ok := scope.Brand.MarcaID(); ok {
		marcaID = &marca
	} else if scope.Brand.MatchesNothing() {
		return nil, domain.ErrUnauthorizedOperation
	}

	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		StoreID:   scope.StoreID,
		MarcaID:   marcaID,
		Name:      strings.TrimSpace(in.Name),
		SKU:       in.SKU,
		Price:     in.Price,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get obtiene un producto si el scope del llamador lo alcanza; un producto
// fuera del scope es indistinguible de uno inexistente.
func (uc *UseCase) Get(ctx context.Context, scope access.QueryScope, id string) (*dto.ProductResponse, error) {
	if scope.Brand.MatchesNothing() {
		return nil, domain.ErrNotFound
	}
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, domain.ErrNotFound
	}
	if !scope.Unrestricted && p.StoreID != scope.StoreID {
		return nil, domain.ErrNotFound
	}
	if marcaID, ok := scope.Brand.MarcaID(); ok {
		if p.MarcaID == nil || *p.MarcaID != marcaID {
			return nil, domain.ErrNotFound
		}
	}
	return toProductResponse(p), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:      p.ID,
		StoreID: p.StoreID,
		MarcaID: p.MarcaID,
		Name:    p.Name,
		SKU:     p.SKU,
		Price:   p.Price,
		Active:  p.Active,
	}
}
