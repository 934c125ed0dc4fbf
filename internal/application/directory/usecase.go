package directory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

// UseCase administra el directorio de tenants: tiendas, marcas y asociaciones
// tienda-proveedor. Es el único dueño de esas filas; el gestor de invitaciones
// escribe en la tabla de asociaciones solo a través de su transacción de
// aceptación.
type UseCase struct {
	storeRepo   repository.StoreRepository
	marcaRepo   repository.MarcaRepository
	assocRepo   repository.AssociationRepository
	profileRepo repository.ProfileRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso del directorio.
func NewUseCase(
	storeRepo repository.StoreRepository,
	marcaRepo repository.MarcaRepository,
	assocRepo repository.AssociationRepository,
	profileRepo repository.ProfileRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		storeRepo:   storeRepo,
		marcaRepo:   marcaRepo,
		assocRepo:   assocRepo,
		profileRepo: profileRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo; para tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// canManageStore autoriza mutaciones del directorio sobre una tienda: admin
// global o el locatario dueño. Cualquier otro recibe ErrUnauthorizedOperation.
func (uc *UseCase) canManageStore(ctx context.Context, actorID, storeID string) (*entity.Store, error) {
	actor, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if actor.IsAdmin() || store.LocatarioID == actorID {
		return store, nil
	}
	return nil, domain.ErrUnauthorizedOperation
}

// CreateStore crea una tienda. El nombre debe ser no vacío y único entre las
// tiendas activas. Un locatario crea su propia tienda; un admin puede crearla
// a nombre de otro locatario.
func (uc *UseCase) CreateStore(ctx context.Context, actorID string, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation
	}
	actor, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrNotFound
	}

	ownerID := actorID
	switch {
	case actor.IsAdmin():
		if in.LocatarioID != "" {
			ownerID = in.LocatarioID
		}
	case actor.Rol == entity.RolLocatario:
		// un locatario solo crea tiendas propias
	default:
		return nil, domain.ErrUnauthorizedOperation
	}

	owner, err := uc.profileRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.storeRepo.GetActiveByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateStoreName
	}

	now := uc.now()
	store := &entity.Store{
		ID:          uuid.New().String(),
		Name:        name,
		Address:     in.Address,
		LocatarioID: ownerID,
		Active:      true,
		Settings:    in.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.storeRepo.Create(ctx, store); err != nil {
		if err == domain.ErrDuplicate {
			// backstop del índice parcial por nombre activo
			return nil, domain.ErrDuplicateStoreName
		}
		return nil, err
	}

	// referencia tienda-propia del locatario dueño
	if owner.StoreID == nil {
		owner.StoreID = &store.ID
		owner.UpdatedAt = now
		if err := uc.profileRepo.Update(ctx, owner); err != nil {
			return nil, err
		}
	}
	return toStoreResponse(store), nil
}

// GetStore obtiene una tienda por ID.
func (uc *UseCase) GetStore(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return toStoreResponse(store), nil
}

// ListStores lista las tiendas activas (uso administrativo).
func (uc *UseCase) ListStores(ctx context.Context) ([]*dto.StoreResponse, error) {
	stores, err := uc.storeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, toStoreResponse(s))
	}
	return out, nil
}

// DeactivateStore desactiva una tienda (soft delete); idempotente. Las
// asociaciones que la referencian se conservan.
func (uc *UseCase) DeactivateStore(ctx context.Context, actorID, storeID string) error {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return err
	}
	return uc.storeRepo.Deactivate(ctx, storeID)
}

// CreateBrand crea una marca; solo admin.
func (uc *UseCase) CreateBrand(ctx context.Context, actorID string, in dto.CreateMarcaRequest) (*dto.MarcaResponse, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrValidation
	}
	now := uc.now()
	marca := &entity.Marca{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.marcaRepo.Create(ctx, marca); err != nil {
		return nil, err
	}
	return toMarcaResponse(marca), nil
}

// UpdateBrand renombra una marca o cambia su descripción; solo admin.
func (uc *UseCase) UpdateBrand(ctx context.Context, actorID, marcaID string, in dto.CreateMarcaRequest) (*dto.MarcaResponse, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrValidation
	}
	marca, err := uc.marcaRepo.GetByID(ctx, marcaID)
	if err != nil {
		return nil, err
	}
	if marca == nil {
		return nil, domain.ErrNotFound
	}
	marca.Name = strings.TrimSpace(in.Name)
	marca.Description = in.Description
	marca.UpdatedAt = uc.now()
	if err := uc.marcaRepo.Update(ctx, marca); err != nil {
		return nil, err
	}
	return toMarcaResponse(marca), nil
}

// ListBrands lista todas las marcas.
func (uc *UseCase) ListBrands(ctx context.Context) ([]*dto.MarcaResponse, error) {
	marcas, err := uc.marcaRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MarcaResponse, 0, len(marcas))
	for _, m := range marcas {
		out = append(out, toMarcaResponse(m))
	}
	return out, nil
}

// DeleteBrand elimina una marca. Falla con ErrBrandInUse si algún producto la
// referencia.
func (uc *UseCase) DeleteBrand(ctx context.Context, actorID, marcaID string) error {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	marca, err := uc.marcaRepo.GetByID(ctx, marcaID)
	if err != nil {
		return err
	}
	if marca == nil {
		return domain.ErrNotFound
	}
	count, err := uc.productRepo.CountByMarca(ctx, marcaID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrBrandInUse
	}
	return uc.marcaRepo.Delete(ctx, marcaID)
}

// UpsertAssociation crea o actualiza la asociación (tienda, proveedor) fijando
// la marca indicada y dejándola activa. Existe a lo sumo una fila por par.
func (uc *UseCase) UpsertAssociation(ctx context.Context, actorID, storeID, providerID string, marcaID *string) (*dto.AssociationResponse, error) {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	provider, err := uc.profileRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	if provider.Rol != entity.RolProveedor {
		return nil, domain.ErrValidation
	}
	if marcaID != nil && *marcaID != "" {
		marca, err := uc.marcaRepo.GetByID(ctx, *marcaID)
		if err != nil {
			return nil, err
		}
		if marca == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := uc.now()
	assoc := &entity.StoreProviderAssociation{
		StoreID:    storeID,
		ProviderID: providerID,
		MarcaID:    marcaID,
		Active:     true,
		InvitedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.assocRepo.Upsert(ctx, assoc); err != nil {
		return nil, err
	}
	stored, err := uc.assocRepo.Get(ctx, storeID, providerID)
	if err != nil {
		return nil, err
	}
	return toAssociationResponse(stored), nil
}

// DeactivateAssociation quita el acceso del proveedor a la tienda sin borrar la
// fila ni su marca; idempotente.
func (uc *UseCase) DeactivateAssociation(ctx context.Context, actorID, storeID, providerID string) error {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return err
	}
	return uc.assocRepo.SetActive(ctx, storeID, providerID, false)
}

// ReactivateAssociation restituye el acceso con la misma marca que la fila
// tenía antes de desactivarse; idempotente.
func (uc *UseCase) ReactivateAssociation(ctx context.Context, actorID, storeID, providerID string) error {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return err
	}
	return uc.assocRepo.SetActive(ctx, storeID, providerID, true)
}

// ListStoreProviders lista las asociaciones de una tienda (activas e inactivas).
func (uc *UseCase) ListStoreProviders(ctx context.Context, actorID, storeID string) ([]*dto.AssociationResponse, error) {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	assocs, err := uc.assocRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AssociationResponse, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, toAssociationResponse(a))
	}
	return out, nil
}

func (uc *UseCase) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return domain.ErrNotFound
	}
	if !actor.IsAdmin() {
		return domain.ErrUnauthorizedOperation
	}
	return nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		LocatarioID: s.LocatarioID,
		Active:      s.Active,
		Settings:    s.Settings,
		CreatedAt:   s.CreatedAt,
	}
}

func toMarcaResponse(m *entity.Marca) *dto.MarcaResponse {
	return &dto.MarcaResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func toAssociationResponse(a *entity.StoreProviderAssociation) *dto.AssociationResponse {
	if a == nil {
		return nil
	}
	return &dto.AssociationResponse{
		StoreID:    a.StoreID,
		ProviderID: a.ProviderID,
		MarcaID:    a.MarcaID,
		Active:     a.Active,
		InvitedAt:  a.InvitedAt,
	}
}
