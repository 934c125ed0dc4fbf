package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/access"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var (
	_ repository.ProfileRepository     = (*ProfileRepo)(nil)
	_ repository.StoreRepository       = (*StoreRepo)(nil)
	_ repository.MarcaRepository       = (*MarcaRepo)(nil)
	_ repository.AssociationRepository = (*AssociationRepo)(nil)
	_ repository.InvitationRepository  = (*InvitationRepo)(nil)
	_ repository.ProductRepository     = (*ProductRepo)(nil)
)

// ProfileRepo implementación en memoria de ProfileRepository.
type ProfileRepo struct{ db *DB }

// NewProfileRepository construye el repo de perfiles.
func NewProfileRepository(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.profiles {
		if existing.Email == p.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *p
	r.db.profiles[p.ID] = &cp
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProfileRepo) GetByAuthSubject(ctx context.Context, subjectID string) (*entity.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.AuthSubjectID != nil && *p.AuthSubjectID == subjectID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.db.profiles[p.ID] = &cp
	return nil
}

func (r *ProfileRepo) LinkAuthSubject(ctx context.Context, profileID, subjectID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[profileID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.AuthSubjectID == nil {
		p.AuthSubjectID = &subjectID
	}
	return nil
}

// StoreRepo implementación en memoria de StoreRepository.
type StoreRepo struct{ db *DB }

// NewStoreRepository construye el repo de tiendas.
func NewStoreRepository(db *DB) *StoreRepo { return &StoreRepo{db: db} }

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.stores {
		if existing.Active && existing.Name == s.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *StoreRepo) GetActiveByName(ctx context.Context, name string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.stores {
		if s.Active && s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StoreRepo) ListActive(ctx context.Context) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Store
	for _, s := range r.db.stores {
		if s.Active {
			cp := *s
			list = append(list, &cp)
		}
	}
	sortStores(list)
	return list, nil
}

func (r *StoreRepo) ListOwnedBy(ctx context.Context, locatarioID string) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Store
	for _, s := range r.db.stores {
		if s.LocatarioID == locatarioID {
			cp := *s
			list = append(list, &cp)
		}
	}
	sortStores(list)
	return list, nil
}

func (r *StoreRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Store
	for _, id := range ids {
		if s, ok := r.db.stores[id]; ok {
			cp := *s
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stores[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r *StoreRepo) Deactivate(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.stores[id]; ok {
		s.Active = false
	}
	return nil
}

func sortStores(stores []*entity.Store) {
	sort.Slice(stores, func(i, j int) bool {
		if !stores[i].CreatedAt.Equal(stores[j].CreatedAt) {
			return stores[i].CreatedAt.Before(stores[j].CreatedAt)
		}
		return stores[i].ID < stores[j].ID
	})
}

// MarcaRepo implementación en memoria de MarcaRepository.
type MarcaRepo struct{ db *DB }

// NewMarcaRepository construye el repo de marcas.
func NewMarcaRepository(db *DB) *MarcaRepo { return &MarcaRepo{db: db} }

func (r *MarcaRepo) Create(ctx context.Context, m *entity.Marca) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.marcas {
		if existing.Name == m.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	r.db.marcas[m.ID] = &cp
	return nil
}

func (r *MarcaRepo) GetByID(ctx context.Context, id string) (*entity.Marca, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.marcas[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MarcaRepo) List(ctx context.Context) ([]*entity.Marca, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Marca
	for _, m := range r.db.marcas {
		cp := *m
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *MarcaRepo) Update(ctx context.Context, m *entity.Marca) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.marcas[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.db.marcas[m.ID] = &cp
	return nil
}

func (r *MarcaRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.marcas, id)
	return nil
}

// AssociationRepo implementación en memoria de AssociationRepository.
type AssociationRepo struct{ db *DB }

// NewAssociationRepository construye el repo de asociaciones.
func NewAssociationRepository(db *DB) *AssociationRepo { return &AssociationRepo{db: db} }

func (r *AssociationRepo) Get(ctx context.Context, storeID, providerID string) (*entity.StoreProviderAssociation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.assocs[assocKey(storeID, providerID)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *AssociationRepo) Upsert(ctx context.Context, a *entity.StoreProviderAssociation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := assocKey(a.StoreID, a.ProviderID)
	if existing, ok := r.db.assocs[key]; ok {
		existing.MarcaID = a.MarcaID
		existing.Active = a.Active
		existing.UpdatedAt = a.UpdatedAt
		return nil
	}
	cp := *a
	r.db.assocs[key] = &cp
	return nil
}

func (r *AssociationRepo) UpsertOnAccept(ctx context.Context, storeID, providerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := assocKey(storeID, providerID)
	if existing, ok := r.db.assocs[key]; ok {
		// reactiva preservando la marca previa
		existing.Active = true
		existing.UpdatedAt = time.Now()
		return nil
	}
	now := time.Now()
	r.db.assocs[key] = &entity.StoreProviderAssociation{
		StoreID:    storeID,
		ProviderID: providerID,
		MarcaID:    nil,
		Active:     true,
		InvitedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (r *AssociationRepo) SetActive(ctx context.Context, storeID, providerID string, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a, ok := r.db.assocs[assocKey(storeID, providerID)]; ok {
		a.Active = active
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *AssociationRepo) ListActiveByProvider(ctx context.Context, providerID string) ([]*entity.StoreProviderAssociation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.StoreProviderAssociation
	for _, a := range r.db.assocs {
		if a.ProviderID == providerID && a.Active {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *AssociationRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProviderAssociation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.StoreProviderAssociation
	for _, a := range r.db.assocs {
		if a.StoreID == storeID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InvitedAt.Before(list[j].InvitedAt) })
	return list, nil
}

// InvitationRepo implementación en memoria de InvitationRepository. Las
// transiciones de estado se hacen bajo el mismo lock que el chequeo del guard:
// misma atomicidad que el UPDATE condicional del adaptador PostgreSQL.
type InvitationRepo struct{ db *DB }

// NewInvitationRepository construye el repo de invitaciones.
func NewInvitationRepository(db *DB) *InvitationRepo { return &InvitationRepo{db: db} }

func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.invitations {
		if existing.Token == inv.Token {
			return domain.ErrDuplicate
		}
		if existing.Status == entity.InvitationPending &&
			existing.Email == inv.Email && existing.StoreID == inv.StoreID {
			if existing.ExpiresAt.After(inv.CreatedAt) {
				return domain.ErrDuplicateActiveInvitation
			}
			// una pendiente ya vencida no bloquea: se expira de forma perezosa
			// antes del alta, igual que el adaptador PostgreSQL
			existing.Status = entity.InvitationExpired
			existing.UpdatedAt = inv.CreatedAt
		}
	}
	cp := *inv
	r.db.invitations[inv.ID] = &cp
	return nil
}

func (r *InvitationRepo) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invitations[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InvitationRepo) FindActive(ctx context.Context, email, storeID string, now time.Time) (*entity.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.invitations {
		if inv.Email != email || inv.StoreID != storeID {
			continue
		}
		if inv.Status == entity.InvitationAccepted ||
			(inv.Status == entity.InvitationPending && inv.ExpiresAt.After(now)) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InvitationRepo) AcceptPending(ctx context.Context, token, acceptedBy string, now time.Time) (*entity.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.invitations {
		if inv.Token != token {
			continue
		}
		if inv.Status != entity.InvitationPending || !inv.ExpiresAt.After(now) {
			return nil, nil
		}
		inv.Status = entity.InvitationAccepted
		acceptedAt := now
		inv.AcceptedAt = &acceptedAt
		by := acceptedBy
		inv.AcceptedBy = &by
		inv.UpdatedAt = now
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *InvitationRepo) CancelPending(ctx context.Context, id string, now time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invitations[id]
	if !ok || inv.Status != entity.InvitationPending {
		return false, nil
	}
	inv.Status = entity.InvitationCancelled
	inv.UpdatedAt = now
	return true, nil
}

func (r *InvitationRepo) Reissue(ctx context.Context, id, token string, expiresAt, now time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invitations[id]
	if !ok || (inv.Status != entity.InvitationPending && inv.Status != entity.InvitationExpired) {
		return false, nil
	}
	for _, other := range r.db.invitations {
		if other.ID != id && other.Token == token {
			return false, domain.ErrDuplicate
		}
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt
	inv.Status = entity.InvitationPending
	inv.AcceptedAt = nil
	inv.AcceptedBy = nil
	inv.UpdatedAt = now
	return true, nil
}

func (r *InvitationRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, inv := range r.db.invitations {
		if inv.Status == entity.InvitationPending && !inv.ExpiresAt.After(now) {
			inv.Status = entity.InvitationExpired
			inv.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (r *InvitationRepo) CountByStatus(ctx context.Context, storeID string) (map[string]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	counts := make(map[string]int)
	for _, inv := range r.db.invitations {
		if inv.StoreID == storeID {
			counts[inv.Status]++
		}
	}
	return counts, nil
}

func (r *InvitationRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Invitation
	for _, inv := range r.db.invitations {
		if inv.StoreID == storeID {
			cp := *inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ db *DB }

// NewProductRepository construye el repo de productos.
func NewProductRepository(db *DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) List(ctx context.Context, scope access.QueryScope, limit, offset int) ([]*entity.Product, error) {
	if scope.Brand.MatchesNothing() {
		return nil, nil
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.db.products {
		if !p.Active {
			continue
		}
		if !scope.Unrestricted && p.StoreID != scope.StoreID {
			continue
		}
		if marcaID, ok := scope.Brand.MarcaID(); ok {
			if p.MarcaID == nil || *p.MarcaID != marcaID {
				continue
			}
		}
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *ProductRepo) CountByMarca(ctx context.Context, marcaID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, p := range r.db.products {
		if p.MarcaID != nil && *p.MarcaID == marcaID {
			n++
		}
	}
	return n, nil
}
