// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Lo usan los tests de casos de uso: mismas invariantes que el
// adaptador PostgreSQL (unicidades, updates condicionales atómicos), sin base.
package memory

import (
	"context"
	"sync"

	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

// DB estado compartido de todos los repositorios en memoria.
type DB struct {
	mu sync.Mutex

	profiles    map[string]*entity.Profile
	stores      map[string]*entity.Store
	marcas      map[string]*entity.Marca
	assocs      map[string]*entity.StoreProviderAssociation // key store|provider
	invitations map[string]*entity.Invitation
	products    map[string]*entity.Product
}

// NewDB construye una base vacía.
func NewDB() *DB {
	return &DB{
		profiles:    make(map[string]*entity.Profile),
		stores:      make(map[string]*entity.Store),
		marcas:      make(map[string]*entity.Marca),
		assocs:      make(map[string]*entity.StoreProviderAssociation),
		invitations: make(map[string]*entity.Invitation),
		products:    make(map[string]*entity.Product),
	}
}

func assocKey(storeID, providerID string) string { return storeID + "|" + providerID }

// snapshot copia el estado completo para poder deshacer una transacción.
func (db *DB) snapshot() *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := NewDB()
	for k, v := range db.profiles {
		cp := *v
		s.profiles[k] = &cp
	}
	for k, v := range db.stores {
		cp := *v
		s.stores[k] = &cp
	}
	for k, v := range db.marcas {
		cp := *v
		s.marcas[k] = &cp
	}
	for k, v := range db.assocs {
		cp := *v
		s.assocs[k] = &cp
	}
	for k, v := range db.invitations {
		cp := *v
		s.invitations[k] = &cp
	}
	for k, v := range db.products {
		cp := *v
		s.products[k] = &cp
	}
	return s
}

func (db *DB) restore(s *DB) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profiles = s.profiles
	db.stores = s.stores
	db.marcas = s.marcas
	db.assocs = s.assocs
	db.invitations = s.invitations
	db.products = s.products
}

// TxRunner implementación en memoria del límite transaccional: serializa las
// transacciones y deshace todo el estado si fn falla.
type TxRunner struct {
	db   *DB
	txMu sync.Mutex
}

// NewTxRunner construye el runner sobre la base en memoria.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con repos atados a la misma base; restaura el snapshot si falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InvitationRepository,
	assocRepo repository.AssociationRepository,
	profileRepo repository.ProfileRepository,
	storeRepo repository.StoreRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	before := r.db.snapshot()
	err := fn(
		NewInvitationRepository(r.db),
		NewAssociationRepository(r.db),
		NewProfileRepository(r.db),
		NewStoreRepository(r.db),
	)
	if err != nil {
		r.db.restore(before)
		return err
	}
	return nil
}

// SessionStore implementación en memoria del puerto de selección de tienda.
type SessionStore struct {
	mu       sync.Mutex
	selected map[string]string
}

// NewSessionStore construye el store de sesión en memoria.
func NewSessionStore() *SessionStore {
	return &SessionStore{selected: make(map[string]string)}
}

// Get devuelve la tienda seleccionada ("" si no hay selección).
func (s *SessionStore) Get(ctx context.Context, profileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[profileID], nil
}

// Set guarda la selección.
func (s *SessionStore) Set(ctx context.Context, profileID, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[profileID] = storeID
	return nil
}

// Delete borra la selección.
func (s *SessionStore) Delete(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, profileID)
	return nil
}
