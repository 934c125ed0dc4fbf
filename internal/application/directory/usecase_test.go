package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpradov/galeria-api/internal/application/directory"
	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/infrastructure/memory"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminID     = "admin"
	locatarioID = "locatario"
	proveedorID = "proveedor"
)

type fixture struct {
	uc *directory.UseCase
	db *memory.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	ctx := context.Background()
	profiles := memory.NewProfileRepository(db)

	seed := []*entity.Profile{
		{ID: adminID, Email: "admin@galeria.test", Rol: entity.RolAdmin},
		{ID: locatarioID, Email: "locatario@galeria.test", Rol: entity.RolLocatario},
		{ID: proveedorID, Email: "proveedor@galeria.test", Rol: entity.RolProveedor},
	}
	for _, p := range seed {
		p.CreatedAt = t0
		p.UpdatedAt = t0
		require.NoError(t, profiles.Create(ctx, p))
	}

	uc := directory.NewUseCase(
		memory.NewStoreRepository(db),
		memory.NewMarcaRepository(db),
		memory.NewAssociationRepository(db),
		profiles,
		memory.NewProductRepository(db),
	).WithClock(func() time.Time { return t0 })
	return &fixture{uc: uc, db: db}
}

func (f *fixture) createStore(t *testing.T, actorID, name string) *dto.StoreResponse {
	t.Helper()
	out, err := f.uc.CreateStore(context.Background(), actorID, dto.CreateStoreRequest{Name: name})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tiendas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStore_LocatarioCreaLaPropia(t *testing.T) {
	f := newFixture(t)
	out := f.createStore(t, locatarioID, "Galería Centro")
	assert.Equal(t, locatarioID, out.LocatarioID)
	assert.True(t, out.Active)

	owner, err := memory.NewProfileRepository(f.db).GetByID(context.Background(), locatarioID)
	require.NoError(t, err)
	require.NotNil(t, owner.StoreID)
	assert.Equal(t, out.ID, *owner.StoreID, "el perfil queda apuntando a su tienda")
}

func TestCreateStore_AdminCreaANombreDeOtro(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.CreateStore(context.Background(), adminID, dto.CreateStoreRequest{
		Name: "Tienda Delegada", LocatarioID: locatarioID,
	})
	require.NoError(t, err)
	assert.Equal(t, locatarioID, out.LocatarioID)
}

func TestCreateStore_ProveedorNoPuede(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateStore(context.Background(), proveedorID, dto.CreateStoreRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

func TestCreateStore_NombreDuplicadoEntreActivas(t *testing.T) {
	f := newFixture(t)
	f.createStore(t, locatarioID, "Galería Centro")

	_, err := f.uc.CreateStore(context.Background(), adminID, dto.CreateStoreRequest{Name: "Galería Centro"})
	assert.ErrorIs(t, err, domain.ErrDuplicateStoreName)
}

func TestCreateStore_NombreLiberadoAlDesactivar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createStore(t, locatarioID, "Galería Centro")
	require.NoError(t, f.uc.DeactivateStore(ctx, locatarioID, s.ID))

	out, err := f.uc.CreateStore(ctx, adminID, dto.CreateStoreRequest{Name: "Galería Centro"})
	require.NoError(t, err, "una tienda desactivada libera su nombre")
	assert.NotEqual(t, s.ID, out.ID)
}

func TestCreateStore_NombreVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateStore(context.Background(), locatarioID, dto.CreateStoreRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeactivateStore_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createStore(t, locatarioID, "Galería Centro")

	require.NoError(t, f.uc.DeactivateStore(ctx, locatarioID, s.ID))
	require.NoError(t, f.uc.DeactivateStore(ctx, locatarioID, s.ID))

	got, err := f.uc.GetStore(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeactivateStore_SoloAdminODueno(t *testing.T) {
	f := newFixture(t)
	s := f.createStore(t, locatarioID, "Galería Centro")
	err := f.uc.DeactivateStore(context.Background(), proveedorID, s.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBrand_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Textil Norte"})
	require.NoError(t, err)
	assert.Equal(t, "Textil Norte", out.Name)

	_, err = f.uc.CreateBrand(ctx, locatarioID, dto.CreateMarcaRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

func TestUpdateBrand_RenombraYExigeAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marca, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Textil Norte"})
	require.NoError(t, err)

	out, err := f.uc.UpdateBrand(ctx, adminID, marca.ID, dto.CreateMarcaRequest{
		Name: "Textil Sur", Description: "relanzada",
	})
	require.NoError(t, err)
	assert.Equal(t, "Textil Sur", out.Name)

	_, err = f.uc.UpdateBrand(ctx, locatarioID, marca.ID, dto.CreateMarcaRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

func TestDeleteBrand_FallaConProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marca, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Textil Norte"})
	require.NoError(t, err)

	require.NoError(t, memory.NewProductRepository(f.db).Create(ctx, &entity.Product{
		ID: "p1", StoreID: "s1", MarcaID: &marca.ID, Name: "Remera",
		Price: decimal.NewFromInt(100), Active: true, CreatedAt: t0, UpdatedAt: t0,
	}))

	err = f.uc.DeleteBrand(ctx, adminID, marca.ID)
	assert.ErrorIs(t, err, domain.ErrBrandInUse)
}

func TestDeleteBrand_SinProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marca, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Efímera"})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteBrand(ctx, adminID, marca.ID))

	list, err := f.uc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asociaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertAssociation_CreaYActualizaSinDuplicar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createStore(t, locatarioID, "Galería Centro")
	marca, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Textil Norte"})
	require.NoError(t, err)

	first, err := f.uc.UpsertAssociation(ctx, locatarioID, s.ID, proveedorID, nil)
	require.NoError(t, err)
	assert.Nil(t, first.MarcaID)
	assert.True(t, first.Active)

	second, err := f.uc.UpsertAssociation(ctx, locatarioID, s.ID, proveedorID, &marca.ID)
	require.NoError(t, err)
	require.NotNil(t, second.MarcaID)
	assert.Equal(t, marca.ID, *second.MarcaID)

	list, err := f.uc.ListStoreProviders(ctx, locatarioID, s.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "a lo sumo una fila por par (tienda, proveedor)")
}

func TestUpsertAssociation_RechazaNoProveedor(t *testing.T) {
	f := newFixture(t)
	s := f.createStore(t, locatarioID, "Galería Centro")
	_, err := f.uc.UpsertAssociation(context.Background(), locatarioID, s.ID, adminID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpsertAssociation_RechazaMarcaInexistente(t *testing.T) {
	f := newFixture(t)
	s := f.createStore(t, locatarioID, "Galería Centro")
	fantasma := "marca-fantasma"
	_, err := f.uc.UpsertAssociation(context.Background(), locatarioID, s.ID, proveedorID, &fantasma)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleAssociation_PreservaLaMarca(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createStore(t, locatarioID, "Galería Centro")
	marca, err := f.uc.CreateBrand(ctx, adminID, dto.CreateMarcaRequest{Name: "Textil Norte"})
	require.NoError(t, err)
	_, err = f.uc.UpsertAssociation(ctx, locatarioID, s.ID, proveedorID, &marca.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.DeactivateAssociation(ctx, locatarioID, s.ID, proveedorID))
	require.NoError(t, f.uc.ReactivateAssociation(ctx, locatarioID, s.ID, proveedorID))

	assoc, err := memory.NewAssociationRepository(f.db).Get(ctx, s.ID, proveedorID)
	require.NoError(t, err)
	assert.True(t, assoc.Active)
	require.NotNil(t, assoc.MarcaID)
	assert.Equal(t, marca.ID, *assoc.MarcaID, "el toggle no borra la marca asignada")
}

func TestToggleAssociation_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.createStore(t, locatarioID, "Galería Centro")
	_, err := f.uc.UpsertAssociation(ctx, locatarioID, s.ID, proveedorID, nil)
	require.NoError(t, err)

	require.NoError(t, f.uc.DeactivateAssociation(ctx, locatarioID, s.ID, proveedorID))
	require.NoError(t, f.uc.DeactivateAssociation(ctx, locatarioID, s.ID, proveedorID))
	require.NoError(t, f.uc.ReactivateAssociation(ctx, locatarioID, s.ID, proveedorID))
	require.NoError(t, f.uc.ReactivateAssociation(ctx, locatarioID, s.ID, proveedorID))

	assoc, err := memory.NewAssociationRepository(f.db).Get(ctx, s.ID, proveedorID)
	require.NoError(t, err)
	assert.True(t, assoc.Active)
}

func TestAssociation_ActorSinPermiso(t *testing.T) {
	f := newFixture(t)
	s := f.createStore(t, locatarioID, "Galería Centro")
	_, err := f.uc.UpsertAssociation(context.Background(), proveedorID, s.ID, proveedorID, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}
