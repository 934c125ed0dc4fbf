package invitation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
	"github.com/jpradov/galeria-api/internal/infrastructure/memory"
	"github.com/jpradov/galeria-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminID     = "profile-admin"
	locatarioID = "profile-locatario"
	proveedorID = "profile-proveedor"
	otherID     = "profile-ajeno"
	storeID     = "store-1"
)

// fakeMailer registra los correos enviados sin salir del proceso.
type fakeMailer struct {
	mu    sync.Mutex
	sends []invitation.MailData
}

func (m *fakeMailer) Send(ctx context.Context, to string, data invitation.MailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, data)
	return nil
}

type fixture struct {
	uc     *invitation.UseCase
	db     *memory.DB
	mailer *fakeMailer
	now    time.Time
}

// advance corre el reloj inyectado del caso de uso.
func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// newFixture arma el caso de uso sobre la base en memoria con un admin, un
// locatario dueño de la tienda, un proveedor y un perfil sin relación alguna.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	ctx := context.Background()

	profiles := memory.NewProfileRepository(db)
	stores := memory.NewStoreRepository(db)

	seed := []*entity.Profile{
		{ID: adminID, Email: "admin@galeria.test", Rol: entity.RolAdmin},
		{ID: locatarioID, Email: "locatario@galeria.test", Rol: entity.RolLocatario},
		{ID: proveedorID, Email: "proveedor@galeria.test", Rol: entity.RolProveedor},
		{ID: otherID, Email: "ajeno@galeria.test", Rol: entity.RolLocatario},
	}
	for _, p := range seed {
		p.CreatedAt = baseTime
		p.UpdatedAt = baseTime
		require.NoError(t, profiles.Create(ctx, p))
	}
	require.NoError(t, stores.Create(ctx, &entity.Store{
		ID: storeID, Name: "Galería Centro", LocatarioID: locatarioID,
		Active: true, CreatedAt: baseTime, UpdatedAt: baseTime,
	}))

	f := &fixture{db: db, mailer: &fakeMailer{}, now: baseTime}
	f.uc = invitation.NewUseCase(
		memory.NewInvitationRepository(db),
		stores,
		profiles,
		memory.NewTxRunner(db),
		f.mailer,
		invitation.Config{TTLHours: 72, BaseURL: "https://galeria.test"},
		logger.Nop(),
	).WithClock(func() time.Time { return f.now })
	return f
}

func mustCreate(t *testing.T, f *fixture, actorID, email, rol string) *dto.InvitationResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), actorID, storeID, dto.CreateInvitationRequest{
		Email: email, Rol: rol,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_GeneraPendienteConTokenYVencimiento(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "Nuevo@Proveedor.Test", entity.RolProveedor)

	assert.NotEmpty(t, out.Token, "el token debe viajar en la respuesta de creación")
	assert.Equal(t, entity.InvitationPending, out.Status)
	assert.Equal(t, "nuevo@proveedor.test", out.Email, "el email se guarda plegado")
	assert.Equal(t, baseTime.Add(72*time.Hour), out.ExpiresAt)

	require.Len(t, f.mailer.sends, 1, "debe dispararse el correo de invitación")
	assert.Contains(t, f.mailer.sends[0].AcceptURL, out.Token)
}

func TestCreate_AdminPuedeInvitarEnTiendaAjena(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, adminID, "alguien@x.test", entity.RolProveedor)
	assert.Equal(t, storeID, out.StoreID)
}

func TestCreate_ActorSinPermisoEsRechazado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), otherID, storeID, dto.CreateInvitationRequest{
		Email: "alguien@x.test", Rol: entity.RolProveedor,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

func TestCreate_ValidaEmailYRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, locatarioID, storeID, dto.CreateInvitationRequest{Email: "sin-arroba", Rol: entity.RolProveedor})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Create(ctx, locatarioID, storeID, dto.CreateInvitationRequest{Email: "ok@x.test", Rol: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Create(ctx, locatarioID, storeID, dto.CreateInvitationRequest{Email: "ok@x.test", Rol: entity.RolAdmin})
	assert.ErrorIs(t, err, domain.ErrValidation, "una invitación nunca otorga rol admin")
}

func TestCreate_DuplicadaMientrasHayaPendienteSinExpirar(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, locatarioID, "repetido@x.test", entity.RolProveedor)

	_, err := f.uc.Create(context.Background(), locatarioID, storeID, dto.CreateInvitationRequest{
		Email: "Repetido@X.Test", Rol: entity.RolProveedor,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveInvitation,
		"el mismo email plegado cuenta como duplicado")
}

func TestCreate_PermitidaCuandoLaAnteriorExpiro(t *testing.T) {
	f := newFixture(t)
	stale := mustCreate(t, f, locatarioID, "repetido@x.test", entity.RolProveedor)

	f.advance(73 * time.Hour)
	out := mustCreate(t, f, locatarioID, "repetido@x.test", entity.RolProveedor)
	assert.Equal(t, entity.InvitationPending, out.Status,
		"una pendiente ya vencida no bloquea una invitación nueva")

	prev, err := memory.NewInvitationRepository(f.db).GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, entity.InvitationExpired, prev.Status,
		"el alta expira la pendiente vencida en lugar de convivir con ella")
}

func TestCreate_BloqueadaCuandoYaFueAceptada(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)
	_, err := f.uc.Accept(context.Background(), proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), locatarioID, storeID, dto.CreateInvitationRequest{
		Email: "proveedor@galeria.test", Rol: entity.RolProveedor,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveInvitation,
		"una aceptada sigue contando dentro de la ventana de duplicados")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_TokenVigente(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "valida@x.test", entity.RolProveedor)

	res, err := f.uc.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "valida@x.test", res.Email)
	assert.Equal(t, entity.RolProveedor, res.Rol)
}

func TestValidate_TokenDesconocido(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Validate(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, invitation.ReasonNotFound, res.Reason)
}

func TestValidate_PendienteVencidaReportaExpiradaSinMutar(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "tarde@x.test", entity.RolProveedor)

	f.advance(73 * time.Hour)
	res, err := f.uc.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, invitation.ReasonExpired, res.Reason,
		"la expiración es un hecho derivado aunque el barrido no haya corrido")

	stored, err := memory.NewInvitationRepository(f.db).GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvitationPending, stored.Status, "Validate nunca muta estado")
}

func TestValidate_CanceladaReportaNotPending(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "cancelada@x.test", entity.RolProveedor)
	require.NoError(t, f.uc.Cancel(context.Background(), locatarioID, out.ID))

	res, err := f.uc.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, invitation.ReasonNotPending, res.Reason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Accept
// ──────────────────────────────────────────────────────────────────────────────

func TestAccept_ProveedorMaterializaAsociacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)

	res, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, storeID, res.StoreID)

	assoc, err := memory.NewAssociationRepository(f.db).Get(ctx, storeID, proveedorID)
	require.NoError(t, err)
	require.NotNil(t, assoc)
	assert.True(t, assoc.Active)
	assert.Nil(t, assoc.MarcaID, "la aceptación no asigna marca; eso lo hace el locatario después")
}

func TestAccept_ReactivaAsociacionPreservandoMarca(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marca := "marca-textil"
	require.NoError(t, memory.NewAssociationRepository(f.db).Upsert(ctx, &entity.StoreProviderAssociation{
		StoreID: storeID, ProviderID: proveedorID, MarcaID: &marca, Active: false,
		InvitedAt: baseTime, UpdatedAt: baseTime,
	}))

	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)
	_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)

	assoc, err := memory.NewAssociationRepository(f.db).Get(ctx, storeID, proveedorID)
	require.NoError(t, err)
	assert.True(t, assoc.Active)
	require.NotNil(t, assoc.MarcaID)
	assert.Equal(t, marca, *assoc.MarcaID, "reaceptar no pisa la marca ya asignada")
}

func TestAccept_LocatarioTransfiereTitularidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, adminID, "ajeno@galeria.test", entity.RolLocatario)

	res, err := f.uc.Accept(ctx, otherID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)
	assert.True(t, res.Success)

	store, err := memory.NewStoreRepository(f.db).GetByID(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, otherID, store.LocatarioID)

	profile, err := memory.NewProfileRepository(f.db).GetByID(ctx, otherID)
	require.NoError(t, err)
	require.NotNil(t, profile.StoreID)
	assert.Equal(t, storeID, *profile.StoreID)
}

func TestAccept_AjustaRolDelPerfil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "ajeno@galeria.test", entity.RolProveedor)

	_, err := f.uc.Accept(ctx, otherID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)

	profile, err := memory.NewProfileRepository(f.db).GetByID(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, entity.RolProveedor, profile.Rol)
}

func TestAccept_TokenDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Accept(context.Background(), proveedorID, dto.AcceptInvitationRequest{Token: "nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccept_TokenVencido(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "tarde@x.test", entity.RolProveedor)

	f.advance(73 * time.Hour)
	_, err := f.uc.Accept(context.Background(), proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	assert.ErrorIs(t, err, domain.ErrInvitationExpired)
}

func TestAccept_SegundoIntentoFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)

	_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	require.NoError(t, err)

	_, err = f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	assert.ErrorIs(t, err, domain.ErrInvitationNotPending, "el token es de un solo uso")
}

func TestAccept_CanceladaFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "cancelada@x.test", entity.RolProveedor)
	require.NoError(t, f.uc.Cancel(ctx, locatarioID, out.ID))

	_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
	assert.ErrorIs(t, err, domain.ErrInvitationNotPending)
}

func TestAccept_ConcurrenteExactamenteUnExito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: out.Token})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvitationNotPending)
		}
	}
	assert.Equal(t, 1, successes, "de N intentos concurrentes exactamente uno consume el token")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel / Resend
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_SoloPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)

	require.NoError(t, f.uc.Cancel(ctx, locatarioID, out.ID))

	err := f.uc.Cancel(ctx, locatarioID, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelar dos veces no es válido")
}

func TestCancel_ActorSinPermiso(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "x@x.test", entity.RolProveedor)
	err := f.uc.Cancel(context.Background(), otherID, out.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedOperation)
}

func TestResend_EmiteTokenYVencimientoNuevos(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "x@x.test", entity.RolProveedor)

	f.advance(time.Hour)
	resent, err := f.uc.Resend(context.Background(), locatarioID, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, out.Token, resent.Token, "el token anterior queda invalidado")
	assert.Equal(t, f.now.Add(72*time.Hour), resent.ExpiresAt)

	old, err := f.uc.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.False(t, old.Valid, "el token viejo ya no valida")
}

func TestResend_RevivePendienteExpirada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := mustCreate(t, f, locatarioID, "x@x.test", entity.RolProveedor)

	f.advance(100 * time.Hour)
	_, err := f.uc.CleanupExpired(ctx)
	require.NoError(t, err)

	resent, err := f.uc.Resend(ctx, locatarioID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvitationPending, resent.Status)
}

// reissueConflictOnce simula una colisión del índice único del token en el
// primer reintento de emisión.
type reissueConflictOnce struct {
	repository.InvitationRepository
	calls int
}

func (r *reissueConflictOnce) Reissue(ctx context.Context, id, token string, expiresAt, now time.Time) (bool, error) {
	r.calls++
	if r.calls == 1 {
		return false, domain.ErrDuplicate
	}
	return r.InvitationRepository.Reissue(ctx, id, token, expiresAt, now)
}

func TestResend_ReintentaConTokenNuevoSiElPrimeroChoca(t *testing.T) {
	f := newFixture(t)
	out := mustCreate(t, f, locatarioID, "x@x.test", entity.RolProveedor)

	flaky := &reissueConflictOnce{InvitationRepository: memory.NewInvitationRepository(f.db)}
	uc := invitation.NewUseCase(
		flaky,
		memory.NewStoreRepository(f.db),
		memory.NewProfileRepository(f.db),
		memory.NewTxRunner(f.db),
		f.mailer,
		invitation.Config{TTLHours: 72, BaseURL: "https://galeria.test"},
		logger.Nop(),
	).WithClock(func() time.Time { return f.now })

	resent, err := uc.Resend(context.Background(), locatarioID, out.ID)
	require.NoError(t, err, "una colisión de token aislada no debe llegar al llamador")
	assert.Equal(t, 2, flaky.calls)
	assert.NotEqual(t, out.Token, resent.Token)
}

func TestResend_RechazaAceptadaYCancelada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accepted := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)
	_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: accepted.Token})
	require.NoError(t, err)
	_, err = f.uc.Resend(ctx, locatarioID, accepted.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	cancelled := mustCreate(t, f, locatarioID, "otra@x.test", entity.RolProveedor)
	require.NoError(t, f.uc.Cancel(ctx, locatarioID, cancelled.ID))
	_, err = f.uc.Resend(ctx, locatarioID, cancelled.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// CleanupExpired / Stats / ListByStore
// ──────────────────────────────────────────────────────────────────────────────

func TestCleanupExpired_MarcaSoloVencidasYEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustCreate(t, f, locatarioID, "vieja@x.test", entity.RolProveedor)
	f.advance(48 * time.Hour)
	fresh := mustCreate(t, f, locatarioID, "fresca@x.test", entity.RolProveedor)
	f.advance(30 * time.Hour) // la primera ya venció (78h), la segunda no (30h)

	count, err := f.uc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	res, err := f.uc.Validate(ctx, fresh.Token)
	require.NoError(t, err)
	assert.True(t, res.Valid, "la invitación vigente no se toca")

	count, err = f.uc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "la segunda corrida no matchea ninguna")
}

func TestStats_CuentaPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustCreate(t, f, locatarioID, "a@x.test", entity.RolProveedor)
	accepted := mustCreate(t, f, locatarioID, "proveedor@galeria.test", entity.RolProveedor)
	_, err := f.uc.Accept(ctx, proveedorID, dto.AcceptInvitationRequest{Token: accepted.Token})
	require.NoError(t, err)
	cancelled := mustCreate(t, f, locatarioID, "c@x.test", entity.RolProveedor)
	require.NoError(t, f.uc.Cancel(ctx, locatarioID, cancelled.ID))

	stats, err := f.uc.Stats(ctx, locatarioID, storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counts[entity.InvitationPending])
	assert.Equal(t, 1, stats.Counts[entity.InvitationAccepted])
	assert.Equal(t, 1, stats.Counts[entity.InvitationCancelled])
}

func TestListByStore_OmiteTokens(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, locatarioID, "a@x.test", entity.RolProveedor)
	mustCreate(t, f, locatarioID, "b@x.test", entity.RolProveedor)

	list, err := f.uc.ListByStore(context.Background(), locatarioID, storeID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, inv := range list {
		assert.Empty(t, inv.Token, "el token nunca viaja en listados")
	}
}
