package invitation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
	"github.com/jpradov/galeria-api/pkg/logger"
	"github.com/jpradov/galeria-api/pkg/metrics"
	"github.com/jpradov/galeria-api/pkg/token"
)

// Razones de invalidez para Validate.
const (
	ReasonNotFound   = "not_found"
	ReasonNotPending = "not_pending"
	ReasonExpired    = "expired"
)

// Config parámetros del ciclo de vida.
type Config struct {
	TTLHours int    // vigencia por defecto; 0 = 72h
	BaseURL  string // base pública del link de aceptación
}

// UseCase gestiona el ciclo de vida de invitaciones: crear, validar, aceptar,
// cancelar, reenviar, barrer expiradas. Toda transición de estado es un update
// condicional en el repositorio; este caso de uso nunca hace check-then-act
// sobre el estado persistido.
type UseCase struct {
	invRepo     repository.InvitationRepository
	storeRepo   repository.StoreRepository
	profileRepo repository.ProfileRepository
	tx          TxRunner
	mailer      Mailer
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el gestor de invitaciones.
func NewUseCase(
	invRepo repository.InvitationRepository,
	storeRepo repository.StoreRepository,
	profileRepo repository.ProfileRepository,
	tx TxRunner,
	mailer Mailer,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if cfg.TTLHours <= 0 {
		cfg.TTLHours = int(entity.DefaultInvitationTTL / time.Hour)
	}
	return &UseCase{
		invRepo:     invRepo,
		storeRepo:   storeRepo,
		profileRepo: profileRepo,
		tx:          tx,
		mailer:      mailer,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo; para tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// foldEmail normaliza un email para almacenamiento y comparación.
func foldEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Create genera una invitación pendiente con token único. Falla con
// ErrDuplicateActiveInvitation si ya existe una aceptada, o pendiente y sin
// expirar, para (email, tienda). El actor debe ser admin o el locatario dueño.
func (uc *UseCase) Create(ctx context.Context, actorID, storeID string, in dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	email := foldEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidation
	}
	if !entity.ValidInvitationRol(in.Rol) {
		return nil, domain.ErrValidation
	}
	store, err := uc.canManageStore(ctx, actorID, storeID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	active, err := uc.invRepo.FindActive(ctx, email, storeID, now)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrDuplicateActiveInvitation
	}

	ttl := time.Duration(in.TTLHours) * time.Hour
	if in.TTLHours <= 0 {
		ttl = time.Duration(uc.cfg.TTLHours) * time.Hour
	}

	var inv *entity.Invitation
	// el índice único del token es el backstop: un solo reintento en conflicto
	for attempt := 0; ; attempt++ {
		tok, err := token.New()
		if err != nil {
			return nil, err
		}
		inv = &entity.Invitation{
			ID:        uuid.New().String(),
			Token:     tok,
			Email:     email,
			StoreID:   storeID,
			Rol:       in.Rol,
			InvitedBy: actorID,
			Status:    entity.InvitationPending,
			ExpiresAt: now.Add(ttl),
			Metadata:  in.Metadata,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = uc.invRepo.Create(ctx, inv)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateActiveInvitation) {
			return nil, err
		}
		if errors.Is(err, domain.ErrDuplicate) && attempt == 0 {
			continue
		}
		return nil, err
	}

	metrics.InvitationsCreated.Inc()
	uc.sendMail(ctx, inv, store.Name)
	return toInvitationResponse(inv, true), nil
}

// Validate verifica un token sin mutar estado. La expiración es un hecho
// derivado de lectura: una fila pending vencida reporta "expired" aunque el
// barrido todavía no la haya marcado.
func (uc *UseCase) Validate(ctx context.Context, rawToken string) (*dto.ValidateInvitationResponse, error) {
	inv, err := uc.invRepo.GetByToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return &dto.ValidateInvitationResponse{Valid: false, Reason: ReasonNotFound}, nil
	}
	if inv.Status != entity.InvitationPending {
		reason := ReasonNotPending
		if inv.Status == entity.InvitationExpired {
			reason = ReasonExpired
		}
		return &dto.ValidateInvitationResponse{Valid: false, Reason: reason}, nil
	}
	if inv.IsExpired(uc.now()) {
		return &dto.ValidateInvitationResponse{Valid: false, Reason: ReasonExpired}, nil
	}
	return &dto.ValidateInvitationResponse{Valid: true, Email: inv.Email, Rol: inv.Rol}, nil
}

// Accept consume el token en nombre del perfil autenticado. La transición
// pending→accepted es un único update condicional; en la misma transacción se
// materializa el acceso (asociación para proveedor, titularidad para
// locatario) y se vincula el auth-subject del perfil si faltaba. De N intentos
// concurrentes sobre el mismo token exactamente uno devuelve Success.
func (uc *UseCase) Accept(ctx context.Context, profileID string, in dto.AcceptInvitationRequest) (*dto.InvitationAcceptanceResult, error) {
	if in.Token == "" {
		return nil, domain.ErrValidation
	}
	var result *dto.InvitationAcceptanceResult

	err := uc.tx.Run(ctx, func(
		invRepo repository.InvitationRepository,
		assocRepo repository.AssociationRepository,
		profileRepo repository.ProfileRepository,
		storeRepo repository.StoreRepository,
	) error {
		now := uc.now()
		inv, err := invRepo.AcceptPending(ctx, in.Token, profileID, now)
		if err != nil {
			return err
		}
		if inv == nil {
			// el guard no matcheó: distinguir por qué con una lectura posterior
			existing, err := invRepo.GetByToken(ctx, in.Token)
			if err != nil {
				return err
			}
			if existing == nil {
				return domain.ErrNotFound
			}
			if existing.Status == entity.InvitationPending && existing.IsExpired(now) {
				return domain.ErrInvitationExpired
			}
			if existing.Status == entity.InvitationExpired {
				return domain.ErrInvitationExpired
			}
			return domain.ErrInvitationNotPending
		}

		profile, err := profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrNotFound
		}

		switch inv.Rol {
		case entity.RolProveedor:
			if err := assocRepo.UpsertOnAccept(ctx, inv.StoreID, profileID); err != nil {
				return err
			}
		case entity.RolLocatario:
			store, err := storeRepo.GetByID(ctx, inv.StoreID)
			if err != nil {
				return err
			}
			if store == nil {
				return domain.ErrNotFound
			}
			store.LocatarioID = profileID
			store.UpdatedAt = now
			if err := storeRepo.Update(ctx, store); err != nil {
				return err
			}
			profile.StoreID = &inv.StoreID
		}

		if !profile.IsAdmin() && profile.Rol != inv.Rol {
			profile.Rol = inv.Rol
		}
		profile.UpdatedAt = now
		if err := profileRepo.Update(ctx, profile); err != nil {
			return err
		}

		result = &dto.InvitationAcceptanceResult{Success: true, StoreID: inv.StoreID}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotPending) || errors.Is(err, domain.ErrInvitationExpired) {
			metrics.InvitationAcceptConflicts.Inc()
		}
		return nil, err
	}

	metrics.InvitationsAccepted.Inc()
	return result, nil
}

// Cancel transiciona pending→cancelled. ErrInvalidTransition si la invitación
// ya no está pendiente.
func (uc *UseCase) Cancel(ctx context.Context, actorID, id string) error {
	inv, err := uc.authorizedGet(ctx, actorID, id)
	if err != nil {
		return err
	}
	ok, err := uc.invRepo.CancelPending(ctx, inv.ID, uc.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Resend emite token y vencimiento nuevos y vuelve la invitación a pending.
// Solo se admite sobre pending o expired: revivir una aceptada o cancelada
// rompería la garantía de un solo uso.
func (uc *UseCase) Resend(ctx context.Context, actorID, id string) (*dto.InvitationResponse, error) {
	inv, err := uc.authorizedGet(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !inv.CanResend() {
		return nil, domain.ErrInvalidTransition
	}

	now := uc.now()
	expiresAt := now.Add(time.Duration(uc.cfg.TTLHours) * time.Hour)
	var tok string
	// mismo backstop que en Create: un solo reintento si el token nuevo choca
	for attempt := 0; ; attempt++ {
		t, err := token.New()
		if err != nil {
			return nil, err
		}
		ok, err := uc.invRepo.Reissue(ctx, inv.ID, t, expiresAt, now)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) && attempt == 0 {
				continue
			}
			return nil, err
		}
		if !ok {
			// el estado cambió entre la lectura y el update condicional
			return nil, domain.ErrInvalidTransition
		}
		tok = t
		break
	}

	inv.Token = tok
	inv.Status = entity.InvitationPending
	inv.ExpiresAt = expiresAt
	inv.UpdatedAt = now

	store, err := uc.storeRepo.GetByID(ctx, inv.StoreID)
	if err == nil && store != nil {
		uc.sendMail(ctx, inv, store.Name)
	}
	return toInvitationResponse(inv, true), nil
}

// CleanupExpired marca expired toda invitación pendiente vencida y devuelve la
// cantidad afectada. Idempotente y seguro frente a Accept concurrentes: una
// fila que ya salió de pending simplemente no matchea.
func (uc *UseCase) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := uc.invRepo.ExpirePending(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		metrics.InvitationsSweptExpired.Add(float64(count))
		uc.log.Info().Int64("expired", count).Msg("barrido de invitaciones expiradas")
	}
	return count, nil
}

// Stats devuelve el conteo de invitaciones por estado para una tienda.
func (uc *UseCase) Stats(ctx context.Context, actorID, storeID string) (*dto.InvitationStatsResponse, error) {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	counts, err := uc.invRepo.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.InvitationStatsResponse{StoreID: storeID, Counts: counts}, nil
}

// ListByStore lista las invitaciones de una tienda, sin tokens.
func (uc *UseCase) ListByStore(ctx context.Context, actorID, storeID string) ([]*dto.InvitationResponse, error) {
	if _, err := uc.canManageStore(ctx, actorID, storeID); err != nil {
		return nil, err
	}
	invs, err := uc.invRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv, false))
	}
	return out, nil
}

// AcceptURL construye el link de aceptación que viaja en el correo.
func (uc *UseCase) AcceptURL(rawToken string) string {
	return fmt.Sprintf("%s/invitation/accept?token=%s",
		strings.TrimRight(uc.cfg.BaseURL, "/"), url.QueryEscape(rawToken))
}

// sendMail dispara el correo de invitación. Un fallo de entrega no afecta el
// estado de la invitación: se registra y se sigue.
func (uc *UseCase) sendMail(ctx context.Context, inv *entity.Invitation, storeName string) {
	if uc.mailer == nil {
		return
	}
	data := MailData{
		StoreName: storeName,
		Rol:       inv.Rol,
		AcceptURL: uc.AcceptURL(inv.Token),
		ExpiresAt: inv.ExpiresAt,
	}
	if err := uc.mailer.Send(ctx, inv.Email, data); err != nil {
		uc.log.Warn().Err(err).
			Str("invitation_id", inv.ID).
			Str("store_id", inv.StoreID).
			Msg("no se pudo enviar el correo de invitación")
	}
}

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

func (uc *UseCase) authorizedGet(ctx context.Context, actorID, id string) (*entity.Invitation, error) {
	inv, err := uc.invRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.canManageStore(ctx, actorID, inv.StoreID); err != nil {
		return nil, err
	}
	return inv, nil
}

func toInvitationResponse(inv *entity.Invitation, includeToken bool) *dto.InvitationResponse {
	out := &dto.InvitationResponse{
		ID:         inv.ID,
		Email:      inv.Email,
		StoreID:    inv.StoreID,
		Rol:        inv.Rol,
		Status:     inv.Status,
		InvitedBy:  inv.InvitedBy,
		ExpiresAt:  inv.ExpiresAt,
		AcceptedAt: inv.AcceptedAt,
		CreatedAt:  inv.CreatedAt,
	}
	if includeToken {
		out.Token = inv.Token
	}
	return out
}
