package repository

import (
	"context"
	"time"

	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// InvitationRepository define el puerto de persistencia para Invitation.
//
// Las transiciones de estado son updates condicionales de una sola sentencia
// (guard en el WHERE), nunca read-then-write: dos Accept concurrentes sobre el
// mismo token deben producir exactamente un éxito.
type InvitationRepository interface {
	Create(ctx context.Context, inv *entity.Invitation) error
	GetByID(ctx context.Context, id string) (*entity.Invitation, error)
	GetByToken(ctx context.Context, token string) (*entity.Invitation, error)
	// FindActive devuelve la invitación aceptada, o pendiente y sin expirar,
	// para (email, tienda); nil si no hay ninguna.
	FindActive(ctx context.Context, email, storeID string, now time.Time) (*entity.Invitation, error)
	// AcceptPending transiciona pending→accepted solo si la fila sigue pending
	// y sin expirar en el momento del update. Devuelve la fila actualizada o
	// nil si el guard no matcheó (el caller decide entre expirada/consumida).
	AcceptPending(ctx context.Context, token, acceptedBy string, now time.Time) (*entity.Invitation, error)
	// CancelPending transiciona pending→cancelled; false si no estaba pending.
	CancelPending(ctx context.Context, id string, now time.Time) (bool, error)
	// Reissue emite token y vencimiento nuevos y vuelve el estado a pending,
	// solo si la fila está pending o expired; false si el guard no matcheó.
	Reissue(ctx context.Context, id, token string, expiresAt, now time.Time) (bool, error)
	// ExpirePending marca expired toda fila pending vencida; devuelve cuántas.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context, storeID string) (map[string]int, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.Invitation, error)
}
