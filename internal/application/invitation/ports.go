package invitation

import (
	"context"
	"time"

	"github.com/jpradov/galeria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la aceptación de una invitación
// (transición de estado + upsert de asociación + vínculo de identidad) sea un
// único commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InvitationRepository,
		assocRepo repository.AssociationRepository,
		profileRepo repository.ProfileRepository,
		storeRepo repository.StoreRepository,
	) error) error
}

// MailData campos de plantilla del correo de invitación.
type MailData struct {
	StoreName string
	Rol       string
	AcceptURL string
	ExpiresAt time.Time
}

// Mailer puerto de envío de correo. El resultado del envío no afecta el estado
// de la invitación: un fallo se registra y nada más.
type Mailer interface {
	Send(ctx context.Context, to string, data MailData) error
}
