package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

const invitationColumns = `id, token, email, store_id, rol, invited_by, status, expires_at, accepted_at, accepted_by, metadata, created_at, updated_at`

// InvitationRepo implementación del puerto InvitationRepository sobre
// PostgreSQL. Toda transición de estado es un UPDATE con guard en el WHERE: el
// estado previo esperado se verifica en la misma sentencia que lo cambia.
type InvitationRepo struct {
	db dbtx
}

// NewInvitationRepository construye el adaptador de persistencia para invitaciones.
func NewInvitationRepository(db dbtx) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// Create persiste una invitación pendiente. Una pendiente ya vencida para el
// mismo (email, tienda) se expira de forma perezosa antes del insert para que
// no siga ocupando el índice parcial; el índice queda como backstop frente a
// altas concurrentes. Distingue por constraint qué índice único rechazó el
// insert: el del token (reintentable con token nuevo) o el parcial de
// (email, tienda) pendiente.
func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	expire := `
		UPDATE invitations SET status = 'expired', updated_at = $3
		WHERE email = $1 AND store_id = $2 AND status = 'pending' AND expires_at <= $3`
	if _, err := r.db.Exec(ctx, expire, inv.Email, inv.StoreID, inv.CreatedAt); err != nil {
		return fmt.Errorf("expire stale invitation: %w", err)
	}

	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.Token, inv.Email, inv.StoreID, inv.Rol, inv.InvitedBy, inv.Status,
		inv.ExpiresAt, inv.AcceptedAt, inv.AcceptedBy, inv.Metadata, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case "invitations_pending_email_store_uq":
			return domain.ErrDuplicateActiveInvitation
		case "":
			return fmt.Errorf("insert invitation: %w", err)
		default:
			return domain.ErrDuplicate
		}
	}
	return nil
}

// GetByID obtiene una invitación por ID.
func (r *InvitationRepo) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return r.scanOne("get invitation", r.db.QueryRow(ctx, query, id))
}

// GetByToken obtiene una invitación por token.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	return r.scanOne("get invitation by token", r.db.QueryRow(ctx, query, token))
}

// FindActive devuelve la invitación aceptada, o pendiente y sin expirar, para
// (email, tienda); nil si no hay ninguna.
func (r *InvitationRepo) FindActive(ctx context.Context, email, storeID string, now time.Time) (*entity.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + ` FROM invitations
		WHERE email = $1 AND store_id = $2
		  AND (status = 'accepted' OR (status = 'pending' AND expires_at > $3))
		LIMIT 1`
	return r.scanOne("find active invitation", r.db.QueryRow(ctx, query, email, storeID, now))
}

// AcceptPending transiciona pending→accepted en un único update condicional.
// El guard (status y vencimiento verificados en el WHERE) hace que de N
// intentos concurrentes sobre el mismo token exactamente uno reciba la fila.
func (r *InvitationRepo) AcceptPending(ctx context.Context, token, acceptedBy string, now time.Time) (*entity.Invitation, error) {
	query := `
		UPDATE invitations
		SET status = 'accepted', accepted_at = $3, accepted_by = $2, updated_at = $3
		WHERE token = $1 AND status = 'pending' AND expires_at > $3
		RETURNING ` + invitationColumns
	return r.scanOne("accept invitation", r.db.QueryRow(ctx, query, token, acceptedBy, now))
}

// CancelPending transiciona pending→cancelled; false si la fila no estaba pending.
func (r *InvitationRepo) CancelPending(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE invitations SET status = 'cancelled', updated_at = $2
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("cancel invitation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Reissue emite token y vencimiento nuevos y vuelve la fila a pending, solo si
// está pending o expired.
func (r *InvitationRepo) Reissue(ctx context.Context, id, token string, expiresAt, now time.Time) (bool, error) {
	query := `
		UPDATE invitations
		SET token = $2, expires_at = $3, status = 'pending', accepted_at = NULL, accepted_by = NULL, updated_at = $4
		WHERE id = $1 AND status IN ('pending', 'expired')`
	tag, err := r.db.Exec(ctx, query, id, token, expiresAt, now)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("reissue invitation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpirePending marca expired toda fila pending vencida; devuelve cuántas.
// Idempotente: la segunda corrida no matchea ninguna.
func (r *InvitationRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invitations SET status = 'expired', updated_at = $1
		WHERE status = 'pending' AND expires_at <= $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByStatus agrega el conteo de invitaciones por estado para una tienda.
func (r *InvitationRepo) CountByStatus(ctx context.Context, storeID string) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM invitations WHERE store_id = $1 GROUP BY status`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("count invitations: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan invitation count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListByStore lista las invitaciones de una tienda, recientes primero.
func (r *InvitationRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE store_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invitation
	for rows.Next() {
		var inv entity.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.Token, &inv.Email, &inv.StoreID, &inv.Rol, &inv.InvitedBy, &inv.Status,
			&inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy, &inv.Metadata, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

func (r *InvitationRepo) scanOne(op string, row pgx.Row) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := row.Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.StoreID, &inv.Rol, &inv.InvitedBy, &inv.Status,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy, &inv.Metadata, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}
