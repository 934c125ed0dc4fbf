package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = `id, auth_subject_id, email, name, rol, store_id, marca_id, created_at, updated_at`

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	db dbtx
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(db dbtx) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Create persiste un nuevo perfil.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.AuthSubjectID, p.Email, p.Name, p.Rol, p.StoreID, p.MarcaID,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByEmail obtiene un perfil por email (case-folded por la capa de aplicación).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.getWhere(ctx, "email = $1", email)
}

// GetByAuthSubject obtiene el perfil vinculado a un auth-subject.
func (r *ProfileRepo) GetByAuthSubject(ctx context.Context, subjectID string) (*entity.Profile, error) {
	return r.getWhere(ctx, "auth_subject_id = $1", subjectID)
}

func (r *ProfileRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + where
	var p entity.Profile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.AuthSubjectID, &p.Email, &p.Name, &p.Rol, &p.StoreID, &p.MarcaID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// Update actualiza un perfil.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE profiles SET email = $2, name = $3, rol = $4, store_id = $5, marca_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Email, p.Name, p.Rol, p.StoreID, p.MarcaID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// LinkAuthSubject fija auth_subject_id solo si todavía es NULL; idempotente.
func (r *ProfileRepo) LinkAuthSubject(ctx context.Context, profileID, subjectID string) error {
	query := `
		UPDATE profiles SET auth_subject_id = $2, updated_at = now()
		WHERE id = $1 AND auth_subject_id IS NULL`
	_, err := r.db.Exec(ctx, query, profileID, subjectID)
	if err != nil {
		return fmt.Errorf("link auth subject: %w", err)
	}
	return nil
}
