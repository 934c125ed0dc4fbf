package repository

import (
	"context"

	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (DIP).
// La implementación vive en infrastructure.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	GetByAuthSubject(ctx context.Context, subjectID string) (*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
	// LinkAuthSubject fija auth_subject_id solo si todavía es NULL; idempotente.
	LinkAuthSubject(ctx context.Context, profileID, subjectID string) error
}
