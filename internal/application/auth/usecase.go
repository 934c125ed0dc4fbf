package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jpradov/galeria-api/internal/application/dto"
	"github.com/jpradov/galeria-api/internal/domain"
	"github.com/jpradov/galeria-api/internal/domain/entity"
	"github.com/jpradov/galeria-api/internal/domain/repository"
	"github.com/jpradov/galeria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro, login y perfil actual.
type UseCase struct {
	profileRepo repository.ProfileRepository
	subjects    SubjectProvider
	jwtCfg      JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(profileRepo repository.ProfileRepository, subjects SubjectProvider, jwtCfg JWTConfig) *UseCase {
	return &UseCase{profileRepo: profileRepo, subjects: subjects, jwtCfg: jwtCfg}
}

// Register crea el auth-subject en el proveedor de identidad y el perfil
// vinculado. El rol por defecto es locatario; los proveedores normalmente
// entran por aceptación de invitación, que ajusta el rol.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	email := cases.Fold().String(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || in.Password == "" {
		return nil, domain.ErrValidation
	}
	rol := in.Rol
	if rol == "" {
		rol = entity.RolLocatario
	}
	if !entity.ValidRol(rol) || rol == entity.RolAdmin {
		return nil, domain.ErrValidation
	}

	existing, err := uc.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.AuthSubjectID != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	subjectID, err := uc.subjects.CreateSubject(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		// perfil pre-creado por una invitación: solo falta el vínculo
		if err := uc.profileRepo.LinkAuthSubject(ctx, existing.ID, subjectID); err != nil {
			return nil, err
		}
		existing.AuthSubjectID = &subjectID
		return toProfileResponse(existing), nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	profile := &entity.Profile{
		ID:            uuid.New().String(),
		AuthSubjectID: &subjectID,
		Email:         email,
		Name:          name,
		Rol:           rol,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// Login verifica credenciales contra el proveedor de identidad, resuelve el
// perfil por auth-subject y emite el JWT.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := cases.Fold().String(strings.TrimSpace(in.Email))
	subjectID, err := uc.subjects.VerifySubject(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	profile, err := uc.profileRepo.GetByAuthSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// credenciales válidas con perfil aún sin vínculo (invitación previa)
		profile, err = uc.profileRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, domain.ErrUnauthorized
		}
		if err := uc.profileRepo.LinkAuthSubject(ctx, profile.ID, subjectID); err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, profile.ID, profile.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Profile: *toProfileResponse(profile)}, nil
}

// Me devuelve el perfil del id autenticado.
func (uc *UseCase) Me(ctx context.Context, profileID string) (*dto.ProfileResponse, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return toProfileResponse(profile), nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Rol:       p.Rol,
		StoreID:   p.StoreID,
		MarcaID:   p.MarcaID,
		CreatedAt: p.CreatedAt,
	}
}
