package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/jpradov/galeria-api/internal/application/auth"
	"github.com/jpradov/galeria-api/internal/domain"
)

var _ auth.SubjectProvider = (*LocalProvider)(nil)

// LocalProvider implementación local del puerto SubjectProvider: credenciales
// bcrypt en la tabla auth_subjects. El resto del core nunca ve password hashes;
// solo maneja ids de auth-subject opacos.
type LocalProvider struct {
	pool *pgxpool.Pool
}

// NewLocalProvider construye el proveedor de identidad local.
func NewLocalProvider(pool *pgxpool.Pool) *LocalProvider {
	return &LocalProvider{pool: pool}
}

// CreateSubject registra credenciales nuevas y devuelve el id del auth-subject.
func (p *LocalProvider) CreateSubject(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashear password: %w", err)
	}
	id := uuid.New().String()
	query := `INSERT INTO auth_subjects (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err = p.pool.Exec(ctx, query, id, email, string(hash), time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("insert auth subject: %w", err)
	}
	return id, nil
}

// VerifySubject valida credenciales y devuelve el id del auth-subject.
func (p *LocalProvider) VerifySubject(ctx context.Context, email, password string) (string, error) {
	var id, hash string
	query := `SELECT id, password_hash FROM auth_subjects WHERE email = $1`
	err := p.pool.QueryRow(ctx, query, email).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("get auth subject: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}
