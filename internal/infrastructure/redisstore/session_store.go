package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/pkg/config"
)

var _ appaccess.SessionStore = (*SessionStore)(nil)

// SessionStore persiste la tienda seleccionada por perfil en Redis. Solo guarda
// el id: el acceso completo se recalcula contra el directorio en cada lectura,
// así que una clave vieja jamás otorga acceso que el resolver no confirme.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore construye el store y verifica la conexión.
func NewSessionStore(ctx context.Context, cfg config.RedisConfig) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SessionStore{
		client: client,
		ttl:    time.Duration(cfg.SessionTTL) * time.Hour,
	}, nil
}

func sessionKey(profileID string) string {
	return "session:store:" + profileID
}

// Get devuelve la tienda seleccionada ("" si no hay selección).
func (s *SessionStore) Get(ctx context.Context, profileID string) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(profileID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return val, nil
}

// Set guarda la selección con el TTL configurado.
func (s *SessionStore) Set(ctx context.Context, profileID, storeID string) error {
	if err := s.client.Set(ctx, sessionKey(profileID), storeID, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete borra la selección; idempotente.
func (s *SessionStore) Delete(ctx context.Context, profileID string) error {
	if err := s.client.Del(ctx, sessionKey(profileID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close cierra la conexión subyacente.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
