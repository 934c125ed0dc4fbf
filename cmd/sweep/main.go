package main

import (
	"context"
	"time"

	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/internal/infrastructure/email"
	"github.com/jpradov/galeria-api/internal/infrastructure/postgres"
	"github.com/jpradov/galeria-api/pkg/config"
	"github.com/jpradov/galeria-api/pkg/logger"
)

// Barrido batch de invitaciones pendientes vencidas. Pensado para correr como
// cron job; es idempotente, dos corridas seguidas no pisan estado.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invRepo := postgres.NewInvitationRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	mailer := email.NewSMTPMailer(cfg.SMTP)

	uc := invitation.NewUseCase(
		invRepo, storeRepo, profileRepo, txRunner, mailer,
		invitation.Config{TTLHours: cfg.Invitations.TTLHours, BaseURL: cfg.Invitations.BaseURL},
		log,
	)

	count, err := uc.CleanupExpired(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("barrido de invitaciones")
	}
	log.Info().Int64("expiradas", count).Msg("barrido completado")
}
