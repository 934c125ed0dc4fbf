package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/internal/application/auth"
	"github.com/jpradov/galeria-api/internal/application/catalog"
	"github.com/jpradov/galeria-api/internal/application/directory"
	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/internal/infrastructure/email"
	"github.com/jpradov/galeria-api/internal/infrastructure/identity"
	"github.com/jpradov/galeria-api/internal/infrastructure/postgres"
	"github.com/jpradov/galeria-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jpradov/galeria-api/internal/interfaces/http"
	"github.com/jpradov/galeria-api/pkg/config"
	"github.com/jpradov/galeria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessionStore, err := redisstore.NewSessionStore(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}

	profileRepo := postgres.NewProfileRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	marcaRepo := postgres.NewMarcaRepository(pool)
	assocRepo := postgres.NewAssociationRepository(pool)
	invRepo := postgres.NewInvitationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := appaccess.NewResolver(profileRepo, storeRepo, assocRepo)
	session := appaccess.NewSession(resolver, sessionStore)

	mailer := email.NewSMTPMailer(cfg.SMTP)
	invitationUC := invitation.NewUseCase(
		invRepo, storeRepo, profileRepo, txRunner, mailer,
		invitation.Config{TTLHours: cfg.Invitations.TTLHours, BaseURL: cfg.Invitations.BaseURL},
		log,
	)

	directoryUC := directory.NewUseCase(storeRepo, marcaRepo, assocRepo, profileRepo, productRepo)
	catalogUC := catalog.NewUseCase(productRepo)

	subjects := identity.NewLocalProvider(pool)
	authUC := auth.NewUseCase(profileRepo, subjects, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs. El middleware lee el
	// archivo al arrancar; sin él, el servidor levanta igual sin la UI.
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Galería API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado, se omite el Swagger UI")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		DirectoryUC:  directoryUC,
		InvitationUC: invitationUC,
		CatalogUC:    catalogUC,
		Resolver:     resolver,
		Session:      session,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
