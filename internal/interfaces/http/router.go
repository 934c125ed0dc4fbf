package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appaccess "github.com/jpradov/galeria-api/internal/application/access"
	"github.com/jpradov/galeria-api/internal/application/auth"
	"github.com/jpradov/galeria-api/internal/application/catalog"
	"github.com/jpradov/galeria-api/internal/application/directory"
	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	DirectoryUC  *directory.UseCase
	InvitationUC *invitation.UseCase
	CatalogUC    *catalog.UseCase
	Resolver     *appaccess.Resolver
	Session      *appaccess.Session
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Validación de invitación (público: la consulta el frontend antes del login)
	invitationHandler := NewInvitationHandler(deps.InvitationUC)
	api.Get("/invitations/validate", invitationHandler.Validate)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)

	// Stores y asociaciones tienda-proveedor (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.DirectoryUC, deps.Resolver)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.ListAccessible)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Delete("/:id", storeHandler.Deactivate)
	stores.Get("/:id/providers", storeHandler.ListProviders)
	stores.Put("/:id/providers/:pid", storeHandler.UpsertProvider)
	stores.Delete("/:id/providers/:pid", storeHandler.DeactivateProvider)
	stores.Post("/:id/providers/:pid/reactivate", storeHandler.ReactivateProvider)

	// Invitaciones (protegido)
	stores.Post("/:id/invitations", invitationHandler.Create)
	stores.Get("/:id/invitations", invitationHandler.ListByStore)
	stores.Get("/:id/invitations/stats", invitationHandler.Stats)
	invitations := protected.Group("/invitations")
	invitations.Post("/accept", invitationHandler.Accept)
	invitations.Post("/:id/cancel", invitationHandler.Cancel)
	invitations.Post("/:id/resend", invitationHandler.Resend)

	// Marcas (protegido; el alta y la baja exigen admin en el caso de uso)
	marcas := protected.Group("/marcas")
	marcaHandler := NewMarcaHandler(deps.DirectoryUC)
	marcas.Post("/", marcaHandler.Create)
	marcas.Get("/", marcaHandler.List)
	marcas.Put("/:id", marcaHandler.Update)
	marcas.Delete("/:id", marcaHandler.Delete)

	// Sesión de tienda (protegido)
	session := protected.Group("/session")
	sessionHandler := NewSessionHandler(deps.Session)
	session.Put("/store", sessionHandler.Select)
	session.Get("/store", sessionHandler.Current)
	session.Delete("/store", sessionHandler.Clear)

	// Productos (protegido, filtrados por scope)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC, deps.Session)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)

	// Administración (protegido, solo admin)
	admin := protected.Group("/admin", RequireRol(entity.RolAdmin))
	admin.Get("/stores", storeHandler.ListAll)
	admin.Post("/invitations/cleanup", invitationHandler.Cleanup)
}
