package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resortes-api/internal/application/auth"
	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
	"github.com/jhoicas/resortes-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC   *inventory.StockUseCase
	Sessions  *inventory.SessionRegistry
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	StoreName string // postgres | memory, informado en /health
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreName})
	})

	api := app.Group("/api")
	inventoryHandler := NewInventoryHandler(deps.StockUC)

	// Puestos de escaneo (público: operarios de bodega)
	sessionHandler := NewSessionHandler(deps.StockUC, deps.Sessions)
	api.Post("/sessions", sessionHandler.Open)
	api.Delete("/sessions/:id", sessionHandler.Close)
	session := api.Group("/sessions/:id", RequireSession(deps.Sessions))
	session.Get("/", sessionHandler.Status)
	session.Post("/scan", sessionHandler.Scan)
	session.Post("/reset", sessionHandler.Reset)
	session.Post("/consume", sessionHandler.Consume)

	api.Post("/consumptions", inventoryHandler.Consume)

	// Administración: login con PIN (público), el resto requiere Bearer Token con rol admin
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/admin/login", authHandler.Login)

	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleAdmin))
	admin.Get("/balances", inventoryHandler.ListBalances)
	admin.Get("/balances/export", inventoryHandler.ExportBalances)
	admin.Get("/movements", inventoryHandler.ListMovements)
	admin.Post("/receipts", inventoryHandler.Receive)
	admin.Get("/labels/:part_id", inventoryHandler.Labels)
	admin.Post("/reconcile", inventoryHandler.Reconcile)
}
