package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/restock"
	"github.com/jhoicas/Farmacia-api/internal/application/supplier"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	RegisterRestock *restock.RegisterRestockUseCase
	RestockHistory  *restock.HistoryUseCase
	Suggestions     *restock.SuggestionUseCase
	Intelligence    *supplier.IntelligenceUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	restockHandler := NewRestockHandler(deps.RegisterRestock, deps.RestockHistory, deps.Suggestions)
	protected.Post("/restocks", RequireRole(entity.RoleAdmin, entity.RolePharmacist), restockHandler.Register)
	protected.Get("/restocks", restockHandler.List)
	protected.Get("/restock/suggestions", restockHandler.Suggestions)
	protected.Get("/restock/suggestions/pdf", restockHandler.SuggestionsPDF)

	supplierHandler := NewSupplierHandler(deps.Intelligence)
	protected.Get("/suppliers/performance", supplierHandler.Performance)
	protected.Get("/suppliers/:id/reliability", supplierHandler.Reliability)
	protected.Get("/products/:id/supplier-comparison", supplierHandler.Comparison)
}
