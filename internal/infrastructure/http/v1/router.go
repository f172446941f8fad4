// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"faturas/internal/domain/catalogs/payment"
	"faturas/internal/domain/catalogs/product"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/domain/documents/invoice"
	"faturas/internal/domain/payables"
	"faturas/internal/infrastructure/http/v1/handlers"
	"faturas/internal/infrastructure/http/v1/middleware"
	"faturas/internal/infrastructure/storage/postgres"
	"faturas/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Roles            *roles.Service
	Products         *product.Service
	PaymentMethods   *payment.MethodService
	PaymentCondition *payment.ConditionService
	Invoices         *invoice.Service
	Installments     *payables.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		catalogs := api.Group("/catalogs")
		{
			registerRoleRoutes(catalogs, handlers.NewRolesHandler(base, cfg.Roles))

			productHandler := handlers.NewProductHandler(base, cfg.Products)
			registerCatalogRoutes(catalogs.Group("/products"), productHandler.CatalogHandler)

			methodHandler := handlers.NewPaymentMethodHandler(base, cfg.PaymentMethods)
			registerCatalogRoutes(catalogs.Group("/payment-methods"), methodHandler.CatalogHandler)

			conditionHandler := handlers.NewPaymentConditionHandler(base, cfg.PaymentCondition)
			registerCatalogRoutes(catalogs.Group("/payment-conditions"), conditionHandler.CatalogHandler)
		}

		documents := api.Group("/documents")
		{
			invoiceHandler := handlers.NewInvoiceHandler(base, cfg.Invoices)
			installmentHandler := handlers.NewInstallmentHandler(base, cfg.Installments)

			invoices := documents.Group("/invoices")
			invoices.GET("", invoiceHandler.List)
			invoices.POST("", invoiceHandler.Post)
			invoices.GET("/by-key", invoiceHandler.GetByKey)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.DELETE("/:id", invoiceHandler.Delete)

			invoices.GET("/:id/installments", installmentHandler.ListByDocument)
			invoices.POST("/:id/installments/:parcel/pay", installmentHandler.RegisterPayment)
		}

		api.GET("/installments/:id", handlers.NewInstallmentHandler(base, cfg.Installments).Get)
	}

	return router
}

// CatalogRouteHandler defines the route surface shared by catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// registerCatalogRoutes registers standard CRUD routes for a catalog.
func registerCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.POST("/:id/deletion-mark", handler.SetDeletionMark)
}

// registerRoleRoutes wires the client, supplier and carrier role groups.
func registerRoleRoutes(catalogs *gin.RouterGroup, h *handlers.RolesHandler) {
	clients := catalogs.Group("/clients")
	clients.GET("", h.ListClients)
	clients.POST("", h.RegisterClient)
	clients.GET("/:id", h.GetClient)
	clients.DELETE("/:id", h.DeleteClient)
	clients.POST("/:id/deactivate", h.DeactivateClient)
	clients.POST("/:id/reactivate", h.ReactivateClient)

	suppliers := catalogs.Group("/suppliers")
	suppliers.GET("", h.ListSuppliers)
	suppliers.POST("", h.RegisterSupplier)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.DELETE("/:id", h.DeleteSupplier)
	suppliers.POST("/:id/deactivate", h.DeactivateSupplier)
	suppliers.POST("/:id/reactivate", h.ReactivateSupplier)

	carriers := catalogs.Group("/carriers")
	carriers.GET("", h.ListCarriers)
	carriers.POST("", h.RegisterCarrier)
	carriers.GET("/:id", h.GetCarrier)
	carriers.DELETE("/:id", h.DeleteCarrier)
	carriers.POST("/:id/deactivate", h.DeactivateCarrier)
	carriers.POST("/:id/reactivate", h.ReactivateCarrier)
}
