// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/app"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/http/v1/handlers"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Services is the assembled domain
	Services *app.Services

	// Logger for request logging
	Logger *logger.Logger

	// Idempotency stores keyed POST responses; nil disables X-Idempotency-Key handling
	Idempotency middleware.IdempotencyStore

	// Store names the backing store in readiness output
	Store string

	// Pinger checks the store for readiness; nil for the memory store
	Pinger handlers.Pinger

	// Debug keeps gin in debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Operator())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Pinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	if cfg.Idempotency != nil {
		api.Use(middleware.Idempotency(cfg.Idempotency))
	}

	s := cfg.Services

	// --- Catalogs ---
	productHandler := handlers.NewProductHandler(s.Products, s.Inventory)
	products := api.Group("/products")
	RegisterCatalogRoutes(products, productHandler)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)
	products.PATCH("/:id/active", productHandler.ToggleActive)
	products.PATCH("/:id/stock", productHandler.AdjustStock)

	RegisterCounterpartyRoutes(api.Group("/clients"), handlers.NewCounterpartyHandler(counterparty.RoleClient, s.Clients))
	RegisterCounterpartyRoutes(api.Group("/providers"), handlers.NewCounterpartyHandler(counterparty.RoleProvider, s.Providers))

	bankHandler := handlers.NewBankHandler(s.Banks)
	banks := api.Group("/banks")
	RegisterCatalogRoutes(banks, bankHandler)
	banks.DELETE("/:id", bankHandler.Delete)

	// --- Documents and payments ---
	salePayments := handlers.NewPaymentHandler(handlers.PaymentService{
		Entity: "sale payment",
		Pay:    s.Payments.PaySale,
		Unpay:  s.Payments.UnpaySale,
		List:   s.Payments.SalePayments,
	})
	RegisterDocumentRoutes(api, "sales", "sale-payments", handlers.NewSaleHandler(s.Sales), salePayments)

	purchasePayments := handlers.NewPaymentHandler(handlers.PaymentService{
		Entity: "purchase payment",
		Pay:    s.Payments.PayPurchase,
		Unpay:  s.Payments.UnpayPurchase,
		List:   s.Payments.PurchasePayments,
	})
	RegisterDocumentRoutes(api, "purchases", "purchase-payments", handlers.NewPurchaseHandler(s.Purchases), purchasePayments)

	// --- Money ---
	transactionHandler := handlers.NewTransactionHandler(s.Transactions)
	transactions := api.Group("/transactions")
	{
		transactions.POST("", transactionHandler.Create)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/:id", transactionHandler.Get)
		transactions.DELETE("/:id", transactionHandler.Delete)
	}

	expenseHandler := handlers.NewExpenseHandler(s.Expenses)
	expenses := api.Group("/expenses")
	{
		expenses.POST("", expenseHandler.Create)
		expenses.GET("", expenseHandler.List)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}

	profitHandler := handlers.NewProfitHandler(s.Profits)
	profits := api.Group("/profits")
	{
		profits.GET("", profitHandler.List)
		profits.GET("/range", profitHandler.Range)
	}
	api.GET("/sales/:id/profit", profitHandler.ForSale)

	// --- Audit ---
	auditHandler := handlers.NewAuditHandler(s.Audit)
	api.GET("/audit/:entity/:id", auditHandler.History)

	return router
}
