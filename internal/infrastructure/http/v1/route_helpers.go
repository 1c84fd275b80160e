package v1

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// DocumentRouteHandler defines the interface for sale and purchase handlers.
type DocumentRouteHandler interface {
	CatalogRouteHandler
	Delete(c *gin.Context)
}

// PaymentRouteHandler defines the interface for the payment handler of one side.
type PaymentRouteHandler interface {
	Pay(c *gin.Context)
	List(c *gin.Context)
	Unpay(c *gin.Context)
}

// RegisterCatalogRoutes registers list/create/get for a catalog.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
}

// CounterpartyRouteHandler defines the interface for the client and provider handlers.
type CounterpartyRouteHandler interface {
	CatalogRouteHandler
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCounterpartyRoutes registers the catalog routes plus PUT and DELETE /:id.
func RegisterCounterpartyRoutes(group *gin.RouterGroup, handler CounterpartyRouteHandler) {
	RegisterCatalogRoutes(group, handler)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}

// RegisterDocumentRoutes registers a document family and its payments:
//
//	POST/GET /sales, GET/DELETE /sales/:id, POST/GET /sales/:id/payments, DELETE /sale-payments/:id
func RegisterDocumentRoutes(api *gin.RouterGroup, documents, payments string, handler DocumentRouteHandler, pay PaymentRouteHandler) {
	group := api.Group("/" + documents)
	RegisterCatalogRoutes(group, handler)
	group.DELETE("/:id", handler.Delete)
	group.POST("/:id/payments", pay.Pay)
	group.GET("/:id/payments", pay.List)

	api.DELETE("/"+payments+"/:id", pay.Unpay)
}

var registerOnce sync.Once

// registerValidators installs the decimal rules on gin's validator engine once per process.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := dto.RegisterValidators(v); err != nil {
			panic(err)
		}
	})
}
