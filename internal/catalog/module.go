// Package catalog provides the service catalog bounded context module.
// It manages the configurable service definitions the quote widget prices:
// formula text, question variables, and upsell items.
package catalog

import (
	"quoteflow_backend/internal/catalog/handler"
	"quoteflow_backend/internal/catalog/repository"
	"quoteflow_backend/internal/catalog/service"
	apphttp "quoteflow_backend/internal/http"
	"quoteflow_backend/platform/logger"
	"quoteflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for use by the quotes module.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The widget only ever needs the active definitions.
	ctx.Public.GET("/services", m.handler.ListActive)

	group := ctx.V1.Group("/services")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
