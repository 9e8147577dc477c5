// Package quotes provides the quote bounded context module: public preview
// and submission endpoints plus retrieval of persisted quotes.
package quotes

import (
	"quoteflow_backend/internal/events"
	apphttp "quoteflow_backend/internal/http"
	"quoteflow_backend/internal/quotes/handler"
	"quoteflow_backend/internal/quotes/repository"
	"quoteflow_backend/internal/quotes/service"
	"quoteflow_backend/platform/logger"
	"quoteflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the quotes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the quotes module. The definition source
// is the catalog service; the distance resolver is the distance service.
func NewModule(pool *pgxpool.Pool, defs service.DefinitionSource, dist service.DistanceResolver, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, defs, dist, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts quote routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/quotes/preview", m.handler.Preview)
	ctx.Public.POST("/quotes", m.handler.Submit)

	group := ctx.V1.Group("/quotes")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
