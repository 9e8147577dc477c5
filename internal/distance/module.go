// Package distance provides the travel-fee bounded context: the external
// distance-lookup client and the radius/fee rules that turn mileage into a
// pricing pipeline contribution.
package distance

import (
	apphttp "quoteflow_backend/internal/http"
	"quoteflow_backend/platform/config"
	"quoteflow_backend/platform/logger"
	"quoteflow_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the distance bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the distance module. The cache client
// may be nil when Redis is not configured.
func NewModule(cfg config.DistanceAPIConfig, cache *redis.Client, val *validator.Validator, log *logger.Logger) *Module {
	client := NewClient(cfg, cache, log)
	svc := NewService(client, log)
	h := NewHandler(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "distance"
}

// Service returns the service layer for use by the quotes module.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts distance routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/distance/preview", m.handler.Preview)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
