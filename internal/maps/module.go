package maps

import (
	apphttp "nominatim_gateway/internal/http"
	"nominatim_gateway/internal/nominatim"
	"nominatim_gateway/platform/config"
	"nominatim_gateway/platform/logger"
)

// Module wires the maps address lookup HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(client *nominatim.Client, cfg config.MapsConfig, log *logger.Logger) *Module {
	svc := NewService(client, cfg, log)
	h := NewHandler(svc)
	return &Module{service: svc, handler: h}
}

func (m *Module) Name() string {
	return "maps"
}

// Service exposes the lookup service, e.g. as the readiness checker.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/maps")
	group.GET("/address-lookup", m.handler.LookupAddress)
	group.GET("/reverse", m.handler.ReverseGeocode)
	group.GET("/lookup", m.handler.LookupOSM)
}

var _ apphttp.Module = (*Module)(nil)
