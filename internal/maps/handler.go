package maps

import (
	"net/http"

	"nominatim_gateway/platform/httpkit"
	"nominatim_gateway/platform/sanitize"

	"github.com/gin-gonic/gin"
)

const (
	defaultReverseZoom = 18
	errQueryRequired   = "query 'q' is required (min 3 chars)"
)

// Handler exposes the maps lookup endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// LookupAddress handles GET /api/v1/maps/address-lookup?q=...
func (h *Handler) LookupAddress(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errQueryRequired, nil)
		return
	}
	req.Query = sanitize.Query(req.Query)
	if len(req.Query) < 3 {
		httpkit.Error(c, http.StatusBadRequest, errQueryRequired, nil)
		return
	}

	results, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, results)
}

// ReverseGeocode handles GET /api/v1/maps/reverse?lat=...&lon=...&zoom=...
func (h *Handler) ReverseGeocode(c *gin.Context) {
	var req ReverseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'lat' and 'lon' are required coordinates", nil)
		return
	}

	zoom := defaultReverseZoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}

	result, err := h.svc.Reverse(c.Request.Context(), *req.Lat, *req.Lon, zoom)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// LookupOSM handles GET /api/v1/maps/lookup?osm_ids=...
func (h *Handler) LookupOSM(c *gin.Context) {
	var req OSMLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'osm_ids' is required", nil)
		return
	}

	results, err := h.svc.Lookup(c.Request.Context(), req.OsmIDs)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, results)
}
