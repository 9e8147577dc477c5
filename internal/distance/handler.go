package distance

import (
	"net/http"

	"quoteflow_backend/platform/httpkit"
	"quoteflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the distance preview endpoint used while the customer is
// still filling in the address field.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a distance handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Preview computes the travel-fee contribution for an address pair.
// The response's distanceInfo is null whenever no fee applies; the
// addressTag lets the caller discard stale responses after rapid edits.
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	info := h.svc.GetDistanceInfo(c.Request.Context(), req.BusinessAddress, req.CustomerAddress, req.Settings)
	httpkit.OK(c, PreviewResponse{DistanceInfo: info})
}
