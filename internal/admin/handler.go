package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/pricing"
	"github.com/mikemtdev/career-lift/internal/shared/server/middleware"
	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/shared/validate"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the admin routes under /admin behind RequireAdmin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/admin", middleware.RequireAdmin())
	g.GET("/stats", h.stats)
	g.GET("/pricing", h.getPricing)
	g.PUT("/pricing", h.updatePricing)
}

func (h *Handler) stats(c *gin.Context) {
	overview, err := h.Svc.Overview(c.Request.Context())
	if err != nil {
		telemetry.Error("admin.stats_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
		return
	}
	respond.OK(c, overview)
}

func (h *Handler) getPricing(c *gin.Context) {
	p, err := h.Svc.Pricing.Current(c.Request.Context())
	if err != nil {
		telemetry.Error("admin.pricing_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
		return
	}
	respond.OK(c, gin.H{"pricing": p})
}

func (h *Handler) updatePricing(c *gin.Context) {
	var req pricing.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}
	p, err := h.Svc.Pricing.Update(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid pricing", validate.Details(err))
			return
		}
		telemetry.Error("admin.pricing_update_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
		return
	}
	telemetry.Info("admin.pricing_updated", map[string]any{
		"user_id":             middleware.UserIDFromContext(c),
		"additional_cv_price": p.AdditionalCVPrice,
	})
	respond.OK(c, gin.H{"pricing": p, "message": "Pricing updated successfully"})
}
