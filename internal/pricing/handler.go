package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pricing", h.current)
}

func (h *Handler) current(c *gin.Context) {
	p, err := h.Svc.Current(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "Failed to load pricing", nil)
		return
	}
	respond.OK(c, gin.H{"pricing": gin.H{
		"additionalCvPrice": p.AdditionalCVPrice,
		"currency":          p.Currency,
	}})
}
