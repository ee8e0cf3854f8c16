package ats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/shared/metrics"
	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
	"github.com/mikemtdev/career-lift/resume/model"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ats/score", h.score)
}

// score rates a draft CV. Drafts are not schema-checked; missing sections
// simply score zero.
func (h *Handler) score(c *gin.Context) {
	var cv model.CV
	if err := c.ShouldBindJSON(&cv); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}
	res := Score(cv)
	metrics.ObserveATSScore(res.Score)
	respond.OK(c, gin.H{"ats": res})
}
