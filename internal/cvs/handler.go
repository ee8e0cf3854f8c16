package cvs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mikemtdev/career-lift/internal/shared/server/middleware"
	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/shared/util"
	"github.com/mikemtdev/career-lift/resume/contract"
	"github.com/mikemtdev/career-lift/resume/model"
	"github.com/mikemtdev/career-lift/resume/render"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cv", h.list)
	rg.POST("/cv", h.create)
	rg.GET("/cv/:id", h.get)
	rg.PUT("/cv/:id", h.update)
	rg.DELETE("/cv/:id", h.delete)
	rg.GET("/cv/:id/download", h.download)
	rg.GET("/cv/:id/ats", h.score)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"cvs": list})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := cvID(c)
	if !ok {
		return
	}
	cv, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"cv": cv})
}

func (h *Handler) create(c *gin.Context) {
	raw, doc, ok := decodeDocument(c)
	if !ok {
		return
	}
	var extra struct {
		PaymentReference string `json:"paymentReference"`
	}
	if err := json.Unmarshal(raw, &extra); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid CV data", gin.H{"paymentReference": "must be a string"})
		return
	}
	if extra.PaymentReference != "" {
		c.Set(middleware.PaymentReferenceKey, extra.PaymentReference)
	}

	cv, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), doc, extra.PaymentReference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.CVIDKey, cv.ID)
	message := "Free CV created successfully"
	if cv.IsPaid {
		message = "CV created successfully (paid)"
	}
	respond.Created(c, gin.H{"cv": cv, "message": message})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := cvID(c)
	if !ok {
		return
	}
	_, doc, ok := decodeDocument(c)
	if !ok {
		return
	}
	cv, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, doc)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"cv": cv, "message": "CV updated successfully"})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := cvID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "CV deleted successfully"})
}

func (h *Handler) download(c *gin.Context) {
	id, ok := cvID(c)
	if !ok {
		return
	}
	export, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	name, err := util.SanitizeFileName(export.Title)
	if err != nil {
		name = "cv"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
	c.Header("X-CV-Pages", strconv.Itoa(export.Pages))
	c.Data(http.StatusOK, render.ContentType, export.Data)
}

func (h *Handler) score(c *gin.Context) {
	id, ok := cvID(c)
	if !ok {
		return
	}
	res, err := h.Svc.Score(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"ats": res})
}

func decodeDocument(c *gin.Context) ([]byte, model.Document, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return nil, model.Document{}, false
	}
	doc, err := contract.Decode(raw)
	if err != nil {
		var verr *contract.ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid CV data", verr.Fields)
			return nil, model.Document{}, false
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return nil, model.Document{}, false
	}
	return raw, doc, true
}

// cvID reads the :id path parameter. Ids that are not UUIDs cannot name a
// stored CV and are answered with 404.
func cvID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	c.Set(middleware.CVIDKey, id)
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "CV not found", nil)
		return "", false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var payErr *PaymentRequiredError
	switch {
	case errors.As(err, &payErr):
		respond.Error(c, http.StatusPaymentRequired, "payment_required", "Payment required to create additional CVs", gin.H{
			"requiresPayment": true,
			"cvCount":         payErr.CVCount,
			"price":           payErr.Price,
		})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "CV not found", nil)
	default:
		telemetry.Error("cvs.internal", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
	}
}
