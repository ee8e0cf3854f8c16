package phone

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/phone")
	g.GET("/lookup", h.lookup)
	g.GET("/format", h.format)
	g.GET("/validate", h.validate)
	g.GET("/countries", h.countries)
	g.GET("/countries/:iso/operators", h.operators)
	g.GET("/countries/:iso/operators/:operator/prefixes", h.prefixes)
}

func numberParam(c *gin.Context) (string, bool) {
	number := strings.TrimSpace(c.Query("number"))
	if number == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "number is required", nil)
		return "", false
	}
	return number, true
}

func (h *Handler) lookup(c *gin.Context) {
	number, ok := numberParam(c)
	if !ok {
		return
	}
	respond.OK(c, Classify(number))
}

func (h *Handler) format(c *gin.Context) {
	number, ok := numberParam(c)
	if !ok {
		return
	}
	include := true
	if raw := c.Query("includeCountryCode"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "includeCountryCode must be a boolean", nil)
			return
		}
		include = parsed
	}
	respond.OK(c, gin.H{"formatted": Format(number, include)})
}

func (h *Handler) validate(c *gin.Context) {
	number, ok := numberParam(c)
	if !ok {
		return
	}
	country := strings.ToUpper(strings.TrimSpace(c.Query("country")))
	if country == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "country is required", nil)
		return
	}
	respond.OK(c, gin.H{"valid": ValidateForCountry(number, country)})
}

func (h *Handler) countries(c *gin.Context) {
	respond.OK(c, gin.H{"countries": Countries()})
}

func (h *Handler) operators(c *gin.Context) {
	respond.OK(c, gin.H{"operators": Operators(strings.ToUpper(c.Param("iso")))})
}

func (h *Handler) prefixes(c *gin.Context) {
	prefixes, ok := OperatorPrefixes(strings.ToUpper(c.Param("iso")), c.Param("operator"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "Operator not found", nil)
		return
	}
	respond.OK(c, gin.H{"prefixes": prefixes})
}
