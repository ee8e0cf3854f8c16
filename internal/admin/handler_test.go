package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikemtdev/career-lift/internal/cvs"
	"github.com/mikemtdev/career-lift/internal/pricing"
)

type userCount struct {
	n   int
	err error
}

func (u userCount) Count(context.Context) (int, error) { return u.n, u.err }

func newTestRouter(t *testing.T, users UserCounter) (*gin.Engine, *cvs.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := cvs.NewMemoryRepo()
	svc := NewService(users, repo, pricing.NewService(pricing.NewMemoryRepo(), nil, "ZMW"))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "admin-1")
		c.Set("isAdmin", c.GetHeader("X-Test-Admin") == "true")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, repo
}

func do(r http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Test-Admin", "true")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, _ := newTestRouter(t, userCount{n: 1})
	for _, path := range []string{"/api/v1/admin/stats", "/api/v1/admin/pricing"} {
		resp := do(r, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusForbidden, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "Admin access required")
	}
}

func TestAdminStats(t *testing.T) {
	r, repo := newTestRouter(t, userCount{n: 3})
	ctx := context.Background()
	_, err := repo.Create(ctx, cvs.CV{UserID: "u1", Title: "a"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, cvs.CV{UserID: "u1", Title: "b", IsPaid: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, cvs.CV{UserID: "u2", Title: "c"})
	require.NoError(t, err)

	resp := do(r, http.MethodGet, "/api/v1/admin/stats", "", true)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body Overview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, Stats{TotalUsers: 3, TotalCVs: 3, FreeCVs: 2, PaidCVs: 1}, body.Stats)
	assert.Equal(t, pricing.DefaultAdditionalCVPrice, body.Pricing.AdditionalCVPrice)
	assert.Equal(t, "ZMW", body.Pricing.Currency)
}

func TestAdminStatsFailure(t *testing.T) {
	r, _ := newTestRouter(t, userCount{err: errors.New("db down")})
	resp := do(r, http.MethodGet, "/api/v1/admin/stats", "", true)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestAdminUpdatePricing(t *testing.T) {
	r, _ := newTestRouter(t, userCount{})

	resp := do(r, http.MethodPut, "/api/v1/admin/pricing", `{"additionalCvPrice":1}`, true)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Pricing updated successfully")

	resp = do(r, http.MethodGet, "/api/v1/admin/pricing", "", true)
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Pricing pricing.Pricing `json:"pricing"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pricing.AdditionalCVPrice)

	for _, bad := range []string{`{}`, `{"additionalCvPrice":0}`, `{"additionalCvPrice":-1}`, `{"additionalCvPrice":100001}`, `{`} {
		resp = do(r, http.MethodPut, "/api/v1/admin/pricing", bad, true)
		assert.Equal(t, http.StatusBadRequest, resp.Code, bad)
	}
}
