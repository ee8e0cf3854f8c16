package cvs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikemtdev/career-lift/internal/extract"
)

const cvBody = `{
  "title": "Backend Engineer",
  "personalInfo": {"fullName": "Ada Lovelace", "email": "ada@example.com", "phone": "0971234567"},
  "education": [],
  "experience": [{"company": "Acme", "position": "Engineer", "startDate": "2020", "current": true}],
  "skills": ["Go", "SQL"]
}`

func newRouter(t *testing.T, redeemer PaymentRedeemer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
		c.Next()
	})
	NewHandler(newTestService(t, redeemer)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func call(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type cvEnvelope struct {
	CV      CV     `json:"cv"`
	Message string `json:"message"`
}

func TestCreateGetUpdateDelete(t *testing.T) {
	r := newRouter(t, nil)

	resp := call(r, http.MethodPost, "/api/v1/cv", "u1", cvBody)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created cvEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Free CV created successfully", created.Message)
	assert.False(t, created.CV.IsPaid)

	resp = call(r, http.MethodGet, "/api/v1/cv/"+created.CV.ID, "u1", "")
	require.Equal(t, http.StatusOK, resp.Code)

	updated := strings.Replace(cvBody, "Backend Engineer", "Platform Engineer", 1)
	resp = call(r, http.MethodPut, "/api/v1/cv/"+created.CV.ID, "u1", updated)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "CV updated successfully")
	assert.Contains(t, resp.Body.String(), "Platform Engineer")

	resp = call(r, http.MethodGet, "/api/v1/cv", "u1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		CVs []CV `json:"cvs"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.CVs, 1)

	resp = call(r, http.MethodDelete, "/api/v1/cv/"+created.CV.ID, "u1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "CV deleted successfully")

	resp = call(r, http.MethodGet, "/api/v1/cv/"+created.CV.ID, "u1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "CV not found")
}

func TestCreateRejectsInvalidDocument(t *testing.T) {
	r := newRouter(t, nil)
	bad := strings.Replace(cvBody, `"ada@example.com"`, `"nope"`, 1)
	resp := call(r, http.MethodPost, "/api/v1/cv", "u1", bad)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "personalInfo.email")

	resp = call(r, http.MethodPost, "/api/v1/cv", "u1", `[]`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	numericRef := strings.Replace(cvBody, `"title"`, `"paymentReference": 42, "title"`, 1)
	resp = call(r, http.MethodPost, "/api/v1/cv", "u1", numericRef)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "paymentReference")
	list := call(r, http.MethodGet, "/api/v1/cv", "u1", "")
	assert.NotContains(t, list.Body.String(), "Backend Engineer")
}

func TestCreateSecondCVPaymentGate(t *testing.T) {
	redeemer := &fakeRedeemer{valid: map[string]bool{"u1|CV_9_u1": true}}
	r := newRouter(t, redeemer)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/cv", "u1", cvBody).Code)

	resp := call(r, http.MethodPost, "/api/v1/cv", "u1", cvBody)
	require.Equal(t, http.StatusPaymentRequired, resp.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details struct {
				RequiresPayment bool `json:"requiresPayment"`
				CVCount         int  `json:"cvCount"`
				Price           int  `json:"price"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "payment_required", body.Error.Code)
	assert.Equal(t, "Payment required to create additional CVs", body.Error.Message)
	assert.True(t, body.Error.Details.RequiresPayment)
	assert.Equal(t, 1, body.Error.Details.CVCount)
	assert.Equal(t, 250, body.Error.Details.Price)

	paid := strings.Replace(cvBody, `"title"`, `"paymentReference": "CV_9_u1", "title"`, 1)
	resp = call(r, http.MethodPost, "/api/v1/cv", "u1", paid)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created cvEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "CV created successfully (paid)", created.Message)
	assert.True(t, created.CV.IsPaid)
}

func TestDownloadPDF(t *testing.T) {
	r := newRouter(t, nil)
	resp := call(r, http.MethodPost, "/api/v1/cv", "u1", cvBody)
	require.Equal(t, http.StatusCreated, resp.Code)
	var created cvEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = call(r, http.MethodGet, "/api/v1/cv/"+created.CV.ID+"/download", "u1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Backend Engineer.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", resp.Header().Get("X-CV-Pages"))

	text, err := extract.Text(resp.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, strings.Join(strings.Fields(text), ""), "AdaLovelace")

	resp = call(r, http.MethodGet, "/api/v1/cv/"+created.CV.ID+"/download", "u2", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestScoreStoredCV(t *testing.T) {
	r := newRouter(t, nil)
	resp := call(r, http.MethodPost, "/api/v1/cv", "u1", cvBody)
	require.Equal(t, http.StatusCreated, resp.Code)
	var created cvEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = call(r, http.MethodGet, "/api/v1/cv/"+created.CV.ID+"/ats", "u1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		ATS struct {
			Score       int            `json:"score"`
			Suggestions []string       `json:"suggestions"`
			Breakdown   map[string]int `json:"breakdown"`
		} `json:"ats"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ATS.Suggestions)
	assert.Contains(t, body.ATS.Breakdown, "personalInfo")
}

func TestMalformedIDIsNotFound(t *testing.T) {
	r := newRouter(t, nil)
	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/cv/abc", ""},
		{http.MethodPut, "/api/v1/cv/abc", cvBody},
		{http.MethodDelete, "/api/v1/cv/abc", ""},
		{http.MethodGet, "/api/v1/cv/abc/download", ""},
		{http.MethodGet, "/api/v1/cv/abc/ats", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := call(r, tc.method, tc.path, "u1", tc.body)
			assert.Equal(t, http.StatusNotFound, resp.Code)
			assert.Contains(t, resp.Body.String(), "CV not found")
		})
	}
}
