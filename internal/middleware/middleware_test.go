package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/horarios/sgh-api/internal/models"
	"github.com/horarios/sgh-api/internal/service"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	return v.claims, v.err
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/secure", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}}
	r := newRouter(JWT(stub))

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Token abc").Code)

	w := doRequest(r, "Bearer abc")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc", stub.token)

	stub.err = appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer abc").Code)
}

func TestRequireRoles(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}}
	r := newRouter(JWT(stub), RequireRoles(models.RoleAdmin, models.RoleCoordinator))

	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer abc").Code)

	stub.claims = &models.JWTClaims{UserID: "u1", Role: models.RoleCoordinator}
	assert.Equal(t, http.StatusNoContent, doRequest(r, "Bearer abc").Code)

	bare := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, doRequest(bare, "").Code)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := newRouter(Metrics(metrics))
	assert.Equal(t, http.StatusNoContent, doRequest(r, "").Code)

	families, err := metrics.Registry().Gather()
	assert.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "http_requests_total" {
			found = true
		}
	}
	assert.True(t, found)
}
