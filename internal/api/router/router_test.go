package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexaid/lexaid-ai-platform/internal/chat"
	"github.com/lexaid/lexaid-ai-platform/internal/compliance"
	"github.com/lexaid/lexaid-ai-platform/internal/http/handlers"
	"github.com/lexaid/lexaid-ai-platform/internal/http/middleware"
	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	fake := &llm.FakeClient{Responses: []llm.Response{{Text: "[]"}}}
	engine := privacy.NewEngine(nil, nil, nil)
	analyzer := compliance.NewAnalyzer(fake, compliance.AnalyzerConfig{Model: "test-model"}, nil)

	mr := miniredis.RunT(t)
	store := chat.NewTranscriptStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	chatSvc := chat.NewService(store, fake, engine, "test-model", nil)

	reg := prometheus.NewRegistry()

	return New(&Config{
		Privacy:         handlers.NewPrivacyHandler(engine, nil, nil),
		Compliance:      handlers.NewComplianceHandler(analyzer, nil, nil),
		Chat:            handlers.NewChatHandler(chatSvc, nil),
		AdminAudit:      handlers.NewAdminAuditHandler(compliance.NewAuditService(nil), nil),
		AdminAuthSecret: "test-secret",
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouterMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterPrivacyRoutes(t *testing.T) {
	r := newTestRouter(t)

	body := bytes.NewBufferString(`{"text": "email jane@example.com"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/privacy/detect", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_pii":true`)

	body = bytes.NewBufferString(`{"text": "email jane@example.com"}`)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/privacy/redact", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[REDACTED:email]")
}

func TestRouterChatRoute(t *testing.T) {
	r := newTestRouter(t)

	body := bytes.NewBufferString(`{"session_id": "sess-1", "message": "hello"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"sess-1"`)
}

func TestRouterAdminRequiresJWT(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/audit/events?org_id=org-1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    middleware.AdminTokenIssuer,
		Audience:  jwt.ClaimStrings{middleware.AdminTokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/audit/events?org_id=org-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
