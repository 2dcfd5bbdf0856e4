package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconnect/internal/adapter/api"
	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
	"sellerconnect/internal/adapter/repository"
	"sellerconnect/internal/infrastructure/dedup"
	"sellerconnect/internal/infrastructure/identity"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/clock"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type stubVerifier map[string]string

func (v stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if uid, ok := v[token]; ok {
		return uid, nil
	}
	return "", errors.New("token rejected")
}

type testServer struct {
	e     *echo.Echo
	clock *clock.Fake
}

func newTestServer(t *testing.T, checks map[string]handler.HealthCheck, rateLimit int) *testServer {
	t.Helper()

	fake := clock.NewFake(t0)
	deduper := dedup.NewDeduper(fake)
	contacts := repository.NewMemoryContactRepository()
	ratings := repository.NewMemoryRatingRepository()
	analytics := repository.NewMemoryAnalyticsRepository()
	dismissals := repository.NewMemoryDismissalRepository()
	identityProvider := identity.NewContextProvider()

	handler.Setup(
		usecase.NewContactUseCase(contacts, analytics, identityProvider, deduper, fake, 2*time.Second),
		usecase.NewRatingUseCase(ratings, contacts, identityProvider, fake),
		usecase.NewPromptUseCase(contacts, ratings, dismissals, identityProvider, fake, usecase.DefaultPromptPolicy()),
		usecase.NewTelemetryUseCase(analytics, identityProvider, deduper, fake, usecase.TelemetryWindows{
			PageView:   2 * time.Second,
			Navigation: time.Second,
			Click:      time.Second,
		}),
		10*time.Millisecond,
	)
	handler.SetupHealthHandler(checks)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e,
		middleware.NewIdentityMiddleware(stubVerifier{"good-token": "u1"}),
		middleware.NewRateLimiter(rateLimit, time.Minute, fake),
	)

	return &testServer{e: e, clock: fake}
}

func (s *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Warning *struct {
		Code string `json:"code"`
	} `json:"warning"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

var signedIn = map[string]string{"Authorization": "Bearer good-token"}

func TestAnonymousContactKeepsClientID(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodPost, "/v1/sellers/s1/contacts", `{"request_id":"r1"}`, map[string]string{
		middleware.AnonymousIDHeader: "device-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "device-1", rec.Header().Get(middleware.AnonymousIDHeader))

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, true, body.Data["created"])
	interaction := body.Data["interaction"].(map[string]interface{})
	assert.Equal(t, "anon:device-1", interaction["subject_id"])
	assert.Equal(t, "r1", interaction["request_id"])
}

func TestAnonymousIDIsMintedWhenMissing(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodPost, "/v1/sellers/s1/contacts", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.AnonymousIDHeader))
}

func TestInvalidBearerIsRejected(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodGet, "/v1/sellers/s1/rating", "", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/v1/sellers/s1/rating", "", map[string]string{"Authorization": "Token nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRepeatedContactIsSuppressed(t *testing.T) {
	s := newTestServer(t, nil, 0)

	first := decode(t, s.do(http.MethodPost, "/v1/sellers/s1/contacts", "", signedIn))
	second := decode(t, s.do(http.MethodPost, "/v1/sellers/s1/contacts", "", signedIn))

	assert.Equal(t, true, first.Data["created"])
	assert.Equal(t, true, second.Data["suppressed"])
}

func TestRatingLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodPut, "/v1/sellers/s1/rating", `{"request_id":"r1","rating":4}`, signedIn)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_CONTACTED", decode(t, rec).Error.Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/v1/sellers/s1/contacts", `{"request_id":"r1"}`, signedIn).Code)

	status := decode(t, s.do(http.MethodGet, "/v1/sellers/s1/rating?requestId=r1", "", signedIn))
	assert.Equal(t, "eligible", status.Data["state"])
	assert.Equal(t, true, status.Data["can_rate"])

	rec = s.do(http.MethodPut, "/v1/sellers/s1/rating", `{"request_id":"r1","rating":9}`, signedIn)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)

	rec = s.do(http.MethodPut, "/v1/sellers/s1/rating", `{"request_id":"r1","rating":4,"review_text":"fast"}`, signedIn)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), decode(t, rec).Data["rating"])

	status = decode(t, s.do(http.MethodGet, "/v1/sellers/s1/rating?requestId=r1", "", signedIn))
	assert.Equal(t, "rated", status.Data["state"])
	assert.Equal(t, false, status.Data["can_rate"])
	assert.Equal(t, true, status.Data["can_cancel"])

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/v1/sellers/s1/rating/cancel", `{"request_id":"r1"}`, signedIn).Code)

	rec = s.do(http.MethodPost, "/v1/sellers/s1/rating/cancel", `{"request_id":"r1"}`, signedIn)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CANCELLED", decode(t, rec).Error.Code)

	rec = s.do(http.MethodPut, "/v1/sellers/s1/rating", `{"request_id":"r1","rating":5}`, signedIn)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "RATING_CANCELLED", decode(t, rec).Error.Code)

	status = decode(t, s.do(http.MethodGet, "/v1/sellers/s1/rating?requestId=r1", "", signedIn))
	assert.Equal(t, "cancelled", status.Data["state"])
	assert.Equal(t, false, status.Data["can_rate"])
	assert.Equal(t, false, status.Data["can_cancel"])
}

func TestPromptNextAndDismiss(t *testing.T) {
	s := newTestServer(t, nil, 0)
	session := map[string]string{"Authorization": "Bearer good-token", "X-Session-Id": "sess-1"}

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/v1/sellers/s1/contacts", "", signedIn).Code)

	body := decode(t, s.do(http.MethodGet, "/v1/rating-prompts/next", "", session))
	assert.Nil(t, body.Data["prompt"])

	s.clock.Advance(30 * time.Hour)
	body = decode(t, s.do(http.MethodGet, "/v1/rating-prompts/next", "", session))
	prompt, ok := body.Data["prompt"].(map[string]interface{})
	require.True(t, ok)
	id := prompt["id"].(string)

	stranger := map[string]string{"X-Session-Id": "sess-1", middleware.AnonymousIDHeader: "someone-else"}
	rec := s.do(http.MethodPost, "/v1/rating-prompts/"+id+"/dismiss", "", stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/v1/rating-prompts/"+id+"/dismiss", "", session).Code)

	body = decode(t, s.do(http.MethodGet, "/v1/rating-prompts/next", "", session))
	assert.Nil(t, body.Data["prompt"])
}

func TestPromptStreamPushesCurrentPrompt(t *testing.T) {
	s := newTestServer(t, nil, 0)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/v1/sellers/s1/contacts", "", signedIn).Code)
	s.clock.Advance(30 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/rating-prompts/stream?sessionId=sess-1", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	s.e.ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "event: prompt\n"))
	assert.Contains(t, rec.Body.String(), `"seller_id":"s1"`)
}

func TestTelemetryEventsAreRateLimited(t *testing.T) {
	s := newTestServer(t, nil, 2)

	for _, page := range []string{"/a", "/b"} {
		rec := s.do(http.MethodPost, "/v1/telemetry/events", `{"event_type":"page_view","page":"`+page+`"}`, signedIn)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec).Data["recorded"])
	}

	rec := s.do(http.MethodPost, "/v1/telemetry/events", `{"event_type":"page_view","page":"/c"}`, signedIn)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	s.clock.Advance(30 * time.Second)
	rec = s.do(http.MethodPost, "/v1/telemetry/events", `{"event_type":"page_view","page":"/c"}`, signedIn)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnonymousTelemetryIsRateLimitedPerAddress(t *testing.T) {
	s := newTestServer(t, nil, 2)

	var codes []int
	for i, anonID := range []string{"", "", "rotated-1", "rotated-2"} {
		headers := map[string]string{}
		if anonID != "" {
			headers[middleware.AnonymousIDHeader] = anonID
		}
		body := `{"event_type":"click","page":"/p` + string(rune('a'+i)) + `"}`
		codes = append(codes, s.do(http.MethodPost, "/v1/telemetry/events", body, headers).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// A signed-in caller from the same address has its own bucket.
	rec := s.do(http.MethodPost, "/v1/telemetry/events", `{"event_type":"click","page":"/signed"}`, signedIn)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTelemetryValidationAndMatches(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodPost, "/v1/telemetry/events", `{"event_type":"hover","page":"/"}`, signedIn)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/telemetry/matches", `{"merchant_ids":[]}`, signedIn)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/telemetry/matches", `{"request_id":"r1","merchant_ids":["s1","s2"]}`, signedIn)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec).Data["written"])
}

func TestHealthReportsDependencies(t *testing.T) {
	s := newTestServer(t, map[string]handler.HealthCheck{
		"store": func(context.Context) error { return nil },
	}, 0)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)

	s = newTestServer(t, map[string]handler.HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}, 0)
	rec = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil, 0)

	rec := s.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
