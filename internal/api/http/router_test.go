package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/fleet-dashboard/internal/appstate"
	"github.com/spec-kit/fleet-dashboard/internal/auth"
	"github.com/spec-kit/fleet-dashboard/internal/events"
	"github.com/spec-kit/fleet-dashboard/internal/observability"
	"github.com/spec-kit/fleet-dashboard/internal/repository"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	"github.com/spec-kit/fleet-dashboard/internal/store"
)

type testServer struct {
	app    *fiber.App
	client *store.Memory
	repo   *repository.EntityRepository
	state  *appstate.State
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	client := store.NewMemory()
	dispatcher := events.NewInMemoryDispatcher(nil)
	state := appstate.New(0)
	service.NewNotificationService(dispatcher, logger, state).RegisterHandlers()

	repo := repository.NewEntityRepository(repository.Dependencies{
		Client:     client,
		Logger:     logger,
		Metrics:    metrics,
		Dispatcher: dispatcher,
	})
	require.NoError(t, repo.LoadAll(context.Background()))
	fleet := service.NewFleetService(repo, state, logger)

	var tokens *auth.TokenManager
	if secret != "" {
		tokens = auth.NewTokenManager(secret, time.Hour)
	}

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("fleet-dashboard", "test", nil, repo.Status, metrics),
		Drivers:        handlers.NewDriversHandler(fleet),
		Dispatchers:    handlers.NewDispatchersHandler(fleet),
		Loads:          handlers.NewLoadsHandler(fleet),
		Dashboard:      handlers.NewDashboardHandler(fleet, state),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return &testServer{app: app, client: client, repo: repo, state: state, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	list, ok := body["data"].([]any)
	require.True(t, ok, "data is a list: %v", body)
	return list
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	status, body := s.do(t, nethttp.MethodGet, "/health/live", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, nethttp.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestRequestIDIsEchoedOrMinted(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(nethttp.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	resp, err = s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/nowhere", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestLoadsLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, "")

	status, body := s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{
		"load_id": "A1", "city": "Reno", "destination": "Boise", "rate": "$900",
	}, "")
	require.Equal(t, nethttp.StatusCreated, status, body)
	assert.Equal(t, "created", body["action"])
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "Pending", created["status"])

	_, body = s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{
		"load_id": "B2", "city": "Reno", "status": "Delivered", "assigned_to": []string{"Ann"},
	}, "")
	assert.Equal(t, "created", body["action"])

	status, body = s.do(t, nethttp.MethodGet, "/api/loads?search=reno&status=Delivered", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	list := dataList(t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "B2", list[0].(map[string]any)["load_id"])

	_, body = s.do(t, nethttp.MethodGet, "/api/loads?status=Unassigned", nil, "")
	list = dataList(t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "A1", list[0].(map[string]any)["load_id"])

	status, body = s.do(t, nethttp.MethodPut, "/api/loads/"+id, map[string]any{"load_id": "A1", "city": "Elko"}, "")
	require.Equal(t, nethttp.StatusOK, status, body)
	assert.Equal(t, "updated", body["action"])

	status, body = s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{"id": id, "deleted": true}, "")
	require.Equal(t, nethttp.StatusOK, status, body)
	assert.Equal(t, "deleted", body["action"])
	assert.Len(t, s.repo.Loads(), 1)
}

func TestPreconditionAndValidationErrors(t *testing.T) {
	s := newTestServer(t, "")

	status, body := s.do(t, nethttp.MethodPut, "/api/loads/missing", map[string]any{"load_id": "X"}, "")
	assert.Equal(t, nethttp.StatusPreconditionFailed, status)
	assert.Equal(t, "PRECONDITION_FAILED", body["error"].(map[string]any)["code"])

	status, body = s.do(t, nethttp.MethodGet, "/api/loads?sort=weight", nil, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	status, _ = s.do(t, nethttp.MethodPost, "/api/refresh/trucks", nil, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, _ = s.do(t, nethttp.MethodGet, "/api/dispatchers/unknown", nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, _ = s.do(t, nethttp.MethodPost, "/api/drivers", map[string]any{"name": "  "}, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestDriversSortAndDashboard(t *testing.T) {
	s := newTestServer(t, "")
	for _, d := range []map[string]any{
		{"name": "Cid Moe", "status": "BUSY", "totalGross": 300},
		{"name": "ann lee", "totalGross": 1200},
		{"name": "Bob Ray", "status": "OFF_DUTY", "totalGross": 50},
	} {
		status, body := s.do(t, nethttp.MethodPost, "/api/drivers", d, "")
		require.Equal(t, nethttp.StatusCreated, status, body)
	}
	status, body := s.do(t, nethttp.MethodPost, "/api/dispatchers", map[string]any{"name": "Kim", "teams": []string{"West"}, "onDuty": true}, "")
	require.Equal(t, nethttp.StatusCreated, status, body)
	assert.Equal(t, false, body["data"].(map[string]any)["onDuty"], "new dispatchers start off duty")

	_, body = s.do(t, nethttp.MethodGet, "/api/drivers?sort=totalGross&order=desc", nil, "")
	list := dataList(t, body)
	require.Len(t, list, 3)
	assert.Equal(t, "ann lee", list[0].(map[string]any)["name"])
	assert.Equal(t, "AN", list[0].(map[string]any)["avatar"])
	assert.Equal(t, "Bob Ray", list[2].(map[string]any)["name"])

	status, body = s.do(t, nethttp.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	dash := body["data"].(map[string]any)
	summary := dash["summary"].(map[string]any)
	assert.EqualValues(t, 3, summary["drivers"])
	assert.EqualValues(t, 33, summary["readyPercent"])
	assert.EqualValues(t, 0, summary["onDutyPercent"])
	assert.EqualValues(t, 4, dash["unreadNotifications"])
}

func TestNotificationsAndPreferences(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{"load_id": "A1"}, "")

	_, body := s.do(t, nethttp.MethodGet, "/api/notifications", nil, "")
	list := dataList(t, body)
	require.Len(t, list, 1)
	n := list[0].(map[string]any)
	assert.Equal(t, "Load A1 created", n["message"])
	assert.EqualValues(t, 1, body["unread"])

	status, _ := s.do(t, nethttp.MethodPost, "/api/notifications/"+n["id"].(string)+"/read", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, 0, s.state.UnreadCount())

	status, _ = s.do(t, nethttp.MethodPost, "/api/notifications/nope/read", nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)

	_, body = s.do(t, nethttp.MethodPut, "/api/preferences", map[string]any{"darkMode": true}, "")
	prefs := body["data"].(map[string]any)
	assert.Equal(t, true, prefs["darkMode"])
	assert.Equal(t, false, prefs["sidebarOpen"])
}

func TestStatusAndRefresh(t *testing.T) {
	s := newTestServer(t, "")
	_, err := s.client.Create(context.Background(), store.Drivers, store.Fields{"name": "Outside Writer"})
	require.NoError(t, err)

	_, body := s.do(t, nethttp.MethodGet, "/api/status", nil, "")
	assert.Equal(t, true, body["data"].(map[string]any)["loaded"])

	status, _ := s.do(t, nethttp.MethodPost, "/api/refresh/drivers", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, s.repo.Drivers(), 1)
}

func TestDriversListingSurvivesNonFiniteNumbers(t *testing.T) {
	s := newTestServer(t, "")
	_, err := s.client.Create(context.Background(), store.Drivers, store.Fields{"name": "Ann", "status": "READY", "totalGross": "NaN"})
	require.NoError(t, err)
	require.NoError(t, s.repo.Refresh(context.Background(), store.Drivers))

	status, body := s.do(t, nethttp.MethodGet, "/api/drivers", nil, "")
	require.Equal(t, nethttp.StatusOK, status, body)
	list := dataList(t, body)
	require.Len(t, list, 1)
	assert.EqualValues(t, 0, list[0].(map[string]any)["totalGross"])

	status, _ = s.do(t, nethttp.MethodGet, "/api/dashboard", nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestBearerTokenRequiredWhenSecretSet(t *testing.T) {
	s := newTestServer(t, "test-secret")

	status, body := s.do(t, nethttp.MethodGet, "/api/loads", nil, "")
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])

	status, _ = s.do(t, nethttp.MethodGet, "/api/loads", nil, "garbage")
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	viewer, _, err := s.tokens.GenerateToken("viewer-1", auth.RoleViewer)
	require.NoError(t, err)
	status, _ = s.do(t, nethttp.MethodGet, "/api/loads", nil, viewer)
	assert.Equal(t, nethttp.StatusOK, status)
	status, _ = s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{"load_id": "A1"}, viewer)
	assert.Equal(t, nethttp.StatusForbidden, status)

	operator, _, err := s.tokens.GenerateToken("op-1", auth.RoleOperator)
	require.NoError(t, err)
	status, _ = s.do(t, nethttp.MethodPost, "/api/loads", map[string]any{"load_id": "A1"}, operator)
	assert.Equal(t, nethttp.StatusCreated, status)

	status, _ = s.do(t, nethttp.MethodGet, "/health/live", nil, "")
	assert.Equal(t, nethttp.StatusOK, status, "probes stay open")
}
