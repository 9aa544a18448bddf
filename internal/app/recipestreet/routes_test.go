package recipestreet

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/lib/jwt"
	authservice "github.com/recipestreet/recipe-street/internal/services/auth"
	"github.com/recipestreet/recipe-street/internal/storage/localstore"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

const testAdminKey = "test-admin-key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)

	users := registry.New(store, logger)
	jwtMaker := jwt.NewMaker("test-secret", time.Minute)
	authService := authservice.New(users, store, jwtMaker, logger, 0)
	reporter := events.New("", time.Second, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, users, jwtMaker, reporter, testAdminKey)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRoutes_SignupSubscribeAdminFlow(t *testing.T) {
	srv := newTestServer(t)

	// регистрация с автоматическим входом
	resp, body := postJSON(t, srv.URL+"/api/v1/signup", map[string]string{
		"name":     "Ana",
		"email":    "Ana@Example.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)

	// оформление подписки по токену
	resp, body = postJSON(t, srv.URL+"/api/v1/subscribe", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := body["data"].(map[string]any)
	assert.Equal(t, true, session["is_subscribed"])

	// подписка без токена закрыта
	resp, _ = postJSON(t, srv.URL+"/api/v1/subscribe", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// админ-статистика по ключу
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/admin/users/stats", nil)
	require.NoError(t, err)
	req.Header.Set("X-Admin-Key", testAdminKey)
	statsResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = statsResp.Body.Close() }()
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var statsBody map[string]any
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&statsBody))
	stats := statsBody["data"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_users"])
	assert.Equal(t, "100.0", stats["subscription_rate"])

	// админ-маршруты без ключа закрыты
	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/admin/users", nil)
	require.NoError(t, err)
	noKeyResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = noKeyResp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, noKeyResp.StatusCode)
}

func TestRoutes_LoginAfterSignup(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/v1/signup", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// предварительная проверка почты перед регистрацией
	resp, body := postJSON(t, srv.URL+"/api/v1/check-email", map[string]string{
		"email": "ana@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["registered"])

	resp, body = postJSON(t, srv.URL+"/api/v1/check-email", map[string]string{
		"email": "new@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["data"].(map[string]any)["registered"])

	// повторная регистрация на ту же почту в другом регистре
	resp, _ = postJSON(t, srv.URL+"/api/v1/signup", map[string]string{
		"name":     "Another",
		"email":    "ANA@EXAMPLE.COM",
		"password": "secret2",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/v1/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong12",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = postJSON(t, srv.URL+"/api/v1/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
}

func TestRoutes_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
