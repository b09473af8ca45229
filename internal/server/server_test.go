package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-api/internal/common/config"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/places"
	getrestaurants "restaurant-api/internal/handlers/get-restaurants"
)

const upstreamBody = `{"status":"OK","results":[
	{"place_id":"p1","name":"Cafe A","rating":4.5,
	 "geometry":{"location":{"lat":1.0,"lng":2.0}},
	 "types":["cafe"],"photos":[{"photo_reference":"ref123"}]},
	{"place_id":"p2","name":"Diner B"}
]}`

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "restaurant-api-test"},
		Server: config.ServerConfig{Address: ":0", ReadTimeout: 5000, WriteTimeout: 5000, ShutdownTimeout: 1000},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:5173"},
			AllowMethods: "GET,HEAD,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		},
		Places: config.PlacesConfig{
			BaseURL:      upstreamURL,
			PhotoBaseURL: "https://maps.googleapis.com/maps/api/place/photo",
			APIKey:       "K",
			PlaceType:    "restaurant",
			Timeout:      2000,
		},
		Restaurants: config.RestaurantsConfig{
			DefaultRadius: 10000,
			PhotoURLMode:  config.PhotoModeBuiltURL,
			PhotoMaxWidth: 400,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	log := logger.NewTestLogger(t)
	client := places.NewClient(&places.Config{
		BaseURL:      cfg.Places.BaseURL,
		PhotoBaseURL: cfg.Places.PhotoBaseURL,
		APIKey:       cfg.Places.APIKey,
		Timeout:      config.GetDuration(cfg.Places.Timeout),
	}, log, nil)
	handler := getrestaurants.NewHandler(getrestaurants.LoadConfig(cfg), client, log)
	return New(cfg, handler, nil, log)
}

func newUpstream(t *testing.T, body string) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)
	return upstream
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func TestServer_GetRestaurants(t *testing.T) {
	upstream := newUpstream(t, upstreamBody)
	srv := newTestServer(t, testConfig(upstream.URL))

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/get_restaurants?lat=1.0&long=2.0", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var body []map[string]interface{}
	decode(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "p1", body[0]["id"])
	assert.Equal(t, "https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photoreference=ref123&key=K", body[0]["photo"])
	assert.Equal(t, "p2", body[1]["id"])
	assert.Nil(t, body[1]["rating"])
	assert.Nil(t, body[1]["photo"])
	assert.Equal(t, []interface{}{}, body[1]["types"])
}

func TestServer_RequestIDPropagated(t *testing.T) {
	upstream := newUpstream(t, `{"status":"OK","results":[]}`)
	srv := newTestServer(t, testConfig(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/get_restaurants?lat=1&long=2", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestServer_UpstreamErrorBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()
	srv := newTestServer(t, testConfig(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/get_restaurants?lat=1&long=2", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-7")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "UPSTREAM_BAD_STATUS", body["code"])
	assert.Equal(t, true, body["retryable"])
	assert.Equal(t, "req-7", body["request_id"])
}

func TestServer_CORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{"configured origin allowed", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{"other origin refused", []string{"http://localhost:5173"}, "http://evil.example", ""},
		{"wildcard allows any", []string{"*"}, "http://anywhere.example", "*"},
		{"empty list allows any", nil, "http://anywhere.example", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newUpstream(t, `{"status":"OK","results":[]}`)
			cfg := testConfig(upstream.URL)
			cfg.CORS.AllowOrigins = tt.origins
			srv := newTestServer(t, cfg)

			req := httptest.NewRequest(http.MethodGet, "/get_restaurants?lat=1&long=2", nil)
			req.Header.Set(fiber.HeaderOrigin, tt.origin)
			resp, err := srv.App().Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantHeader, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestServer_HealthAndReady(t *testing.T) {
	srv := newTestServer(t, testConfig("http://unused.invalid"))

	for path, want := range map[string]string{"/health": "healthy", "/ready": "ready"} {
		resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, want, body["status"])
		_, err = time.Parse(time.RFC3339, body["time"])
		assert.NoError(t, err)
	}
}

func TestServer_Metrics(t *testing.T) {
	upstream := newUpstream(t, upstreamBody)
	srv := newTestServer(t, testConfig(upstream.URL))

	_, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/get_restaurants?lat=1&long=2", nil))
	require.NoError(t, err)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "http_requests_total"))
	assert.True(t, strings.Contains(text, "upstream_requests_total"))
	assert.True(t, strings.Contains(text, "restaurants_returned"))
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.Metrics.Enabled = false
	srv := newTestServer(t, cfg)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testConfig("http://unused.invalid"))

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodPost, "/get_restaurants", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	body = nil
	decode(t, resp, &body)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
}

func TestServer_RecoversFromPanic(t *testing.T) {
	srv := newTestServer(t, testConfig("http://unused.invalid"))
	srv.App().Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}
