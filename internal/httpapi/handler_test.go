package httpapi

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/geo-distance/core"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	londonParisCosine    = `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522},"method":"Cosine"}`
	londonParisHaversine = `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522},"method":"Haversine"}`
	londonParisDefault   = `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522}}`
	londonParisNull      = `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522},"method":null}`
	londonParisVincenty  = `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522},"method":"Vincenty"}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	logs      *bytes.Buffer
	collector *observability.Collector
}

func newTestServer(t *testing.T, policy distance.MethodPolicy) *testServer {
	t.Helper()

	logs := &bytes.Buffer{}
	log := logging.New(logging.Config{Level: "debug", Format: "json", Writer: logs})

	collector, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	svc := distance.NewService(log, distance.WithPolicy(policy), distance.WithRecorder(collector))
	router := NewRouter(NewGeoHandler(svc, log), log, collector)
	return &testServer{router: router, logs: logs, collector: collector}
}

func (s *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) float64 {
	t.Helper()
	var reply struct {
		Result *float64 `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.NotNil(t, reply.Result, "body %s has no result", rec.Body.String())
	return *reply.Result
}

func TestGetDistanceLondonParis(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	for _, body := range []string{londonParisCosine, londonParisHaversine} {
		rec := srv.do(http.MethodPost, "/geo/distance", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		result := decodeResult(t, rec)
		assert.GreaterOrEqual(t, result, 343.0)
		assert.LessOrEqual(t, result, 344.0)
	}
}

func TestGetDistanceAbsentMethodIsCosine(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	want := decodeResult(t, srv.do(http.MethodPost, "/geo/distance", londonParisCosine, nil))
	for _, body := range []string{londonParisDefault, londonParisNull} {
		rec := srv.do(http.MethodPost, "/geo/distance", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, want, decodeResult(t, rec))
	}
}

func TestGetDistanceInvalidMethodStrict(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	rec := srv.do(http.MethodPost, "/geo/distance", londonParisVincenty, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "InvalidArgument", body["code"])
	assert.Contains(t, body["error"], "invalid method")
	assert.Contains(t, body["error"], "Vincenty")
}

func TestGetDistanceInvalidMethodLenient(t *testing.T) {
	srv := newTestServer(t, distance.PolicyLenient)

	rec := srv.do(http.MethodPost, "/geo/distance", londonParisVincenty, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	want := core.DistanceByCosine(51.5074, -0.1278, 48.8566, 2.3522)
	assert.Equal(t, want, decodeResult(t, rec))
	assert.Contains(t, srv.logs.String(), "falling back to default")
}

func TestGetDistanceNonStringMethod(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	for _, method := range []string{`1`, `true`, `{"name":"Cosine"}`} {
		body := `{"from":{"latitude":51.5074,"longitude":-0.1278},"to":{"latitude":48.8566,"longitude":2.3522},"method":` + method + `}`
		rec := srv.do(http.MethodPost, "/geo/distance", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, "method %s", method)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "InvalidArgument", resp["code"], "method %s", method)
		assert.Contains(t, resp["error"], "invalid method", "method %s", method)
	}
}

func TestGetDistanceHugeCoordinates(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	for _, method := range []string{"Cosine", "Haversine"} {
		body := `{"from":{"latitude":1e308,"longitude":-1e308},"to":{"latitude":0,"longitude":1e308},"method":"` + method + `"}`
		rec := srv.do(http.MethodPost, "/geo/distance", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", method, rec.Body.String())

		got := decodeResult(t, rec)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "%s result %v", method, got)
	}
}

func TestGetDistanceMalformedBody(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	for _, body := range []string{`{"from":`, `not json`, ``} {
		rec := srv.do(http.MethodPost, "/geo/distance", body, map[string]string{"Content-Type": "application/json"})
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
	}
}

func TestGetDistanceKnownValues(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	tests := []struct {
		name string
		body string
		want float64
	}{
		{"quarter equator", `{"from":{"latitude":0,"longitude":0},"to":{"latitude":0,"longitude":90},"method":"Haversine"}`, 10007.543398010286},
		{"antipodal cosine", `{"from":{"latitude":0,"longitude":0},"to":{"latitude":0,"longitude":180}}`, 20015.086796020572},
		{"same point", `{"from":{"latitude":12.5,"longitude":-70.25},"to":{"latitude":12.5,"longitude":-70.25}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, "/geo/distance", tt.body, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.InDelta(t, tt.want, decodeResult(t, rec), 1e-6)
		})
	}
}

func TestRootReturnsGRPCHint(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	rec := srv.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, GRPCHint, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	rec := srv.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDEchoedAndLogged(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	rec := srv.do(http.MethodPost, "/geo/distance", londonParisHaversine, map[string]string{RequestIDHeader: "req-http-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-http-1", rec.Header().Get(RequestIDHeader))

	out := srv.logs.String()
	assert.Contains(t, out, "distance computed")
	assert.Contains(t, out, `"method":"Haversine"`)
	assert.Contains(t, out, `"request_id":"req-http-1"`)

	generated := srv.do(http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, generated.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/geo/distance", londonParisHaversine, nil).Code)

	rec := srv.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `geo_distance_calculations_total{method="Haversine"} 1`)
	assert.Contains(t, body, `geo_http_requests_total{code="200",method="POST",route="/geo/distance"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, distance.PolicyStrict)

	rec := srv.do(http.MethodOptions, "/geo/distance", "", map[string]string{
		"Origin":                        "http://client.test",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logs := &bytes.Buffer{}
	log := logging.New(logging.Config{Level: "debug", Format: "json", Writer: logs})

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error","code":"Internal"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "panic in HTTP handler")
}
