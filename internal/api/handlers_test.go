package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/nyashahama/bump-digest/internal/api"
	"github.com/nyashahama/bump-digest/internal/digest"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "admin_secret_for_tests"

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubRunner records every RunDigest call.
type stubRunner struct {
	calls  []runCall
	result digest.RunResult
	err    error

	// started, when set, is closed on the first call, which then blocks
	// until its context ends.
	started chan struct{}
}

type runCall struct {
	now   time.Time
	force bool
}

func (r *stubRunner) RunDigest(ctx context.Context, now time.Time, force bool) (digest.RunResult, error) {
	r.calls = append(r.calls, runCall{now: now, force: force})
	if r.started != nil {
		close(r.started)
		<-ctx.Done()
		return digest.RunResult{}, ctx.Err()
	}
	return r.result, r.err
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	runner  *stubRunner
	handler http.Handler
}

func newTestServer(t *testing.T) *testDeps {
	t.Helper()

	rn := &stubRunner{result: digest.RunResult{Errors: []string{}}}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_test_counter_total",
		Help: "Registered so /metrics has something to expose.",
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewServer(rn, reg, api.Config{
		AdminJWTSecret: testSecret,
		Env:            "development",
		Now:            func() time.Time { return fixedNow },
	}, logger)

	return &testDeps{runner: rn, handler: handler}
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := api.MintAdminToken(testSecret, "ops@example.com", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return tok
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != "" {
		bodyReader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

const runPath = "/api/admin/digests/run"

// ─── GET /healthz, /metrics ───────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMetrics_ExposesRegistry(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "digest_test_counter_total") {
		t.Errorf("metrics body missing registered counter:\n%s", rr.Body.String())
	}
}

// ─── POST /api/admin/digests/run ──────────────────────────────────────────────

func TestRunDigests_ForcedRunReturnsResult(t *testing.T) {
	deps := newTestServer(t)
	deps.runner.result = digest.RunResult{
		SentCount:  2,
		ErrorCount: 1,
		Errors:     []string{"dispatch failed for subscriber a@example.com"},
	}

	rr := doRequest(t, deps.handler, http.MethodPost, runPath, "", bearer(adminToken(t)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"sentCount":  float64(2),
		"errorCount": float64(1),
		"errors":     []any{"dispatch failed for subscriber a@example.com"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if len(deps.runner.calls) != 1 {
		t.Fatalf("expected one run, got %d", len(deps.runner.calls))
	}
	call := deps.runner.calls[0]
	if !call.force {
		t.Error("manual runs must be forced")
	}
	if !call.now.Equal(fixedNow) {
		t.Errorf("now: got %s, want %s", call.now, fixedNow)
	}
}

func TestRunDigests_NowOverride(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, runPath,
		`{"now":"2025-10-20T09:00:00Z"}`, bearer(adminToken(t)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	want := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	if got := deps.runner.calls[0].now; !got.Equal(want) {
		t.Errorf("now: got %s, want %s", got, want)
	}
}

func TestRunDigests_EmptyErrorsEncodeAsArray(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, runPath, "", bearer(adminToken(t)))
	if !strings.Contains(rr.Body.String(), `"errors":[]`) {
		t.Errorf("expected an empty errors array, got %s", rr.Body.String())
	}
}

func TestRunDigests_InvalidBodyReturns400(t *testing.T) {
	deps := newTestServer(t)
	for _, body := range []string{`{bad json`, `{"now":"yesterday"}`, `{"force":false}`} {
		rr := doRequest(t, deps.handler, http.MethodPost, runPath, body, bearer(adminToken(t)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
	if len(deps.runner.calls) != 0 {
		t.Errorf("no run should start on a bad request, got %d", len(deps.runner.calls))
	}
}

func TestRunDigests_BulkLoadFailureReturns500(t *testing.T) {
	deps := newTestServer(t)
	deps.runner.err = errors.New("worker: load recipients: connection refused")

	rr := doRequest(t, deps.handler, http.MethodPost, runPath, "", bearer(adminToken(t)))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Error("internal error details must not leak")
	}
}

// ─── AUTH ─────────────────────────────────────────────────────────────────────

func TestRunDigests_Auth(t *testing.T) {
	now := time.Now()
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing header", nil, http.StatusUnauthorized},
		{"not a bearer", map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}, http.StatusUnauthorized},
		{"garbage token", bearer("not.a.jwt"), http.StatusUnauthorized},
		{
			"wrong secret",
			bearer(signClaims(t, jwt.SigningMethodHS256, []byte("other"), &api.AdminClaims{Role: "admin", RegisteredClaims: valid})),
			http.StatusUnauthorized,
		},
		{
			"wrong algorithm",
			bearer(signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), &api.AdminClaims{Role: "admin", RegisteredClaims: valid})),
			http.StatusUnauthorized,
		},
		{
			"expired",
			bearer(signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &api.AdminClaims{
				Role:             "admin",
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))},
			})),
			http.StatusUnauthorized,
		},
		{
			"no expiry",
			bearer(signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &api.AdminClaims{Role: "admin"})),
			http.StatusUnauthorized,
		},
		{
			"not an admin",
			bearer(signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &api.AdminClaims{Role: "viewer", RegisteredClaims: valid})),
			http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestServer(t)
			rr := doRequest(t, deps.handler, http.MethodPost, runPath, "", tt.headers)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
			if len(deps.runner.calls) != 0 {
				t.Error("runner must not be called without a valid admin token")
			}
		})
	}
}

func TestMintAdminToken_EmptySecret(t *testing.T) {
	if _, err := api.MintAdminToken("", "ops", time.Hour, time.Now()); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_Preflight(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodOptions, runPath, "",
		map[string]string{"Origin": "http://localhost:5173"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin: got %q", got)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("Authorization must be an allowed header")
	}
}

func TestRunDigests_RootCancelStopsManualRun(t *testing.T) {
	root, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	rn := &stubRunner{started: make(chan struct{})}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewServer(rn, prometheus.NewRegistry(), api.Config{
		AdminJWTSecret: testSecret,
		Env:            "development",
		Now:            func() time.Time { return fixedNow },
		RootContext:    root,
	}, logger)

	headers := bearer(adminToken(t))
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(t, handler, http.MethodPost, "/api/admin/digests/run", "", headers)
	}()

	select {
	case <-rn.started:
	case <-time.After(5 * time.Second):
		t.Fatal("run never started")
	}
	shutdown()

	select {
	case rr := <-done:
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("manual run outlived the root context")
	}
}
