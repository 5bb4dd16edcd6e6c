package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/fluxvision/internal/influx"
)

type memoryStore struct {
	creds   *influx.Credentials
	saveErr error
}

func (m *memoryStore) Load(context.Context) (influx.Credentials, error) {
	if m.creds == nil {
		return influx.Credentials{}, influx.ErrNotFound
	}
	return *m.creds, nil
}

func (m *memoryStore) Save(_ context.Context, creds influx.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	creds = creds.Normalized()
	m.creds = &creds
	return nil
}

type stubService struct {
	probeErr   error
	buckets    []influx.Bucket
	bucketsErr error
}

func (s *stubService) Probe(context.Context) error { return s.probeErr }

func (s *stubService) Buckets(context.Context) ([]influx.Bucket, error) {
	return s.buckets, s.bucketsErr
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestHealth(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{})
	rec, body := do(t, h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCredentials_NotFound(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{})
	rec, body := do(t, h, http.MethodGet, "/api/credentials", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No credentials saved", body["detail"])
}

func TestCredentials_SaveAndFetch(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{})

	rec, body := do(t, h, http.MethodPost, "/api/credentials", `{"url":" http://influx:8086 ","org":"acme","token":"t0k"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "saved", body["status"])

	rec, body = do(t, h, http.MethodGet, "/api/credentials", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://influx:8086", body["url"])
	assert.Equal(t, "acme", body["org"])
	assert.Equal(t, "t0k", body["token"])
}

func TestCredentials_SaveInvalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		store      *memoryStore
		wantStatus int
		wantDetail string
	}{
		{
			name:       "malformed json",
			body:       `{"url":`,
			store:      &memoryStore{},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "Invalid JSON body",
		},
		{
			name:       "missing token",
			body:       `{"url":"http://x","org":"o"}`,
			store:      &memoryStore{},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "Field required: token",
		},
		{
			name:       "store rejects",
			body:       `{"url":"http://x","org":"o","token":""}`,
			store:      &memoryStore{saveErr: influx.NewValidationError("token is required")},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "token is required",
		},
		{
			name:       "store fails without status",
			body:       `{"url":"http://x","org":"o","token":"t"}`,
			store:      &memoryStore{saveErr: errors.New("disk on fire")},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(tt.store, &stubService{})
			rec, body := do(t, h, http.MethodPost, "/api/credentials", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, body["detail"], tt.wantDetail)
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{
			name:       "not configured",
			err:        influx.NewServiceError(http.StatusBadRequest, "InfluxDB credentials not configured yet"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "InfluxDB credentials not configured yet",
		},
		{
			name:       "unreachable",
			err:        &influx.Error{Kind: influx.KindTransport, Detail: "Failed to reach InfluxDB (url=http://x)", StatusCode: 503},
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "Failed to reach InfluxDB (url=http://x)",
		},
		{
			name:       "untyped error",
			err:        errors.New("boom"),
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&memoryStore{}, &stubService{probeErr: tt.err})
			rec, body := do(t, h, http.MethodGet, "/api/influx/check", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.err == nil {
				assert.Equal(t, "ok", body["status"])
				return
			}
			assert.Equal(t, tt.wantDetail, body["detail"])
		})
	}
}

func TestBuckets(t *testing.T) {
	svc := &stubService{buckets: []influx.Bucket{
		{ID: "1", Name: "alpha", Description: "first"},
		{ID: "2", Name: "beta"},
	}}
	h := NewRouter(&memoryStore{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/buckets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []influx.Bucket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, svc.buckets, got)
}

func TestBuckets_Failure(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{bucketsErr: influx.NewServiceError(503, "Failed to list buckets: unauthorized")})
	rec, body := do(t, h, http.MethodGet, "/api/buckets", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Failed to list buckets: unauthorized", body["detail"])
}

func TestUnknownRoute(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{})

	rec, body := do(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body["detail"])

	rec, _ = do(t, h, http.MethodDelete, "/api/credentials", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := NewRouter(&memoryStore{}, &stubService{})

	rec, _ := do(t, h, http.MethodGet, "/api/health", "")
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err, "a fresh id is assigned")

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"), "a valid client id is reused")

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid\nforged")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid\nforged", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDInContext(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), seen)
	assert.Empty(t, RequestID(context.Background()))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, err := New(&Config{CredentialsPath: filepath.Join(t.TempDir(), "credentials.yaml")})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = client.Get("http://" + ln.Addr().String() + "/api/credentials")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNew_RejectsHalfTLS(t *testing.T) {
	_, err := New(&Config{CertPath: "cert.pem"})
	assert.Error(t, err)
}
