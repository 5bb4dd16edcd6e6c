package influx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
		wantDetail string
	}{
		{name: "no content", statusCode: http.StatusNoContent},
		{name: "ok", statusCode: http.StatusOK},
		{
			name:       "unauthorized with influx body",
			statusCode: http.StatusUnauthorized,
			body:       `{"code":"unauthorized","message":"unauthorized access"}`,
			wantErr:    true,
			wantDetail: "unauthorized access",
		},
		{
			name:       "server error without body",
			statusCode: http.StatusBadGateway,
			wantErr:    true,
			wantDetail: "InfluxDB ping failed (HTTP 502)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/ping" {
					t.Errorf("path = %s, want /ping", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			defer server.Close()

			client := NewClient(Credentials{URL: server.URL, Org: "acme", Token: "tok"})
			err := client.Ping(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("Ping() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !IsServiceError(err) {
				t.Errorf("Ping() error kind should be service, got %v", err)
			}
			if got := StatusCode(err); got != tt.statusCode {
				t.Errorf("StatusCode() = %d, want %d", got, tt.statusCode)
			}
			if got := DetailOr(err, ""); got != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestClient_ListBuckets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/buckets" {
			t.Errorf("path = %s, want /api/v2/buckets", r.URL.Path)
		}
		if got := r.URL.Query().Get("org"); got != "acme" {
			t.Errorf("org query = %q, want acme", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token s3cret" {
			t.Errorf("Authorization = %q, want %q", got, "Token s3cret")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"buckets": []map[string]string{
				{"id": "b1", "name": "telemetry", "description": "device data"},
				{"id": "b2", "name": "_monitoring"},
			},
		})
	}))
	defer server.Close()

	// Trailing slash and padding are normalized away.
	client := NewClient(Credentials{URL: "  " + server.URL + "/ ", Org: " acme ", Token: "s3cret"})
	buckets, err := client.ListBuckets(context.Background())
	if err != nil {
		t.Fatalf("ListBuckets() error = %v", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("len(buckets) = %d, want 2", len(buckets))
	}
	if buckets[0].ID != "b1" || buckets[0].Name != "telemetry" || buckets[0].Description != "device data" {
		t.Errorf("buckets[0] = %+v", buckets[0])
	}
	if buckets[1].Description != "" {
		t.Errorf("buckets[1].Description = %q, want empty", buckets[1].Description)
	}
}

func TestClient_ListBuckets_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	buckets, err := NewClient(Credentials{URL: server.URL, Org: "acme", Token: "t"}).ListBuckets(context.Background())
	if err != nil {
		t.Fatalf("ListBuckets() error = %v", err)
	}
	if buckets == nil || len(buckets) != 0 {
		t.Errorf("ListBuckets() = %#v, want empty non-nil slice", buckets)
	}
}

func TestClient_ListBuckets_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(Credentials{URL: server.URL, Org: "acme", Token: "t"}).ListBuckets(context.Background())
	if !IsServiceError(err) {
		t.Fatalf("ListBuckets() error = %v, want service error", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewClient(Credentials{URL: url, Org: "acme", Token: "t"}).Ping(context.Background())
	if !IsTransportError(err) {
		t.Fatalf("Ping() error = %v, want transport error", err)
	}
	if DetailOr(err, "") == "" {
		t.Error("transport error should carry a detail")
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Credentials{URL: server.URL, Org: "acme", Token: "t"})
	client.SetTimeout(50 * time.Millisecond)

	err := client.Ping(context.Background())
	if !IsTransportError(err) {
		t.Fatalf("Ping() error = %v, want transport error", err)
	}
	if got := DetailOr(err, ""); got != "Request timed out" {
		t.Errorf("detail = %q, want %q", got, "Request timed out")
	}
}

func TestClient_MissingURL(t *testing.T) {
	err := NewClient(Credentials{}).Ping(context.Background())
	if !IsServiceError(err) {
		t.Fatalf("Ping() error = %v, want service error", err)
	}
	if StatusCode(err) != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode() = %d, want 422", StatusCode(err))
	}
}
