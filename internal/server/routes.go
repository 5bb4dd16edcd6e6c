package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
)

const maxRequestBody = 64 << 10

// CredentialStore persists the credentials the server operates with
type CredentialStore interface {
	Load(ctx context.Context) (influx.Credentials, error)
	Save(ctx context.Context, creds influx.Credentials) error
}

// InfluxService runs InfluxDB operations with the saved credentials
type InfluxService interface {
	Probe(ctx context.Context) error
	Buckets(ctx context.Context) ([]influx.Bucket, error)
}

// handlers binds the HTTP API to its collaborators
type handlers struct {
	store   CredentialStore
	service InfluxService
}

// NewRouter builds the HTTP API:
//
//	GET  /api/health
//	GET  /api/credentials
//	POST /api/credentials
//	GET  /api/influx/check
//	GET  /api/buckets
func NewRouter(store CredentialStore, service InfluxService) http.Handler {
	h := &handlers{store: store, service: service}

	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/credentials", h.getCredentials)
		r.Post("/credentials", h.saveCredentials)
		r.Get("/influx/check", h.checkInflux)
		r.Get("/buckets", h.listBuckets)
	})
	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) getCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.store.Load(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, creds)
}

// credentialsPayload mirrors influx.Credentials with presence tracking, so a
// missing field can be told apart from an empty one.
type credentialsPayload struct {
	URL   *string `json:"url"`
	Org   *string `json:"org"`
	Token *string `json:"token"`
}

func (p credentialsPayload) credentials() (influx.Credentials, error) {
	switch {
	case p.URL == nil:
		return influx.Credentials{}, influx.NewValidationError("Field required: url")
	case p.Org == nil:
		return influx.Credentials{}, influx.NewValidationError("Field required: org")
	case p.Token == nil:
		return influx.Credentials{}, influx.NewValidationError("Field required: token")
	}
	return influx.Credentials{URL: *p.URL, Org: *p.Org, Token: *p.Token}, nil
}

func (h *handlers) saveCredentials(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	creds, err := payload.credentials()
	if err == nil {
		err = h.store.Save(r.Context(), creds)
	}
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *handlers) checkInflux(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Probe(r.Context()); err != nil {
		writeError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.Buckets(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// errorBody is the {"detail": "..."} envelope every failure uses
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to encode response", zap.Error(err))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps err onto a status and detail. Errors without a status use
// fallback; errors without a detail use the status text.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status := influx.StatusCode(err)
	if status == 0 {
		status = fallback
	}

	var ie *influx.Error
	if !errors.As(err, &ie) {
		logging.Error("Unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
	} else if status >= 500 {
		logging.Warn("Request failed", zap.String("path", r.URL.Path), zap.Int("status_code", status), zap.Error(err))
	}

	writeDetail(w, status, influx.DetailOr(err, http.StatusText(status)))
}
