package influx

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/logging"
)

// CredentialLoader is the read side of a credential store
type CredentialLoader interface {
	Load(ctx context.Context) (Credentials, error)
}

// Service runs InfluxDB operations with whatever credentials are currently
// persisted. It is the connectivity checker and bucket lister used both by
// the backend server and by the client in local mode.
type Service struct {
	store     CredentialLoader
	newClient func(Credentials) *Client
}

// NewService creates a service reading credentials from store
func NewService(store CredentialLoader) *Service {
	return &Service{store: store, newClient: NewClient}
}

// credentials loads the persisted credentials, turning "nothing saved" into
// a 400 the way the HTTP API reports it.
func (s *Service) credentials(ctx context.Context) (Credentials, error) {
	creds, err := s.store.Load(ctx)
	if IsNotFound(err) {
		return Credentials{}, NewServiceError(http.StatusBadRequest, "InfluxDB credentials not configured yet")
	}
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Probe verifies that the saved credentials reach InfluxDB
func (s *Service) Probe(ctx context.Context) error {
	creds, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	logging.Info("Probing InfluxDB",
		zap.String("url", creds.URL),
		zap.String("org", creds.Org),
		logging.TokenField(creds.Token),
	)

	if err := s.newClient(creds).Ping(ctx); err != nil {
		if IsTransportError(err) {
			return &Error{
				Kind: KindTransport,
				Detail: fmt.Sprintf("Failed to reach InfluxDB (url=%s, org=%s, token_prefix=%s, token_len=%d): %s",
					creds.URL, creds.Org, logging.RedactToken(creds.Token), len(creds.Token), DetailOr(err, "network error")),
				StatusCode: http.StatusServiceUnavailable,
				Err:        err,
			}
		}
		return &Error{
			Kind:       KindService,
			Detail:     fmt.Sprintf("InfluxDB ping failed (url=%s, org=%s): %s", creds.URL, creds.Org, DetailOr(err, "unexpected response")),
			StatusCode: http.StatusServiceUnavailable,
			Err:        err,
		}
	}
	return nil
}

// Buckets lists the buckets visible to the saved credentials
func (s *Service) Buckets(ctx context.Context) ([]Bucket, error) {
	creds, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	buckets, err := s.newClient(creds).ListBuckets(ctx)
	if err != nil {
		kind := KindService
		if IsTransportError(err) {
			kind = KindTransport
		}
		return nil, &Error{
			Kind:       kind,
			Detail:     "Failed to list buckets: " + DetailOr(err, "unexpected response"),
			StatusCode: http.StatusServiceUnavailable,
			Err:        err,
		}
	}

	logging.Debug("Listed buckets", zap.Int("count", len(buckets)), zap.String("org", creds.Org))
	return buckets, nil
}
