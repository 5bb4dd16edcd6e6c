package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/api"
	"github.com/muurk/fluxvision/internal/config"
	"github.com/muurk/fluxvision/internal/connect"
	"github.com/muurk/fluxvision/internal/discovery"
	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/wizard/tui"
)

// backend bundles the collaborators every command runs against
type backend struct {
	store   connect.CredentialStore
	checker connect.ConnectivityChecker
	buckets tui.BucketSource

	// clear removes saved credentials; nil when the backend cannot
	clear func(ctx context.Context) error

	// label describes the backend for headers, e.g. "local" or a server URL
	label string
}

// errClearUnsupported is returned when clearing through a remote server
var errClearUnsupported = errors.New("clearing credentials is only supported in local mode")

// resolveBackend picks local mode, a discovered server or an explicit server
// URL according to --server.
func resolveBackend(ctx context.Context, server string) (*backend, error) {
	switch strings.TrimSpace(server) {
	case "":
		return localBackend()
	case "auto":
		return discoveredBackend(ctx)
	default:
		return remoteBackend(server), nil
	}
}

func localBackend() (*backend, error) {
	store, err := config.DefaultCredentialFile()
	if err != nil {
		return nil, err
	}
	service := influx.NewService(store)
	logging.Debug("Using local credentials", zap.String("path", store.Path()))

	return &backend{
		store:   store,
		checker: service,
		buckets: service,
		clear:   store.Clear,
		label:   "local",
	}, nil
}

func remoteBackend(url string) *backend {
	client := api.NewClient(url)
	logging.Debug("Using fluxvision-server", zap.String("url", client.BaseURL))

	return &backend{
		store:   client,
		checker: client,
		buckets: client,
		label:   client.BaseURL,
	}
}

func discoveredBackend(ctx context.Context) (*backend, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = prefs.DiscoverDuration()

	srv, err := scanner.FindFirst(ctx)
	if err != nil {
		if errors.Is(err, discovery.ErrNoServer) {
			return nil, fmt.Errorf("%w. Use --server <url> to specify one manually", err)
		}
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	logging.Info("Discovered fluxvision-server", zap.String("server", srv.String()))

	return remoteBackend(srv.BaseURL()), nil
}
