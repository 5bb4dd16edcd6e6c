package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/config"
	"github.com/muurk/fluxvision/internal/discovery"
	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/version"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain
const ShutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // TLS is enabled when both CertPath and KeyPath are set
	KeyPath  string
	LogLevel string

	// CredentialsPath overrides where credentials are stored; empty uses the
	// configuration directory.
	CredentialsPath string

	// Advertise registers the server over mDNS
	Advertise bool

	// Instance is the advertised mDNS instance name; empty derives one from
	// the hostname.
	Instance string
}

// Server is the fluxvision HTTP API server
type Server struct {
	config    *Config
	tlsConfig *tls.Config
	store     *config.CredentialFile
	handler   http.Handler

	httpServer *http.Server
	advert     *discovery.Advertisement
}

// New creates a server, initializing logging and the credential store
func New(cfg *Config) (*Server, error) {
	if err := logging.Configure(logging.Options{Level: cfg.LogLevel, JSON: true}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if (cfg.CertPath == "") != (cfg.KeyPath == "") {
		return nil, fmt.Errorf("both cert and key must be provided together, or neither")
	}

	var tlsConfig *tls.Config
	if cfg.CertPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	store, err := credentialStore(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    cfg,
		tlsConfig: tlsConfig,
		store:     store,
		handler:   NewRouter(store, influx.NewService(store)),
	}, nil
}

func credentialStore(path string) (*config.CredentialFile, error) {
	if path != "" {
		return config.NewCredentialFile(path), nil
	}
	return config.DefaultCredentialFile()
}

// Handler returns the HTTP API handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logging.Info("Starting fluxvision server",
		zap.String("addr", ln.Addr().String()),
		zap.String("credentials", s.store.Path()),
		zap.Any("tls", GetTLSInfo(s.tlsConfig)),
		zap.String("version", version.Version),
	)

	if s.config.Advertise {
		s.advertise(ln.Addr())
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		s.advert.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) advertise(addr net.Addr) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return
	}

	instance := s.config.Instance
	if instance == "" {
		host, _ := os.Hostname()
		if host == "" {
			host = "localhost"
		}
		instance = "fluxvision on " + host
	}

	txt := map[string]string{"path": "/", "version": version.Version}
	if s.tlsConfig != nil {
		txt["tls"] = "1"
	}

	advert, err := discovery.Advertise(instance, tcpAddr.Port, txt)
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}
	s.advert = advert
}

// Shutdown stops advertising and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()
	s.advert = nil

	var err error
	if s.httpServer != nil {
		if err = s.httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = s.httpServer.Close()
		}
	}

	logging.Info("Server stopped")
	logging.Sync()
	return err
}
