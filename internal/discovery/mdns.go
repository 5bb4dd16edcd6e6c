package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/logging"
)

const (
	// ServiceType is the mDNS service type fluxvision-server advertises
	ServiceType = "_fluxvision._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default browse duration
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8000
)

// ErrNoServer is returned by FindFirst when nothing answered in time
var ErrNoServer = errors.New("no fluxvision server found on the local network")

// Scanner browses the local network for fluxvision servers
type Scanner struct {
	// Timeout is the maximum time to browse
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan returns every server that answered within the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
	)
	err := s.browse(ctx, func(srv *Server) bool {
		mu.Lock()
		defer mu.Unlock()
		key := srv.Instance + "|" + srv.IP
		if !seen[key] {
			seen[key] = true
			servers = append(servers, srv)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	if servers == nil {
		servers = []*Server{}
	}
	return servers, nil
}

// FindFirst returns the first server that answers
func (s *Scanner) FindFirst(ctx context.Context) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Server, 1)
	err := s.browse(ctx, func(srv *Server) bool {
		select {
		case found <- srv:
		default:
		}
		cancel()
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case srv := <-found:
		return srv, nil
	default:
		return nil, ErrNoServer
	}
}

// browse feeds parsed entries to fn until ctx is done or fn returns false.
// It returns once the browse has fully stopped.
func (s *Scanner) browse(ctx context.Context, fn func(*Server) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		keep := true
		for entry := range entries {
			if !keep {
				continue
			}
			srv := parseServiceEntry(entry)
			if srv == nil {
				continue
			}
			logging.Debug("Discovered server", zap.String("instance", srv.Instance), zap.String("url", srv.BaseURL()))
			keep = fn(srv)
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// parseServiceEntry converts a zeroconf entry to a Server. Entries without
// an address are dropped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Server{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" records; bare keys map to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers a fluxvision server on the local network until
// Shutdown is called.
func Advertise(instance string, port int, txt map[string]string) (*Advertisement, error) {
	records := make([]string, 0, len(txt))
	for k, v := range txt {
		records = append(records, k+"="+v)
	}

	srv, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, records, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: srv}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}

// ScanForServers is a convenience function to scan with a custom timeout
func ScanForServers(ctx context.Context, timeout time.Duration) ([]*Server, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
