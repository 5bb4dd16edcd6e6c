package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server is a fluxvision-server instance found on the local network
type Server struct {
	// Instance is the advertised instance name (e.g., "fluxvision on studio")
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the preferred address, IPv4 when one was advertised
	IP string

	// Port is the HTTP(S) port
	Port int

	// Metadata contains the TXT record: "path", "version", "tls"
	Metadata map[string]string

	// DiscoveredAt is when the entry was resolved
	DiscoveredAt time.Time
}

// String returns a human-readable description of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, strings.TrimSuffix(s.Hostname, "."), net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the root URL of the server's HTTP API. The TXT "tls=1"
// flag selects https and "path" is appended when it is not "/".
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.GetMetadata("tls") == "1" {
		scheme = "https"
	}
	path := strings.TrimRight(s.GetMetadata("path"), "/")
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)), path)
}

// Version returns the advertised server version, if any
func (s *Server) Version() string {
	return s.GetMetadata("version")
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
