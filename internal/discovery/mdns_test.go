package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = host
	e.Port = port
	e.AddrIPv4 = v4
	e.AddrIPv6 = v6
	e.Text = txt
	return e
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name:     "IPv4",
			entry:    entry("fluxvision on studio", "studio.local.", 8000, []net.IP{net.ParseIP("192.168.1.20")}, nil, "path=/"),
			wantIP:   "192.168.1.20",
			wantPort: 8000,
		},
		{
			name:     "no port defaults",
			entry:    entry("fv", "box.local.", 0, []net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
		},
		{
			name:     "IPv6 only",
			entry:    entry("fv", "box.local.", 9000, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantIP:   "fe80::1",
			wantPort: 9000,
		},
		{
			name:     "prefers IPv4",
			entry:    entry("fv", "box.local.", 8000, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantIP:   "192.168.1.50",
			wantPort: 8000,
		},
		{
			name:    "no address",
			entry:   entry("fv", "box.local.", 8000, nil, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if srv != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", srv)
				}
				return
			}
			if srv == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}
			if srv.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", srv.IP, tt.wantIP)
			}
			if srv.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", srv.Port, tt.wantPort)
			}
			if srv.Instance != tt.entry.Instance {
				t.Errorf("Instance = %v, want %v", srv.Instance, tt.entry.Instance)
			}
			if time.Since(srv.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", srv.DiscoveredAt)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"path=/", "version=1.2.0", "tls", "=orphan", "note=a=b"})

	want := map[string]string{
		"path":    "/",
		"version": "1.2.0",
		"tls":     "",
		"note":    "a=b",
	}
	if len(got) != len(want) {
		t.Errorf("parseTXT() has %d entries, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("parseTXT()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestServer_BaseURL(t *testing.T) {
	tests := []struct {
		name string
		srv  *Server
		want string
	}{
		{
			name: "plain",
			srv:  &Server{IP: "192.168.1.20", Port: 8000, Metadata: map[string]string{"path": "/"}},
			want: "http://192.168.1.20:8000",
		},
		{
			name: "tls with prefix",
			srv:  &Server{IP: "10.0.0.5", Port: 8443, Metadata: map[string]string{"tls": "1", "path": "/fluxvision/"}},
			want: "https://10.0.0.5:8443/fluxvision",
		},
		{
			name: "ipv6",
			srv:  &Server{IP: "fe80::1", Port: 8000},
			want: "http://[fe80::1]:8000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.srv.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServer_String(t *testing.T) {
	srv := &Server{Instance: "fluxvision on studio", Hostname: "studio.local.", IP: "192.168.1.20", Port: 8000,
		Metadata: map[string]string{"version": "1.0.0"}}

	want := "fluxvision on studio (studio.local) at 192.168.1.20:8000"
	if srv.String() != want {
		t.Errorf("String() = %v, want %v", srv.String(), want)
	}
	if srv.Version() != "1.0.0" {
		t.Errorf("Version() = %v", srv.Version())
	}
	if (&Server{}).GetMetadata("path") != "" {
		t.Error("GetMetadata on nil map should return empty string")
	}
}

func TestNewScanner(t *testing.T) {
	if s := NewScanner(); s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var a *Advertisement
	a.Shutdown()
	(&Advertisement{}).Shutdown()
}
