// Package discovery finds fluxvision servers on the local network.
//
// fluxvision-server advertises itself with multicast DNS as a
// "_fluxvision._tcp" service. The TXT record carries:
//
//   - path: API root, "/" unless the server sits behind a prefix
//   - version: server build version
//   - tls: "1" when the server only speaks HTTPS
//
// # Usage Example
//
//	srv, err := discovery.NewScanner().FindFirst(ctx)
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(srv.BaseURL())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Client and server must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
