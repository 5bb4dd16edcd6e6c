// Fluxvision-server is the HTTP backend for fluxvision clients.
//
// It stores InfluxDB credentials on one machine and exposes them, together
// with a connectivity check and bucket listing, over a small JSON API. The
// server advertises itself over mDNS so clients started with --server auto
// can find it.
//
// Usage:
//
//	fluxvision-server serve [flags]
//
// See 'fluxvision-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/fluxvision/internal/server"
	"github.com/muurk/fluxvision/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fluxvision-server",
	Short: "Fluxvision API Server",
	Long: `The HTTP backend for fluxvision clients.

The server keeps InfluxDB credentials in its configuration directory and
answers credential, connectivity and bucket requests for every client
pointed at it with --server.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	certPath        string
	keyPath         string
	host            string
	port            int
	logLevel        string
	credentialsPath string
	instance        string
	noAdvertise     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the fluxvision API server.

TLS is enabled when both --cert and --key are given. Unless --no-advertise is
set the server announces itself as _fluxvision._tcp over mDNS.`,
	Example: `  # Listen on all interfaces, port 8000
  fluxvision-server serve

  # Debug logging on a custom port
  fluxvision-server serve --port 9000 --log-level debug

  # Serve HTTPS with your own certificate
  fluxvision-server serve --cert fullchain.pem --key privkey.pem

  # Keep credentials somewhere else and stay off mDNS
  fluxvision-server serve --credentials /srv/fluxvision/credentials.yaml --no-advertise`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8000, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&credentialsPath, "credentials", "", "Credentials file (default: credentials.yaml in the config directory)")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: derived from the hostname)")
	serveCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not advertise the server over mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	for _, p := range []string{certPath, keyPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	srv, err := server.New(&server.Config{
		Host:            host,
		Port:            port,
		CertPath:        certPath,
		KeyPath:         keyPath,
		LogLevel:        logLevel,
		CredentialsPath: credentialsPath,
		Advertise:       !noAdvertise,
		Instance:        instance,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fluxvision-server %s\n", version.Get())
	},
}
