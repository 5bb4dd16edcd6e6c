package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/fluxvision/internal/discovery"
	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/ui"
	"github.com/muurk/fluxvision/internal/urls"
	"github.com/muurk/fluxvision/internal/wizard/tui"
)

// Command flags
var (
	credURL      string
	credOrg      string
	credToken    string
	revealToken  bool
	assumeYes    bool
	scanTimeout  int
	showFormat   string
	bucketFormat string
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(scanCmd)

	credentialsCmd.AddCommand(credentialsShowCmd)
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsClearCmd)
}

// tuiCmd launches the interactive TUI
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	Long: `Launch the full-screen interface.

The TUI walks through entering credentials, saving them, checking
connectivity and picking a bucket. Mouse clicks are supported.`,
	Example: `  # Local mode
  fluxvision tui
  # Or simply (tui is default):
  fluxvision

  # Against a server found on the local network
  fluxvision --server auto`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}

	err = tui.Run(tui.Deps{
		Store:   b.store,
		Checker: b.checker,
		Buckets: tui.BucketLister(b.buckets),
		Backend: b.label,
	})
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Show, save or clear InfluxDB credentials",
}

var credentialsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show saved credentials",
	Long: `Display the saved InfluxDB credentials. The token is redacted unless
--reveal is given.`,
	Example: `  fluxvision credentials show
  fluxvision credentials show --format json --reveal`,
	RunE: runCredentialsShow,
}

func init() {
	credentialsShowCmd.Flags().BoolVar(&revealToken, "reveal", false, "Print the token in full")
	credentialsShowCmd.Flags().StringVar(&showFormat, "format", "detailed", "Output format (detailed, json)")
}

func runCredentialsShow(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}

	creds, err := b.store.Load(cmd.Context())
	p := ui.NewPrinter(cmd.OutOrStdout())
	if influx.IsNotFound(err) {
		p.PrintWarning("No credentials saved",
			ui.Param{Key: "Backend", Value: b.label},
			ui.Param{Key: "Next step", Value: "fluxvision credentials set"},
		)
		return nil
	}
	if err != nil {
		p.PrintFailure("Loading credentials failed", influx.DetailOr(err, err.Error()), influx.TroubleshootingHint(err))
		return err
	}

	token := logging.RedactToken(creds.Token)
	if revealToken {
		token = creds.Token
	}

	if showFormat == "json" {
		creds.Token = token
		return writeJSON(cmd.OutOrStdout(), creds)
	}

	p.PrintSuccess("Saved credentials",
		ui.Param{Key: "Backend", Value: b.label},
		ui.Param{Key: "URL", Value: creds.URL},
		ui.Param{Key: "Org", Value: creds.Org},
		ui.Param{Key: "Token", Value: token},
	)
	return nil
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save credentials",
	Long: `Save InfluxDB credentials. Values not given as flags are prompted for;
the token prompt does not echo.

Saving does not check connectivity. Run 'fluxvision check' afterwards.`,
	Example: `  # Prompt for everything
  fluxvision credentials set

  # Non-interactive
  fluxvision credentials set --url http://localhost:8086 --org acme --token "$INFLUX_TOKEN"`,
	RunE: runCredentialsSet,
}

func init() {
	credentialsSetCmd.Flags().StringVar(&credURL, "url", "", "InfluxDB URL (e.g., http://localhost:8086)")
	credentialsSetCmd.Flags().StringVar(&credOrg, "org", "", "InfluxDB organization")
	credentialsSetCmd.Flags().StringVar(&credToken, "token", "", "InfluxDB API token")
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()

	creds := influx.Credentials{URL: credURL, Org: credOrg, Token: credToken}
	if creds.URL == "" {
		if creds.URL, err = promptLine(in, out, "InfluxDB URL: "); err != nil {
			return err
		}
	}
	if creds.Org == "" {
		if creds.Org, err = promptLine(in, out, "Organization: "); err != nil {
			return err
		}
	}
	if creds.Token == "" {
		if creds.Token, err = promptSecret(in, out, "Token: "); err != nil {
			return err
		}
	}
	creds = creds.Normalized()

	p := ui.NewPrinter(cmd.OutOrStdout())
	if err := b.store.Save(cmd.Context(), creds); err != nil {
		p.PrintFailure("Saving credentials failed", influx.DetailOr(err, err.Error()), influx.TroubleshootingHint(err))
		return err
	}

	p.PrintSuccess("Credentials saved",
		ui.Param{Key: "Backend", Value: b.label},
		ui.Param{Key: "URL", Value: creds.URL},
		ui.Param{Key: "Org", Value: creds.Org},
		ui.Param{Key: "Token", Value: logging.RedactToken(creds.Token)},
		ui.Param{Key: "Next step", Value: "fluxvision check"},
	)
	return nil
}

var credentialsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove saved credentials",
	Long: `Remove the locally saved credentials. You are asked to confirm unless
--yes is given. Only supported in local mode.`,
	RunE: runCredentialsClear,
}

func init() {
	credentialsClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runCredentialsClear(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}
	if b.clear == nil {
		return errClearUnsupported
	}

	if !assumeYes {
		confirm := ui.Confirmation{
			Title: "CLEAR CREDENTIALS",
			Warnings: []string{
				"The saved InfluxDB URL, org and token will be deleted",
				"You will need the token again to reconnect",
			},
			Phrase: "yes",
		}
		if !confirm.Ask(cmd.InOrStdin(), cmd.ErrOrStderr()) {
			return nil
		}
	}

	if err := b.clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Credentials cleared", ui.Param{Key: "Backend", Value: b.label})
	return nil
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity with the saved credentials",
	Long: `Load the saved credentials, ping InfluxDB and list buckets, reporting
each step.`,
	Example: `  fluxvision check
  fluxvision check --server http://nas.local:8000`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Connectivity Check",
		Command: "fluxvision check",
		Params:  []ui.Param{{Key: "Backend", Value: b.label}},
		Steps:   []string{"Load credentials", "Ping InfluxDB", "List buckets"},
		Output:  cmd.OutOrStdout(),
		Explain: func(err error) (string, string) {
			return influx.DetailOr(err, err.Error()), influx.TroubleshootingHint(err)
		},
	})

	return runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(1, ui.StepRunning, "")
		creds, err := b.store.Load(ctx)
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return nil, err
		}
		onStep(1, ui.StepComplete, creds.URL)

		onStep(2, ui.StepRunning, "")
		start := time.Now()
		if err := b.checker.Probe(ctx); err != nil {
			onStep(2, ui.StepFailed, "")
			return nil, err
		}
		onStep(2, ui.StepComplete, time.Since(start).Round(time.Millisecond).String())

		onStep(3, ui.StepRunning, "")
		buckets, err := b.buckets.Buckets(ctx)
		if err != nil {
			onStep(3, ui.StepFailed, "")
			return nil, err
		}
		onStep(3, ui.StepComplete, pluralize(len(buckets), "bucket"))

		return []ui.Param{
			{Key: "URL", Value: creds.URL},
			{Key: "Org", Value: creds.Org},
			{Key: "Token", Value: logging.RedactToken(creds.Token)},
			{Key: "Buckets", Value: strconv.Itoa(len(buckets))},
		}, nil
	})
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List buckets visible to the saved credentials",
	Example: `  fluxvision buckets
  fluxvision buckets --format json`,
	RunE: runBuckets,
}

func init() {
	bucketsCmd.Flags().StringVar(&bucketFormat, "format", "table", "Output format (table, json)")
}

func runBuckets(cmd *cobra.Command, args []string) error {
	b, err := resolveBackend(cmd.Context(), serverURL)
	if err != nil {
		return err
	}

	buckets, err := b.buckets.Buckets(cmd.Context())
	p := ui.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		p.PrintFailure("Listing buckets failed", influx.DetailOr(err, err.Error()), influx.TroubleshootingHint(err))
		return err
	}

	if bucketFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), buckets)
	}

	if len(buckets) == 0 {
		p.PrintWarning("No buckets found",
			ui.Param{Key: "Backend", Value: b.label},
			ui.Param{Key: "Help", Value: urls.Buckets},
		)
		return nil
	}

	table := ui.NewTable("NAME", "ID", "DESCRIPTION")
	table.Muted = true
	for _, bucket := range buckets {
		table.AddRow(bucket.Name, bucket.ID, bucket.Description)
	}
	p.PrintTable(table)
	return nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for fluxvision servers on the network",
	Long: `Scan for fluxvision-server instances using mDNS/DNS-SD discovery.

Servers advertise themselves as _fluxvision._tcp. Use a listed URL with
--server, or pass --server auto to use the first one found.`,
	Example: `  # Scan using the configured timeout (5 seconds by default)
  fluxvision scan

  # Longer scan for busy networks
  fluxvision scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from preferences)")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := prefs.DiscoverDuration()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Server Discovery", "fluxvision scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	)

	servers, err := discovery.ScanForServers(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		p.PrintFailure("No servers found", "nothing answered on the local network",
			strings.Join([]string{
				"Troubleshooting:",
				"  • Check that fluxvision-server is running without --no-advertise",
				"  • mDNS does not cross routers; make sure you are on the same network",
				"  • Try increasing --timeout",
			}, "\n"))
		return nil
	}

	table := ui.NewTable("INSTANCE", "ADDRESS", "VERSION", "URL")
	for _, srv := range servers {
		version := srv.Version()
		if version == "" {
			version = "unknown"
		}
		table.AddRow(srv.Instance, net.JoinHostPort(srv.IP, strconv.Itoa(srv.Port)), version, srv.BaseURL())
	}
	p.PrintTable(table)
	p.Newline()
	p.Println("Use 'fluxvision --server <url>' to work against a server")
	return nil
}

func promptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a line without echo when stdin is a terminal, and as a
// plain line otherwise so tokens can be piped in.
func promptSecret(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := promptLine(in, out, prompt)
		return line, err
	}

	_, _ = fmt.Fprint(out, prompt)
	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(secret), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
