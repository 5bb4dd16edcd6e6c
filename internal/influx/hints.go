package influx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/muurk/fluxvision/internal/urls"
)

// TroubleshootingHint returns multi-line advice for err, suitable for the
// CLI's error boxes.
func TroubleshootingHint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Kind {
	case KindNotFound:
		return strings.Join([]string{
			"No InfluxDB credentials have been saved yet.",
			"Next steps:",
			"  • Run 'fluxvision credentials set' or open the TUI with 'fluxvision'",
		}, "\n")

	case KindTransport:
		hint := []string{"The request never reached a server."}
		switch {
		case strings.HasPrefix(e.Detail, "Request timed out"):
			hint = append(hint, "Troubleshooting:",
				"  • Check that the server is running and not overloaded",
				"  • Verify there is no firewall dropping the connection")
		case strings.HasPrefix(e.Detail, "Connection refused"):
			hint = append(hint, "Troubleshooting:",
				"  • Verify the port in the URL (InfluxDB listens on 8086 by default)",
				"  • Make sure the service is started",
				"See: "+urls.InstallGuide)
		case strings.HasPrefix(e.Detail, "DNS resolution failed"):
			hint = append(hint, "Troubleshooting:",
				"  • Check the hostname for typos",
				"  • Try the IP address instead")
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the URL, including http:// or https://")
		}
		return strings.Join(hint, "\n")

	case KindService:
		switch {
		case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
			return strings.Join([]string{
				"InfluxDB rejected the token.",
				"Troubleshooting:",
				"  • Make sure the token has read access to the organization's buckets",
				"  • Tokens are case-sensitive; paste it again without surrounding spaces",
				"See: " + urls.APITokens,
			}, "\n")
		case e.StatusCode == http.StatusBadRequest:
			return "Save credentials first, then run the check again."
		case e.StatusCode == http.StatusUnprocessableEntity:
			return "The submitted values are invalid. Check the message above for the field at fault."
		case e.StatusCode >= 500:
			return strings.Join([]string{
				fmt.Sprintf("The server returned an error (HTTP %d).", e.StatusCode),
				"Troubleshooting:",
				"  • Check the URL and org in the saved credentials (" + urls.Organizations + ")",
				"  • Look at the server log for the request id",
			}, "\n")
		}
		return fmt.Sprintf("The server returned HTTP %d.", e.StatusCode)
	}
	return "An error occurred. Please check the error message for details."
}
