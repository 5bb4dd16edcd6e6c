// Package urls holds the documentation links the CLI prints next to errors.
//
// Keeping them in one place lets the links be updated before a release
// without hunting through code.
//
// Usage:
//
//	import "github.com/muurk/fluxvision/internal/urls"
//
//	fmt.Printf("See: %s\n", urls.APITokens)
package urls
