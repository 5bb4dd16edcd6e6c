// Package config manages FluxVision's on-disk configuration.
//
// Two YAML files live in the configuration directory:
//
//   - config.yaml holds Preferences (backend server URL, discovery timeout,
//     log level).
//   - credentials.yaml holds the InfluxDB URL, org and token written by a
//     CredentialFile. It is created with 0600 permissions.
//
// # Configuration Directory
//
//   - $FLUXVISION_CONFIG_DIR when set
//   - Linux: $XDG_CONFIG_HOME/fluxvision or $HOME/.config/fluxvision
//   - macOS: $HOME/.config/fluxvision
//   - Windows: %LOCALAPPDATA%\fluxvision
//
// Both files are written to a temporary sibling first and renamed into
// place, so a crash mid-write leaves the previous contents intact.
//
// # Usage Example
//
//	store, err := config.DefaultCredentialFile()
//	if err != nil {
//	    return err
//	}
//	creds, err := store.Load(ctx)
//	if influx.IsNotFound(err) {
//	    // nothing saved yet
//	}
package config
