package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	appName         = "fluxvision"
	preferencesFile = "config.yaml"
	credentialsFile = "credentials.yaml"
	logFile         = "fluxvision.log"

	// DirEnvVar overrides the configuration directory entirely.
	DirEnvVar = "FLUXVISION_CONFIG_DIR"
)

// fileMutex serializes writes to files in the configuration directory
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory:
//   - $FLUXVISION_CONFIG_DIR when set
//   - Linux: $XDG_CONFIG_HOME/fluxvision or $HOME/.config/fluxvision
//   - macOS: $HOME/.config/fluxvision
//   - Windows: %LOCALAPPDATA%\fluxvision
func GetConfigDir() (string, error) {
	if dir := os.Getenv(DirEnvVar); dir != "" {
		return dir, nil
	}

	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil
	}
}

func pathInConfigDir(name string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GetConfigPath returns the full path to the preferences file.
func GetConfigPath() (string, error) {
	return pathInConfigDir(preferencesFile)
}

// GetCredentialsPath returns the full path to the saved credentials file.
func GetCredentialsPath() (string, error) {
	return pathInConfigDir(credentialsFile)
}

// GetLogPath returns where the TUI writes its log.
func GetLogPath() (string, error) {
	return pathInConfigDir(logFile)
}

// EnsureConfigDir creates the configuration directory with user-only
// permissions if it does not exist yet.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// crash never leaves a half-written file behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filepath.Base(path), err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
