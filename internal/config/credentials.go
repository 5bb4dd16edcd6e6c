package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
)

// CredentialFile stores one set of InfluxDB credentials in a YAML file
// readable only by the owner.
type CredentialFile struct {
	path string
}

// NewCredentialFile returns a store backed by path.
func NewCredentialFile(path string) *CredentialFile {
	return &CredentialFile{path: path}
}

// DefaultCredentialFile returns the store in the configuration directory.
func DefaultCredentialFile() (*CredentialFile, error) {
	path, err := GetCredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials path: %w", err)
	}
	return NewCredentialFile(path), nil
}

// Path returns the backing file path.
func (f *CredentialFile) Path() string {
	return f.path
}

// Load returns the saved credentials, or influx.ErrNotFound when the file
// does not exist.
func (f *CredentialFile) Load(ctx context.Context) (influx.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return influx.Credentials{}, influx.NewTransportError("", err)
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return influx.Credentials{}, influx.ErrNotFound
	}
	if err != nil {
		return influx.Credentials{}, &influx.Error{
			Kind:       influx.KindService,
			Detail:     "Failed to read saved credentials",
			StatusCode: 500,
			Err:        err,
		}
	}

	var creds influx.Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return influx.Credentials{}, &influx.Error{
			Kind:       influx.KindService,
			Detail:     "Saved credentials file is corrupt",
			StatusCode: 500,
			Err:        err,
		}
	}
	return creds, nil
}

// Save validates and writes creds, replacing whatever was saved before.
func (f *CredentialFile) Save(ctx context.Context, creds influx.Credentials) error {
	if err := ctx.Err(); err != nil {
		return influx.NewTransportError("", err)
	}

	creds = creds.Normalized()
	if err := creds.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := writeFileAtomic(f.path, data, 0600); err != nil {
		return &influx.Error{
			Kind:       influx.KindService,
			Detail:     "Failed to write credentials: " + err.Error(),
			StatusCode: 500,
			Err:        err,
		}
	}

	logging.Info("Saved credentials",
		zap.String("path", f.path),
		zap.String("url", creds.URL),
		zap.String("org", creds.Org),
		logging.TokenField(creds.Token),
	)
	return nil
}

// Clear removes the saved credentials. Clearing an empty store is not an error.
func (f *CredentialFile) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return influx.NewTransportError("", err)
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
