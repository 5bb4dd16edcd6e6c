package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/fluxvision/internal/influx"
)

func TestGetConfigDir(t *testing.T) {
	t.Setenv(DirEnvVar, "")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "fluxvision") {
		t.Errorf("GetConfigDir() = %v, should contain 'fluxvision'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	t.Setenv(DirEnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "fluxvision") {
		t.Errorf("GetConfigDir() = %v", dir)
	}
}

func TestGetConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DirEnvVar, dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %v, want %v", got, dir)
	}

	credPath, _ := GetCredentialsPath()
	if filepath.Base(credPath) != "credentials.yaml" {
		t.Errorf("GetCredentialsPath() = %v", credPath)
	}
	logPath, _ := GetLogPath()
	if filepath.Dir(logPath) != dir {
		t.Errorf("GetLogPath() = %v, want inside %v", logPath, dir)
	}
}

func TestPreferences_Defaults(t *testing.T) {
	prefs, err := LoadPreferencesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadPreferencesFile() error = %v", err)
	}

	if prefs.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", prefs.Version, CurrentVersion)
	}
	if prefs.ServerURL != "" {
		t.Errorf("ServerURL = %q, want local mode by default", prefs.ServerURL)
	}
	if prefs.DiscoverDuration() != 5*time.Second {
		t.Errorf("DiscoverDuration() = %v, want 5s", prefs.DiscoverDuration())
	}
}

func TestPreferences_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	prefs := DefaultPreferences()
	prefs.ServerURL = "http://localhost:8000"
	prefs.DiscoverTimeout = 12
	prefs.LogLevel = "debug"

	if err := prefs.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadPreferencesFile(path)
	if err != nil {
		t.Fatalf("LoadPreferencesFile() error = %v", err)
	}
	if *loaded != *prefs {
		t.Errorf("loaded = %+v, want %+v", loaded, prefs)
	}
}

func TestPreferences_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPreferencesFile(path); err == nil {
		t.Error("LoadPreferencesFile() should reject unknown versions")
	}
}

func TestPreferences_DiscoverDurationFallback(t *testing.T) {
	p := &Preferences{DiscoverTimeout: -1}
	if p.DiscoverDuration() != 5*time.Second {
		t.Errorf("DiscoverDuration() = %v, want default", p.DiscoverDuration())
	}
}

func TestCredentialFile_LoadMissing(t *testing.T) {
	store := NewCredentialFile(filepath.Join(t.TempDir(), "credentials.yaml"))

	_, err := store.Load(context.Background())
	if !influx.IsNotFound(err) {
		t.Fatalf("Load() error = %v, want not found", err)
	}
	if got := influx.DetailOr(err, ""); got != "No credentials saved" {
		t.Errorf("detail = %q", got)
	}
}

func TestCredentialFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewCredentialFile(path)
	ctx := context.Background()

	in := influx.Credentials{URL: " http://influx:8086 ", Org: " acme ", Token: "secret-token"}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("credentials file mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := influx.Credentials{URL: "http://influx:8086", Org: "acme", Token: "secret-token"}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestCredentialFile_SaveRejectsIncomplete(t *testing.T) {
	store := NewCredentialFile(filepath.Join(t.TempDir(), "credentials.yaml"))

	err := store.Save(context.Background(), influx.Credentials{URL: "http://x", Org: "acme"})
	if influx.StatusCode(err) != 422 {
		t.Fatalf("Save() error = %v, want validation error", err)
	}
	if got := influx.DetailOr(err, ""); got != "token is required" {
		t.Errorf("detail = %q", got)
	}
	if _, err := store.Load(context.Background()); !influx.IsNotFound(err) {
		t.Error("a rejected save must not create the file")
	}
}

func TestCredentialFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("url: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewCredentialFile(path).Load(context.Background())
	if !influx.IsServiceError(err) {
		t.Fatalf("Load() error = %v, want service error", err)
	}
	if got := influx.DetailOr(err, ""); got != "Saved credentials file is corrupt" {
		t.Errorf("detail = %q", got)
	}
}

func TestCredentialFile_Clear(t *testing.T) {
	store := NewCredentialFile(filepath.Join(t.TempDir(), "credentials.yaml"))
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}
	if err := store.Save(ctx, influx.Credentials{URL: "http://x", Org: "o", Token: "t"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Load(ctx); !influx.IsNotFound(err) {
		t.Errorf("Load() after Clear error = %v, want not found", err)
	}
}

func TestCredentialFile_CancelledContext(t *testing.T) {
	store := NewCredentialFile(filepath.Join(t.TempDir(), "credentials.yaml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, influx.Credentials{URL: "http://x", Org: "o", Token: "t"}); !influx.IsTransportError(err) {
		t.Errorf("Save() error = %v, want transport error", err)
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}
