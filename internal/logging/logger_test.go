package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestRedactToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "empty", token: "", want: ""},
		{name: "short token fully masked", token: "abc", want: "***"},
		{name: "exactly prefix length", token: "abcdef", want: "******"},
		{name: "long token keeps prefix", token: "abcdefghijkl", want: "abcdef…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactToken(tt.token); got != tt.want {
				t.Errorf("RedactToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}

	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigure_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Configure(Options{}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestConfigure_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxvision.log")

	if err := Configure(Options{Level: "debug", OutputPath: path}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(func() { _ = Configure(Options{Level: ""}) })

	Info("hello from test", TokenField("supersecrettoken"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "hello from test") {
		t.Errorf("log file missing message, got %q", out)
	}
	if strings.Contains(out, "supersecrettoken") {
		t.Error("log file must not contain the full token")
	}
}
