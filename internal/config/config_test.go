package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate keeps the user's real config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DIGEST_CONFIG_PATH", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("DIGEST_LIBRARY", "/srv/books")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Library != "/srv/books" || cfg.Origin() != "/srv/books" {
		t.Errorf("library = %q", cfg.Library)
	}
	if cfg.ExpandLevel != 1 || cfg.Overlap != 2 || cfg.NarrowWidth != 100 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Logging.FileLogger.Level != "none" || cfg.Logging.ConsoleLogger.Level != "none" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `server: http://digest.local:8080
expand_level: 2
timeout: 5s
log:
  level: debug
  mode: overwrite
`
	if err := os.WriteFile(filepath.Join(dir, ".digest.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DIGEST_EXPAND_LEVEL", "0")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "http://digest.local:8080" {
		t.Errorf("server = %q", cfg.Server)
	}
	if cfg.ExpandLevel != 0 {
		t.Errorf("environment must override file: expand_level = %d", cfg.ExpandLevel)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Logging.FileLogger.Level != "debug" || cfg.Logging.FileLogger.Mode != "overwrite" {
		t.Errorf("logging = %+v", cfg.Logging.FileLogger)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no source", nil, "required"},
		{"both sources", map[string]string{"DIGEST_SERVER": "http://x", "DIGEST_LIBRARY": "/x"}, "mutually exclusive"},
		{"bad level", map[string]string{"DIGEST_LIBRARY": "/x", "DIGEST_EXPAND_LEVEL": "3"}, "expand_level"},
		{"zero timeout", map[string]string{"DIGEST_LIBRARY": "/x", "DIGEST_TIMEOUT": "0s"}, "timeout must be positive"},
		{"negative timeout", map[string]string{"DIGEST_LIBRARY": "/x", "DIGEST_TIMEOUT": "-5s"}, "timeout must be positive"},
		{"bad log level", map[string]string{"DIGEST_LIBRARY": "/x", "DIGEST_LOG_LEVEL": "loud"}, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(NewViper())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestPrepareFileLogger(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "digest.log")
	conf := LoggingConfig{
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	log.Debug("hidden")
	log.Info("visible")
	log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "visible") || strings.Contains(string(data), "hidden") {
		t.Errorf("log file = %q", data)
	}
}

func TestPrepareNone(t *testing.T) {
	conf := LoggingConfig{}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("no logger requested, debug must be disabled")
	}
}
