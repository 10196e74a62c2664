package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurel42/zonepoi/pkg/config"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")

	cfg := &config.LogConfig{
		Server: config.LogSettings{
			Path:  serverLog,
			Level: "DEBUG",
		},
		Requests: config.LogSettings{
			Path:  requestLog,
			Level: "INFO",
		},
	}

	// Run Init
	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	// Verify Files Created
	if _, err := os.Stat(serverLog); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}
	if _, err := os.Stat(requestLog); os.IsNotExist(err) {
		t.Error("Request log file not created")
	}

	// Verify RequestLogger is set
	if RequestLogger == nil {
		t.Error("RequestLogger was not initialized")
	}
}

func TestSetupHandler_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"DEBUG", true},
		{"INFO", false},
		{"bogus", false}, // unknown levels fall back to INFO
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h, f, err := setupHandler(filepath.Join(t.TempDir(), "x.log"), tt.level, false)
			if err != nil {
				t.Fatalf("setupHandler failed: %v", err)
			}
			defer f.Close()
			if got := h.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Enabled(Debug) = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
