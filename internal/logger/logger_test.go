package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{`"level":"ERROR"`},
			excluded: []string{`"level":"WARN"`, `"level":"INFO"`, `"level":"DEBUG"`},
		},
		{
			level:    "warn",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`},
			excluded: []string{`"level":"INFO"`, `"level":"DEBUG"`},
		},
		{
			level:    "info",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`, `"level":"INFO"`},
			excluded: []string{`"level":"DEBUG"`},
		},
		{
			level:    "debug",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`, `"level":"INFO"`, `"level":"DEBUG"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Log.Debug("debug message")
			Log.Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)
			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	if err := InitWithFileConfig("verbose", FileConfig{}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDiagnosticSink(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("warn", FileConfig{}, &buf); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	sink := DiagnosticSink("cube.glb")
	sink("vertex 3 is a bowtie (2 fans)")
	Sync()

	out := buf.String()
	if !strings.Contains(out, "vertex 3 is a bowtie") {
		t.Errorf("diagnostic missing from output: %q", out)
	}
	if !strings.Contains(out, "cube.glb") {
		t.Errorf("source missing from output: %q", out)
	}
	if !strings.Contains(out, "validate") {
		t.Errorf("logger name missing from output: %q", out)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/uvatlas.log")

	if cfg.Path != "/tmp/uvatlas.log" {
		t.Errorf("expected path /tmp/uvatlas.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
