package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "ucmtool.log")

	// 1MB is the smallest size lumberjack accepts.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}

	if err := Setup("debug", cfg, nil); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	defer Sync()

	payload := strings.Repeat("v", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infow("decoded frame", "frame", i, "payload", payload)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "ucmtool.log" || !strings.HasPrefix(name, "ucmtool") {
			continue
		}
		rotated++
		// lumberjack names backups ucmtool-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"DEBUG", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			if err := Setup(tt.level, DefaultFileConfig(logFile), nil); err != nil {
				t.Fatalf("failed to set up logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(out, `"level":"`+exp+`"`) {
					t.Errorf("expected %s entry in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, `"level":"`+exc+`"`) {
					t.Errorf("unexpected %s entry for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestFileEntriesAreJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "json.log")

	if err := Setup("info", DefaultFileConfig(logFile), nil); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	Named("codec").Info("parsed model", zap.String("name", "crate"), zap.Int("frames", 3))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v\n%s", err, content)
	}
	if entry["logger"] != "codec" {
		t.Errorf("expected logger name 'codec', got %v", entry["logger"])
	}
	if entry["name"] != "crate" {
		t.Errorf("expected name field 'crate', got %v", entry["name"])
	}
	if entry["frames"] != float64(3) {
		t.Errorf("expected frames field 3, got %v", entry["frames"])
	}
	if caller, _ := entry["caller"].(string); !strings.HasPrefix(caller, "logger/logger_test.go") {
		t.Errorf("expected caller in logger_test.go, got %q", caller)
	}
}

func TestHelperCallerSkip(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "caller.log")

	if err := Setup("info", DefaultFileConfig(logFile), nil); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	Info("from helper")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go") {
		t.Errorf("expected helper entries to report the calling file, got %s", content)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer

	if err := Setup("info", FileConfig{}, &buf); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	Info("wrote model", zap.String("path", "out.ucm"))
	Debug("hidden")
	Sync()

	out := buf.String()
	if !strings.Contains(out, "wrote model") || !strings.Contains(out, "out.ucm") {
		t.Errorf("expected message and field in console output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"Warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if err := Setup("verbose", FileConfig{}, nil); err == nil {
		t.Error("expected Setup to reject an unknown level")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/ucmtool.log")

	if cfg.Path != "/tmp/ucmtool.log" {
		t.Errorf("expected path /tmp/ucmtool.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 30 {
		t.Errorf("expected MaxAgeDays 30, got %d", cfg.MaxAgeDays)
	}
	if cfg.Compress {
		t.Error("expected Compress to be false")
	}
}
