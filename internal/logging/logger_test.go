package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	logger, err := New(&Config{Level: "info", Format: "console"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if logger == nil {
		t.Fatal("Expected logger to be non-nil")
	}
}

func TestNewLoggerWithInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "chatty", Format: "console"})
	if err == nil {
		t.Fatal("Expected error for invalid log level")
	}

	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("Expected 'invalid log level' error, got: %v", err)
	}
}

func TestNewLoggerWithInvalidFormat(t *testing.T) {
	_, err := New(&Config{Level: "info", Format: "xml"})
	if err == nil {
		t.Fatal("Expected error for invalid log format")
	}

	if !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("Expected 'invalid log format' error, got: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Expected log level 'info', got %s", config.Level)
	}

	if config.Format != "console" {
		t.Errorf("Expected log format 'console', got %s", config.Format)
	}

	if config.File != "" {
		t.Errorf("Expected no log file, got %s", config.File)
	}

	if config.MaxSizeMB != 100 {
		t.Errorf("Expected max size 100, got %d", config.MaxSizeMB)
	}

	if config.MaxBackups != 3 {
		t.Errorf("Expected max backups 3, got %d", config.MaxBackups)
	}
}

func TestNewLoggerNilConfigUsesDefaults(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if logger == nil {
		t.Fatal("Expected logger to be non-nil")
	}
}

func TestFileOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "anomstream.log")

	logger, err := New(&Config{
		Level:      "debug",
		Format:     "console",
		File:       logPath,
		MaxSizeMB:  10,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("scoring started", zap.String("stream", "cpu/host1.csv"))
	logger.Debug("window filled", zap.Int("size", 10))

	// Verify log file was created
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("Log file was not created")
	}

	// Read and verify log content
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)
	if !strings.Contains(logContent, "scoring started") {
		t.Error("Log does not contain info message")
	}

	if !strings.Contains(logContent, "cpu/host1.csv") {
		t.Error("Log does not contain stream field")
	}

	if !strings.Contains(logContent, "window filled") {
		t.Error("Log does not contain debug message")
	}

	// File output is JSON
	if !strings.Contains(logContent, `"level":"info"`) {
		t.Error("Log file is not JSON encoded")
	}
}

func TestFileOutputRespectsLevel(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "anomstream.log")

	logger, err := New(&Config{
		Level:  "warn",
		Format: "console",
		File:   logPath,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)
	if strings.Contains(logContent, "should be dropped") {
		t.Error("Info message was logged despite warn level")
	}

	if !strings.Contains(logContent, "should be kept") {
		t.Error("Warn message was not logged")
	}
}
