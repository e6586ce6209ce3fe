package logs_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/takoeight0821/loxfront/logs"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	file := filepath.Join(t.TempDir(), "loxfront.log")
	logger, err := logs.New(logs.Options{
		Level:  slog.LevelInfo,
		Writer: &b,
		File:   file,
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("test", "hello", "world!")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(b.String(), "hidden") {
		t.Errorf("debug record was written at info level:\n%s", b.String())
	}
	if !strings.Contains(b.String(), "msg=test hello=world!") {
		t.Errorf("text output = %q", b.String())
	}

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file is not one JSON record: %v\n%s", err, content)
	}
	if record["msg"] != "test" || record["hello"] != "world!" {
		t.Errorf("record = %v", record)
	}
}

func TestLoggerBadFile(t *testing.T) {
	t.Parallel()

	_, err := logs.New(logs.Options{File: filepath.Join(t.TempDir(), "missing", "loxfront.log")})
	if err == nil {
		t.Error("New succeeded with a log file in a missing directory")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := logs.Discard()
	logger.Error("dropped")
	if err := logger.Close(); err != nil {
		t.Error(err)
	}
}
