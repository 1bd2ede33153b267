package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(LevelEnv, "")
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", logger.Formatter)
	}
}

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "debug")

	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	logger, err = New(Config{Level: "warn"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("environment level should win, got %s", logger.GetLevel())
	}
}

func TestNew_JSONComponent(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	Component(logger, "search").WithField("entity", "crm.company").Debug("lookup")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "search" || entry["entity"] != "crm.company" || entry["msg"] != "lookup" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected error naming the format, got %v", err)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Warn("dropped")
}
