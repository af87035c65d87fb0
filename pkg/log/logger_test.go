package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	logger.Info("should be dropped")
	logger.Warn("should be kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "should be kept") {
		t.Fatalf("warn missing: %q", out)
	}
}

func TestJSONFormatterFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithFormatter(&JSONFormatter{}), WithOutput(NewWriterOutput(&buf)))
	logger.Info("appended", Str("name", "orders.wal"), Int("bytes", 42))
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if m["msg"] != "appended" {
		t.Fatalf("msg: %v", m["msg"])
	}
	if m["name"] != "orders.wal" {
		t.Fatalf("name field: %v", m["name"])
	}
	if m["level"] != "INFO" {
		t.Fatalf("level: %v", m["level"])
	}
}

func TestWithComponentCarriesField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	logger.WithComponent("replay").Warn("record failed")
	if !strings.Contains(buf.String(), "component=replay") {
		t.Fatalf("component field missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": DebugLevel, "info": InfoLevel, "WARN": WarnLevel, "error": ErrorLevel, "": InfoLevel}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %v want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestApplyConfig(t *testing.T) {
	logger, err := ApplyConfig(&Config{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if logger.GetLevel() != DebugLevel {
		t.Fatalf("level: %v", logger.GetLevel())
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
