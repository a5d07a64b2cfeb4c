package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		SetLogLevel(strings.ToLower(savedLevel.String()))
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("info")

	msg := `search field="Overall Status" query="100%" hits=3`
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, `query="100%"`) {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") || strings.Contains(out, "NOVERB") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
	if !strings.HasPrefix(out, "[INFO] ") {
		t.Fatalf("expected INFO prefix, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	if !SetLogLevel("WARN") {
		t.Fatalf("WARN should be accepted")
	}
	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("lines below warn leaked: %s", out)
	}
	if strings.Count(out, "shown") != 2 {
		t.Fatalf("expected two lines, got: %s", out)
	}
	if SetLogLevel("verbose") {
		t.Fatalf("unknown level should be rejected")
	}
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level must not change current level, got %s", GetLogLevel())
	}
}

func TestSetOutput(t *testing.T) {
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = log.New(saved.Writer(), "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		SetLogLevel(strings.ToLower(savedLevel.String()))
	})
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLogLevel("info")
	Infof("wrote %s", "company_bar.png")
	if got := buf.String(); got != "[INFO] wrote company_bar.png\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
