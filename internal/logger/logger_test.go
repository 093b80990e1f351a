package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("debug %d", 1)
			if got := strings.Contains(buf.String(), "debug 1"); got != tt.wantDebug {
				t.Fatalf("debug output=%v, want %v (buf=%q)", got, tt.wantDebug, buf.String())
			}

			buf.Reset()
			log.Info("info %s", "line")
			if got := strings.Contains(buf.String(), "info line"); got != tt.wantInfo {
				t.Fatalf("info output=%v, want %v (buf=%q)", got, tt.wantInfo, buf.String())
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)

	log.Error("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at LevelOff, got %q", buf.String())
	}

	log.SetLevel(LevelVerbose)
	if log.GetLevel() != LevelVerbose {
		t.Fatalf("expected verbose, got %s", log.GetLevel())
	}
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug output after SetLevel, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"off":      LevelOff,
		"quiet":    LevelOff,
		"normal":   LevelNormal,
		"":         LevelNormal,
		"VERBOSE":  LevelVerbose,
		"debug":    LevelVerbose,
		"nonsense": LevelNormal,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
