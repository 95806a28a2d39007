package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{in: "", want: ColorAuto},
		{in: "auto", want: ColorAuto},
		{in: "always", want: ColorAlways},
		{in: "never", want: ColorNever},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColorMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseColorMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoggerWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)
	l.Info("ok %d\n", 1)
	l.Warn("careful\n")
	l.Debug("hidden\n")

	got := buf.String()
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("expected no ANSI sequences, got %q", got)
	}
	if got != "ok 1\ncareful\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestLoggerWithColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true, true)
	l.Error("bad\n")
	l.Debug("trace\n")

	got := buf.String()
	if !strings.Contains(got, "\x1b[31m") {
		t.Fatalf("expected red sequence in %q", got)
	}
	if !strings.Contains(got, "trace") {
		t.Fatalf("expected debug output in %q", got)
	}
}

func TestShouldColorForcedModes(t *testing.T) {
	if !ShouldColor(ColorAlways, nil) {
		t.Fatal("always must color")
	}
	if ShouldColor(ColorNever, nil) {
		t.Fatal("never must not color")
	}
	if ShouldColor(ColorAuto, nil) {
		t.Fatal("auto without a file must not color")
	}
}
