package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildRunWorkDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunWorkDir(".cache", "/tmp/My Cool.Video.mp4", now)
	if filepath.Dir(got) != filepath.Join(".cache", "runs") {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	base := filepath.Base(got)
	if !strings.HasPrefix(base, "my-cool-video-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-cool-video-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestBuildRunWorkDir_DistinctPerRun(t *testing.T) {
	a := buildRunWorkDir(".cache", "video.mp4", time.Now().UTC())
	b := buildRunWorkDir(".cache", "video.mp4", time.Now().UTC().Add(time.Nanosecond))
	if a == b {
		t.Fatalf("two runs derived the same workspace: %s", a)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tmp := t.TempDir()
	eventsPath := filepath.Join(tmp, "events.json")
	if err := os.WriteFile(eventsPath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write events fixture: %v", err)
	}

	valid := Config{
		Source:     "dQw4w9WgXcQ",
		EventsPath: eventsPath,
		Output:     filepath.Join(tmp, "out.mp4"),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty source", mutate: func(c *Config) { c.Source = "" }},
		{name: "missing events path", mutate: func(c *Config) { c.EventsPath = "" }},
		{name: "nonexistent events file", mutate: func(c *Config) { c.EventsPath = filepath.Join(tmp, "nope.json") }},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestVideoIDPattern(t *testing.T) {
	if !videoIDRe.MatchString("dQw4w9WgXcQ") {
		t.Fatalf("canonical 11-char id rejected")
	}
	for _, s := range []string{"", "short", "way-too-long-for-an-id", "has space x", "bad/char set"} {
		if videoIDRe.MatchString(s) {
			t.Fatalf("%q accepted as video id", s)
		}
	}
}
