//go:build integration

package itest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/keyclip/keyclip/internal/pipeline"
)

// makeFixture renders a 60s test video. Frequent keyframes (-g 30) keep
// stream-copied clip boundaries close to the requested times.
func makeFixture(t *testing.T, dir string) string {
	t.Helper()
	in := filepath.Join(dir, "input.mp4")
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "testsrc=size=640x360:rate=30:duration=60",
		"-f", "lavfi",
		"-i", "sine=frequency=440:duration=60",
		"-c:v", "libx264",
		"-g", "30",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		in,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return in
}

func assertNoRunResidue(t *testing.T, workRoot string) {
	t.Helper()
	runsDir := filepath.Join(workRoot, "runs")
	runs, err := os.ReadDir(runsDir)
	if err != nil {
		t.Fatalf("read runs dir: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run dir, got %d", len(runs))
	}
	entries, err := os.ReadDir(filepath.Join(runsDir, runs[0].Name()))
	if err != nil {
		t.Fatalf("read run dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "clip_") || e.Name() == "concat_list.txt" {
			t.Fatalf("residual artifact after run: %s", e.Name())
		}
	}
}

func TestE2E_BuildHighlight(t *testing.T) {
	tmp := t.TempDir()
	in := makeFixture(t, tmp)

	eventsPath := filepath.Join(tmp, "events.json")
	events := `[
		{"start_time": 10, "end_time": 15, "label": "intro"},
		{"start_time": 40, "end_time": 52, "label": "climax"}
	]`
	if err := os.WriteFile(eventsPath, []byte(events), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}

	out := filepath.Join(tmp, "highlight.mp4")
	workRoot := filepath.Join(tmp, "cache")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	got, err := pipeline.Run(ctx, pipeline.Config{
		Source:         in,
		EventsPath:     eventsPath,
		Output:         out,
		WorkRoot:       workRoot,
		FFmpegPath:     "ffmpeg",
		CommandTimeout: time.Minute,
		Log:            zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if got != out {
		t.Fatalf("returned path %q, want %q", got, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("missing output: %v", err)
	}

	// 5s + 12s of requested material; keyframe snapping shifts boundaries a
	// little, never by much with a 1s GOP.
	dur, err := probeDurationSeconds(out)
	if err != nil {
		t.Fatalf("probe output: %v", err)
	}
	if dur < 14 || dur > 21 {
		t.Fatalf("merged duration = %.2fs, want ~17s", dur)
	}

	assertNoRunResidue(t, workRoot)
}

func TestE2E_CorruptSourceFailsCleanly(t *testing.T) {
	tmp := t.TempDir()

	in := filepath.Join(tmp, "broken.mp4")
	if err := os.WriteFile(in, []byte("not a video"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	eventsPath := filepath.Join(tmp, "events.json")
	if err := os.WriteFile(eventsPath, []byte(`[{"start_time": 0, "end_time": 5, "label": "x"}]`), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}
	out := filepath.Join(tmp, "highlight.mp4")
	workRoot := filepath.Join(tmp, "cache")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := pipeline.Run(ctx, pipeline.Config{
		Source:     in,
		EventsPath: eventsPath,
		Output:     out,
		WorkRoot:   workRoot,
		FFmpegPath: "ffmpeg",
		Log:        zerolog.Nop(),
	})
	if err == nil {
		t.Fatalf("expected extraction failure for corrupt source")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("output exists after failed run, stat err=%v", statErr)
	}
	assertNoRunResidue(t, workRoot)
}
