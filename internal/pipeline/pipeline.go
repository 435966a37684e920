package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/keyclip/keyclip/internal/domain/events"
	"github.com/keyclip/keyclip/internal/ports"
	"github.com/keyclip/keyclip/internal/ports/adapters/ffmpeg"
	"github.com/keyclip/keyclip/internal/ports/adapters/ytdlp"
	"github.com/keyclip/keyclip/internal/usecase"
)

type Config struct {
	// Source is a local video path, or a YouTube video id to fetch first.
	Source string
	// EventsPath is the JSON file holding the ordered key events produced
	// by the upstream analysis step.
	EventsPath string
	// Output is the final highlight video path.
	Output string

	// WorkRoot is the base directory for run-scoped scratch dirs.
	// If empty, defaults to ".cache".
	WorkRoot string

	// Workers bounds concurrent extractions; 0 or 1 is sequential.
	Workers int

	FFmpegPath string
	YtdlpPath  string

	// CommandTimeout bounds each external-process invocation; 0 = no limit.
	CommandTimeout time.Duration

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is empty")
	}
	if c.EventsPath == "" {
		return errors.New("events file is required")
	}
	if _, err := os.Stat(c.EventsPath); err != nil {
		return fmt.Errorf("stat events file: %w", err)
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	return nil
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Run wires the adapters, resolves the source video, and assembles the
// highlight. Each run gets a fresh scratch directory under WorkRoot, so
// concurrent runs never share artifact names.
func Run(ctx context.Context, cfg Config) (string, error) {
	log := cfg.Log

	b, err := os.ReadFile(cfg.EventsPath)
	if err != nil {
		return "", fmt.Errorf("read events file: %w", err)
	}
	evs, err := events.Parse(b)
	if err != nil {
		return "", fmt.Errorf("events file %s: %w", cfg.EventsPath, err)
	}
	log.Info().Int("events", len(evs)).Str("file", cfg.EventsPath).Msg("events loaded")

	workRoot := cfg.WorkRoot
	if workRoot == "" {
		workRoot = ".cache"
	}
	runDir := buildRunWorkDir(workRoot, cfg.Source, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	log.Info().Str("dir", runDir).Msg("run workspace ready")

	source := cfg.Source
	if _, statErr := os.Stat(source); statErr != nil {
		if !videoIDRe.MatchString(cfg.Source) {
			return "", fmt.Errorf("source video %s: %w", cfg.Source, statErr)
		}
		source, err = ytdlp.New(cfg.YtdlpPath).Fetch(ctx, cfg.Source, runDir)
		if err != nil {
			return "", err
		}
	}

	uc := usecase.New(usecase.Deps{
		Cutter:  ffmpeg.New(cfg.FFmpegPath, cfg.CommandTimeout),
		Workers: cfg.Workers,
		Log:     log,
	})

	out, err := uc.Build(ctx, usecase.Input{
		Source:  source,
		Events:  evs,
		Output:  cfg.Output,
		WorkDir: runDir,
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("output", out).Msg("highlight assembled")
	return out, nil
}

// buildRunWorkDir derives a directory exclusive to one run: normalized
// source name, UTC stamp, and a short hash over the invocation seed.
func buildRunWorkDir(workRoot, source string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name = normalizePathSegment(name)
	if name == "" {
		name = "source"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", source, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(workRoot, "runs", fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.Cutter = (*ffmpeg.Adapter)(nil)
var _ ports.Fetcher = (*ytdlp.Adapter)(nil)
