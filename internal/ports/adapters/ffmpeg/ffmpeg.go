package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keyclip/keyclip/internal/logging"
)

// Adapter runs ffmpeg as an opaque subprocess. Every invocation is bounded
// by timeout when one is configured; 0 means no limit.
type Adapter struct {
	ffmpeg  string
	timeout time.Duration
	log     zerolog.Logger
}

func New(ffmpegPath string, timeout time.Duration) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		timeout: timeout,
		log:     logging.WithComponent("ffmpeg"),
	}
}

// ExecError is a nonzero exit from the tool, with the standard error it
// printed. Callers unwrap to the underlying exec error.
type ExecError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExtractClip stream-copies one sub-clip out of source, seeking before the
// input is opened. Seeking this way snaps to the nearest preceding keyframe
// of ffmpeg's choosing, so clip boundaries may land slightly earlier than
// requested; that imprecision is the accepted cost of skipping a re-encode.
func (a *Adapter) ExtractClip(ctx context.Context, source string, startSec, durationSec float64, outPath string) error {
	return a.run(ctx,
		"-y",
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmtSeconds(startSec),
		"-i", source,
		"-t", fmtSeconds(durationSec),
		"-c", "copy",
		outPath,
	)
}

// Concat joins the files listed in manifestPath with the concat demuxer.
// The manifest carries absolute paths, which requires -safe 0.
func (a *Adapter) Concat(ctx context.Context, manifestPath, outPath string) error {
	return a.run(ctx,
		"-y",
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		outPath,
	)
}

func (a *Adapter) run(ctx context.Context, args ...string) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	a.log.Debug().Strs("args", args).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ExecError{
			Name:   a.ffmpeg,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
