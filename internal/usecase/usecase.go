// Package usecase assembles a highlight video: it extracts one lossless
// sub-clip per key event, lists the clips in a concat manifest, and merges
// them into the final output. Every intermediate artifact lives in a
// run-exclusive workspace and is deleted on every exit path; the final
// output is the only artifact that outlives the run.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keyclip/keyclip/internal/ports"
	"github.com/keyclip/keyclip/internal/types"
)

type Deps struct {
	Cutter ports.Cutter

	// Workers bounds concurrent extractions. 0 or 1 keeps the baseline
	// sequential behavior; higher values run data-independent extractions
	// in parallel while the manifest still reflects input order.
	Workers int

	Log zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Workers < 1 {
		d.Workers = 1
	}
	return Usecase{d: d}
}

type Input struct {
	Source  string           // local source video path
	Events  []types.KeyEvent // importance order, preserved end to end
	Output  string           // final merged video path
	WorkDir string           // scratch directory exclusive to this run
}

// Build runs the full pipeline. It returns in.Output only if every
// extraction, the manifest write, and the merge all succeeded; otherwise it
// propagates the first error encountered, after cleanup. No partial output
// survives a failed run.
func (u Usecase) Build(ctx context.Context, in Input) (string, error) {
	if len(in.Events) == 0 {
		return "", errors.New("no events to extract")
	}

	// All ranges are checked before any external process runs: an invalid
	// event aborts the run with zero clips created.
	for i, ev := range in.Events {
		if ev.DurationSec() <= 0 {
			return "", &InvalidRangeError{Index: i, Event: ev}
		}
	}

	ws, err := newWorkspace(in.WorkDir, u.d.Log)
	if err != nil {
		return "", err
	}
	defer ws.release()

	clips, err := u.extractAll(ctx, ws, in)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	manifest := ws.manifestPath()
	ws.track(manifest)
	if err := writeManifest(clips, manifest); err != nil {
		return "", err
	}

	u.d.Log.Info().Int("clips", len(clips)).Str("output", in.Output).Msg("merging clips")
	if err := u.d.Cutter.Concat(ctx, manifest, in.Output); err != nil {
		// The demuxer may have left a partial file behind; remove it so a
		// failed run produces no output at all.
		if rmErr := os.Remove(in.Output); rmErr != nil && !os.IsNotExist(rmErr) {
			u.d.Log.Warn().Str("path", in.Output).Err(rmErr).Msg("cleanup of partial output failed")
		}
		return "", &MergeError{Output: in.Output, Err: err}
	}

	return in.Output, nil
}

func (u Usecase) extractAll(ctx context.Context, ws *workspace, in Input) ([]types.ClipArtifact, error) {
	if u.d.Workers > 1 {
		return u.extractParallel(ctx, ws, in)
	}
	return u.extractSequential(ctx, ws, in)
}

func (u Usecase) extractSequential(ctx context.Context, ws *workspace, in Input) ([]types.ClipArtifact, error) {
	clips := make([]types.ClipArtifact, len(in.Events))
	for i, ev := range in.Events {
		// Cancellation is cooperative: checked before each extraction, not
		// mid-invocation, since the external process is not preemptible.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clip, err := u.extractOne(ctx, ws, in, i, ev)
		if err != nil {
			return nil, err
		}
		clips[i] = clip
	}
	return clips, nil
}

func (u Usecase) extractParallel(ctx context.Context, ws *workspace, in Input) ([]types.ClipArtifact, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clips := make([]types.ClipArtifact, len(in.Events))
	errs := make([]error, len(in.Events))
	sem := newSemaphore(u.d.Workers)

	var wg sync.WaitGroup
	for i, ev := range in.Events {
		if err := sem.acquire(ctx); err != nil {
			break // a worker failed or the caller canceled; start nothing new
		}
		wg.Add(1)
		go func(i int, ev types.KeyEvent) {
			defer wg.Done()
			defer sem.release()
			clip, err := u.extractOne(ctx, ws, in, i, ev)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			clips[i] = clip
		}(i, ev)
	}
	wg.Wait()

	// Report the lowest-index failure so the caller sees the same error the
	// sequential path would have produced.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clips, nil
}

func (u Usecase) extractOne(ctx context.Context, ws *workspace, in Input, i int, ev types.KeyEvent) (types.ClipArtifact, error) {
	outPath := filepath.Join(in.WorkDir, fmt.Sprintf("clip_%d%s", i, clipExt(in.Source)))
	ws.track(outPath)

	u.d.Log.Debug().
		Int("index", i).
		Str("label", ev.Label).
		Float64("start_sec", ev.StartSec).
		Float64("duration_sec", ev.DurationSec()).
		Msg("extracting clip")

	if err := u.d.Cutter.ExtractClip(ctx, in.Source, ev.StartSec, ev.DurationSec(), outPath); err != nil {
		return types.ClipArtifact{}, &ExtractionError{Index: i, Label: ev.Label, Err: err}
	}
	return types.ClipArtifact{Index: i, Path: outPath}, nil
}

// clipExt keeps the source container for stream-copied clips.
func clipExt(source string) string {
	if ext := filepath.Ext(source); ext != "" {
		return ext
	}
	return ".mp4"
}
