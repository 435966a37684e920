package usecase

import (
	"fmt"

	"github.com/keyclip/keyclip/internal/types"
)

// InvalidRangeError is an event whose end does not lie after its start. It
// is detected before any external process runs, so a run that fails with it
// created zero clips.
type InvalidRangeError struct {
	Index int
	Event types.KeyEvent
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("event %d (%q): end %.3fs is not after start %.3fs",
		e.Index, e.Event.Label, e.Event.EndSec, e.Event.StartSec)
}

// ExtractionError is a failed per-event extraction. The wrapped error
// carries the tool's captured standard error.
type ExtractionError struct {
	Index int
	Label string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract clip %d (%q): %v", e.Index, e.Label, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ManifestWriteError is a local I/O failure while writing the concat
// manifest.
type ManifestWriteError struct {
	Path string
	Err  error
}

func (e *ManifestWriteError) Error() string {
	return fmt.Sprintf("write manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestWriteError) Unwrap() error { return e.Err }

// MergeError is a failed concatenation. The wrapped error carries the
// tool's captured standard error.
type MergeError struct {
	Output string
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge clips into %s: %v", e.Output, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
