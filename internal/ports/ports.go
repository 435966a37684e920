package ports

import "context"

// Cutter is the external media tool boundary. Both operations are opaque
// subprocess invocations: exit 0 is success, anything else surfaces the
// captured standard error.
type Cutter interface {
	// ExtractClip stream-copies [startSec, startSec+durationSec) of source
	// into outPath, overwriting it if present.
	ExtractClip(ctx context.Context, source string, startSec, durationSec float64, outPath string) error
	// Concat losslessly joins the clips listed in manifestPath into outPath,
	// overwriting it if present.
	Concat(ctx context.Context, manifestPath, outPath string) error
}

// Fetcher retrieves a source video by identifier into destDir and returns
// the local file path. No retry is attempted on failure.
type Fetcher interface {
	Fetch(ctx context.Context, videoID, destDir string) (string, error)
}
