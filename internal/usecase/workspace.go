package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const manifestName = "concat_list.txt"

// workspace owns every intermediate artifact of one run: the extracted
// clips and the concat manifest. It never owns the working directory itself
// or the final output, and it is constructed fresh per run.
type workspace struct {
	dir string
	log zerolog.Logger

	mu    sync.Mutex
	owned []string
}

// newWorkspace refuses a directory that already holds clip or manifest
// residue: artifact names are ordinal, so two runs sharing a directory
// would corrupt each other. Exclusive ownership is a precondition, and it
// is checked rather than assumed.
func newWorkspace(dir string, log zerolog.Logger) (*workspace, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("working directory %s is not a directory", dir)
	}

	residue, err := filepath.Glob(filepath.Join(dir, "clip_*"))
	if err != nil {
		return nil, fmt.Errorf("scan working directory: %w", err)
	}
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err == nil {
		residue = append(residue, manifestName)
	}
	if len(residue) > 0 {
		return nil, fmt.Errorf("working directory %s holds artifacts from another run: %v", dir, residue)
	}

	return &workspace{dir: dir, log: log}, nil
}

func (w *workspace) manifestPath() string {
	return filepath.Join(w.dir, manifestName)
}

// track registers a path for deletion on release. Paths are tracked before
// the file is created so a half-written artifact is still cleaned up.
func (w *workspace) track(path string) {
	w.mu.Lock()
	w.owned = append(w.owned, path)
	w.mu.Unlock()
}

// release deletes every owned artifact. It runs on every exit path of the
// run. Deletion failures are warnings: they never mask the run's primary
// error, and a file that is already gone is not worth a warning.
func (w *workspace) release() {
	w.mu.Lock()
	owned := w.owned
	w.owned = nil
	w.mu.Unlock()

	for _, path := range owned {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.log.Warn().Str("path", path).Err(err).Msg("cleanup failed")
		}
	}
}
