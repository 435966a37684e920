package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keyclip/keyclip/internal/types"
)

// writeManifest writes the concat demuxer's file list: one
// "file '<absolute-path>'" line per clip, in the given order, never
// reordered. Paths containing a single quote are out of scope.
func writeManifest(clips []types.ClipArtifact, path string) error {
	var b strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return &ManifestWriteError{Path: path, Err: err}
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &ManifestWriteError{Path: path, Err: err}
	}
	return nil
}
