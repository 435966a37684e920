package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/keyclip/keyclip/internal/logging"
)

// Format prefers a clean mp4 mux so downstream stream-copy extraction works
// without a remux step.
const downloadFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

type Adapter struct {
	bin string
	log zerolog.Logger
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath, log: logging.WithComponent("ytdlp")}
}

// Fetch downloads the video into destDir and returns its local path. A
// failed download is returned as-is; callers treat it as a precondition
// failure and do not retry.
func (a *Adapter) Fetch(ctx context.Context, videoID, destDir string) (string, error) {
	outPath := filepath.Join(destDir, videoID+".mp4")

	a.log.Info().Str("video_id", videoID).Str("dest", outPath).Msg("downloading source video")

	cmd := exec.CommandContext(ctx, a.bin,
		"--format", downloadFormat,
		"--output", outPath,
		"--quiet",
		"--no-warnings",
		"https://www.youtube.com/watch?v="+videoID,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download %s: %w\n%s", videoID, err, string(b))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("yt-dlp reported success but produced no file: %w", err)
	}
	return outPath, nil
}
