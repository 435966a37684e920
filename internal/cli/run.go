package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyclip/keyclip/internal/config"
	"github.com/keyclip/keyclip/internal/logging"
	"github.com/keyclip/keyclip/internal/pipeline"
)

func run(cmd *cobra.Command, source string) error {
	eventsPath, _ := cmd.Flags().GetString("events")
	out, _ := cmd.Flags().GetString("out")
	cfgPath, _ := cmd.Flags().GetString("config")
	workers, _ := cmd.Flags().GetInt("workers")
	verbose, _ := cmd.Flags().GetBool("verbose")

	fileCfg := config.Default()
	if cfgPath != "" {
		var err error
		fileCfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	level := fileCfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logging.Init(level)

	if out == "" {
		out = defaultOutputPath(source)
	}
	if workers == 0 {
		workers = fileCfg.Performance.ExtractWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Source:         source,
		EventsPath:     eventsPath,
		Output:         out,
		WorkRoot:       fileCfg.Paths.WorkRoot,
		Workers:        workers,
		FFmpegPath:     getenvDefault("KEYCLIP_FFMPEG", fileCfg.FFmpeg.BinaryPath),
		YtdlpPath:      getenvDefault("KEYCLIP_YTDLP", fileCfg.Ytdlp.BinaryPath),
		CommandTimeout: fileCfg.CommandTimeout(),
		Log:            logging.WithComponent("pipeline"),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	outPath, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}

func defaultOutputPath(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return base + "_highlight.mp4"
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
