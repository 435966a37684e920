package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "keyclip <video-id-or-file>",
		Short:        "Assemble a highlight video from a source video and key events",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("events", "", "Key events JSON file from the analysis step (required)")
	root.Flags().String("out", "", "Output video path (default <source>_highlight.mp4)")
	root.Flags().String("config", "", "YAML config file")
	root.Flags().Int("workers", 0, "Concurrent clip extractions (overrides config)")
	root.Flags().Bool("verbose", false, "Debug logging")
	_ = root.MarkFlagRequired("events")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
