// Package main provides the entry point for the sortdojo TUI.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sortdojo/internal/app"
	"sortdojo/internal/engine"
)

func main() {
	cfg := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sortdojo",
		Short: "Sortdojo - animated sorting algorithm trainer for the terminal",
		Long: `Sortdojo animates bubble, insertion, merge, and quick sort one atomic
step at a time. Play, pause, single-step, change speed, and turn on
teaching mode to get quizzed while quicksort partitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}

	rootCmd.Flags().StringVarP(&cfg.Algorithm, "algorithm", "a", "", "start directly in the visualizer ("+kindList()+")")
	rootCmd.Flags().IntVarP(&cfg.Count, "count", "n", cfg.Count, "number of elements to sort")
	rootCmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "seed for the input shuffle and quiz order (0 = random)")
	rootCmd.Flags().BoolVar(&cfg.Teaching, "teaching", false, "start with teaching mode on")
	rootCmd.Flags().StringVar(&cfg.QuizFile, "quiz-file", "", "YAML quiz bank overriding the built-in questions")
	rootCmd.Flags().BoolVar(&cfg.ASCIIOnly, "ascii", false, "ASCII-only rendering (no block glyphs)")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", false, "verbose logging")
	rootCmd.Flags().StringVar(&cfg.DataDir, "data-dir", "", "state directory (default ~/.local/share/sortdojo)")
	rootCmd.Flags().StringVar(&cfg.LogPath, "log", "", "JSON log file (default: logging disabled)")
	rootCmd.Flags().StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "theme: modern_arcade, cozy_clean, retro_terminal")
	rootCmd.Flags().StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "overlay animation: off, reduced, full")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func kindList() string {
	kinds := engine.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
