package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BDiopXV/genmeta/internal/gallery"
)

var watchCmd = &cobra.Command{
	Use:   "watch {directory}",
	Short: "Watch a directory and report metadata for new media files",
	Long: `Scan a directory tree for PNG, WebP, and MP4 files, then keep
watching it. Each discovered file is printed with its parsed generation
parameters. Runs until interrupted.

Examples:
  genmeta watch ~/comfyui/output
  genmeta watch --verbose ./outputs`,
	Args: cobra.ExactArgs(1),
	RunE: doWatch,
}

var flagWatchVerbose bool

func init() {
	watchCmd.Flags().BoolVarP(&flagWatchVerbose, "verbose", "v", false, "Log scanner activity")
	rootCmd.AddCommand(watchCmd)
}

func doWatch(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if flagWatchVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := gallery.NewScanner(args[0], log)
	items, err := scanner.Run(ctx)
	if err != nil {
		return err
	}

	for item := range items {
		line := fmt.Sprintf("%s  %s", item.Meta.Format, item.Path)
		if p := item.Meta.Parameters; p != nil && p.Seed != nil {
			line += fmt.Sprintf("  seed=%d", *p.Seed)
		}
		fmt.Println(line)
	}
	return nil
}
