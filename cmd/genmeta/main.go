// Command genmeta inspects, extracts, and strips embedded generation
// metadata in PNG, WebP, and MP4 files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "genmeta",
	Short: "Inspect and strip embedded generation metadata in media files",
	Long: `genmeta reads the metadata that image and video generators embed in
their outputs: PNG tEXt chunks, WebP EXIF tags, and MP4 comment atoms.

It can list raw metadata entries, normalize workflow dumps into generation
parameters (steps, cfg, seed, prompts, ...), rewrite files with metadata
removed, and watch a directory for new outputs.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
