package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/BDiopXV/genmeta"
)

var stripCmd = &cobra.Command{
	Use:   "strip {filename}",
	Short: "Rewrite a file with embedded metadata removed",
	Long: `Rewrite a PNG or WebP file with embedded metadata removed.

PNG files are rebuilt from signature, header, and image data only; every
ancillary chunk is dropped. WebP files keep their EXIF directory but have
the metadata-bearing string tags blanked.

The output is written atomically: readers never observe a half-written
file. By default the input is replaced in place; use --output to write
elsewhere.

Examples:
  genmeta strip output.png
  genmeta strip output.png -o clean.png`,
	Args: cobra.ExactArgs(1),
	RunE: doStrip,
}

var flagStripOutput string

func init() {
	stripCmd.Flags().StringVarP(&flagStripOutput, "output", "o", "", "Output file path (default: replace input)")
	rootCmd.AddCommand(stripCmd)
}

func doStrip(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := flagStripOutput
	if out == "" {
		out = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	format, err := genmeta.DetectFormat(bytes.NewReader(data), int64(len(data)), path)
	if err != nil {
		return err
	}

	var stripped []byte
	switch format {
	case genmeta.FormatPNG:
		stripped, err = genmeta.BuildStrippedPNGBytes(data)
		if err != nil {
			return err
		}
	case genmeta.FormatWebP:
		stripped = genmeta.RewriteWebpExif(data, map[uint16]string{
			genmeta.TagImageDescription: "",
			genmeta.TagUserComment:      "",
		})
		if len(stripped) == 0 {
			// No EXIF chunk means nothing to strip.
			fmt.Printf("%s: no EXIF metadata, left unchanged\n", path)
			return nil
		}
	default:
		return fmt.Errorf("strip does not support %s files", strings.ToLower(format.String()))
	}

	if err := atomic.WriteFile(out, bytes.NewReader(stripped)); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("%s: wrote %d bytes (was %d)\n", out, len(stripped), len(data))
	return nil
}
