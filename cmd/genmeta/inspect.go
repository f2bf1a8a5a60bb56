package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BDiopXV/genmeta"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect {filename}",
	Short: "Show a file's format, raw metadata entries, and parsed parameters",
	Long: `Show a file's detected container format, its raw metadata entries
(PNG tEXt directory), any normalized generation parameters, and the
warnings collected while parsing.

Examples:
  genmeta inspect output.png
  genmeta inspect --json clip.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: doInspect,
}

var flagInspectJSON bool

func init() {
	inspectCmd.Flags().BoolVarP(&flagInspectJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func doInspect(cmd *cobra.Command, args []string) error {
	opts, err := pathOptions()
	if err != nil {
		return err
	}

	meta, err := genmeta.ReadMetadata(args[0], opts...)
	if err != nil {
		return err
	}

	if flagInspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	fmt.Printf("File:   %s\n", meta.Path)
	fmt.Printf("Format: %s\n", meta.Format)
	fmt.Printf("Size:   %d bytes\n", meta.Size)

	if w, h := probeDimensions(meta); w != 0 {
		fmt.Printf("Pixels: %dx%d\n", w, h)
	}

	if len(meta.Tags) > 0 {
		fmt.Println("\nText entries:")
		for _, t := range meta.Tags {
			fmt.Printf("  %s (%d bytes)\n", t.Name, len(t.Description))
		}
	}

	if meta.Parameters != nil {
		fmt.Println("\nParameters:")
		printParameters(meta.Parameters)
	}

	for _, w := range meta.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return nil
}

// probeDimensions runs the raw size probe for PNG files.
func probeDimensions(meta *genmeta.Metadata) (uint32, uint32) {
	if meta.Format != genmeta.FormatPNG {
		return 0, 0
	}
	f, err := os.Open(meta.Path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	return genmeta.ProbeSize(f, meta.Size)
}

func printParameters(p *genmeta.GenerationParameters) {
	show := func(name, value string) {
		if value != "" {
			fmt.Printf("  %-16s %s\n", name, value)
		}
	}
	show("Model", p.ModelName)
	show("VAE", p.VaeName)
	show("Sampler", p.Sampler)
	if p.Steps != nil {
		show("Steps", fmt.Sprint(*p.Steps))
	}
	if p.CfgScale != nil {
		show("CFG scale", fmt.Sprint(*p.CfgScale))
	}
	if p.Seed != nil {
		show("Seed", fmt.Sprint(*p.Seed))
	}
	if p.Width != nil && p.Height != nil {
		show("Size", fmt.Sprintf("%dx%d", *p.Width, *p.Height))
	}
	if p.FrameCount != nil {
		show("Frames", fmt.Sprint(*p.FrameCount))
	}
	if p.Fps != nil {
		show("FPS", fmt.Sprint(*p.Fps))
	}
	show("Prompt", p.PositivePrompt)
	show("Negative", p.NegativePrompt)
}
