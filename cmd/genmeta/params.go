package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/BDiopXV/genmeta"
)

var paramsCmd = &cobra.Command{
	Use:   "params {filename...}",
	Short: "Extract normalized generation parameters as JSON",
	Long: `Extract normalized generation parameters from one or more files and
print them as a JSON array, one object per input file in input order.
Files without recognizable parameters produce null entries.

Examples:
  genmeta params output.png
  genmeta params --paths custom.yaml outputs/*.webp`,
	Args: cobra.MinimumNArgs(1),
	RunE: doParams,
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

func doParams(cmd *cobra.Command, args []string) error {
	opts, err := pathOptions()
	if err != nil {
		return err
	}

	results := make([]*genmeta.GenerationParameters, len(args))
	if len(opts) == 0 {
		metas, err := genmeta.ReadMetadataMany(context.Background(), args...)
		if err != nil {
			return err
		}
		for i, m := range metas {
			results[i] = m.Parameters
		}
	} else {
		// Custom paths disable the batch fast path; read sequentially.
		for i, path := range args {
			meta, err := genmeta.ReadMetadata(path, opts...)
			if err != nil {
				return err
			}
			results[i] = meta.Parameters
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
