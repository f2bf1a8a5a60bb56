package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BDiopXV/genmeta"
)

// flagPaths names a YAML file of extra normalizer lookup paths, keyed by
// canonical field name:
//
//	seed:
//	  - [MySampler, inputs, noise_seed]
//	steps:
//	  - [MySampler, inputs, steps]
var flagPaths string

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPaths, "paths", "",
		"YAML file mapping parameter fields to extra workflow lookup paths")
}

// pathOptions loads the --paths file, if given, into reader options.
func pathOptions() ([]genmeta.Option, error) {
	if flagPaths == "" {
		return nil, nil
	}

	data, err := os.ReadFile(flagPaths)
	if err != nil {
		return nil, fmt.Errorf("read paths file: %w", err)
	}

	var paths map[string][][]string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("parse paths file %s: %w", flagPaths, err)
	}

	var opts []genmeta.Option
	for field, fieldPaths := range paths {
		for _, segments := range fieldPaths {
			if len(segments) == 0 {
				return nil, fmt.Errorf("paths file %s: empty path for field %q", flagPaths, field)
			}
			opts = append(opts, genmeta.WithParameterPath(field, segments...))
		}
	}
	return opts, nil
}
