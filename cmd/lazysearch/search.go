package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/lazysearch"
)

// Stage names used by the search command.
const (
	scaleStage  = lazysearch.Name("scale")
	offsetStage = lazysearch.Name("offset")
)

type searchOptions struct {
	values []int
	scale  int
	offset int
	target int
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a chain built from flags",
		Long: `Build a chain over --values, add a scale stage when --scale is set and
an offset stage when --offset is set, then search for --target.

Stages run in the order scale, offset.`,
		Example: `  lazysearch search --scale 3 --target 6
  lazysearch search --values 1,2,3 --scale 2 --offset 2 --target 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.values == nil {
				opts.values = []int{}
			}
			chain := lazysearch.New("search", opts.values)
			defer chain.Close()

			if cmd.Flags().Changed("scale") {
				scale := opts.scale
				chain = chain.Then(lazysearch.Transform(scaleStage, func(v int) int { return v * scale }))
			}
			if cmd.Flags().Changed("offset") {
				offset := opts.offset
				chain = chain.Then(lazysearch.Transform(offsetStage, func(v int) int { return v + offset }))
			}

			index, err := chain.SearchContext(cmd.Context(), opts.target)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			printResult(cmd.OutOrStdout(), chain, opts.target, index)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&opts.values, "values", []int{2, 4, 6, 8, 10}, "Elements to search")
	cmd.Flags().IntVar(&opts.scale, "scale", 1, "Multiply each element by this factor")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Add this amount after scaling")
	cmd.Flags().IntVar(&opts.target, "target", 0, "Value to search for")
	_ = cmd.MarkFlagRequired("target") //nolint:errcheck

	return cmd
}
