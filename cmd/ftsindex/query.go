package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailmark/fts"
)

func newQueryCmd() *cobra.Command {
	var indexPath string

	cmd := &cobra.Command{
		Use:   "query [query string]",
		Short: "Load a serialized index and run a search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(indexPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", indexPath, err)
			}

			idx, err := fts.LoadIndex(data)
			if err != nil {
				return fmt.Errorf("loading index: %w", err)
			}

			results, err := idx.Search(args[0])
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			for _, r := range results {
				fmt.Printf("%s\t%.3f\n", r.Ref, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "index.json", "serialized index path")
	return cmd
}
