// Command ftsindex builds and queries fts BM25 indexes from the
// command line: "ftsindex build" ingests a document set per a
// fields.yaml schema and writes a serialized index; "ftsindex query"
// loads that index and runs a search-language query against it.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trailmark/fts"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	fts.Logger = logger

	root := &cobra.Command{
		Use:   "ftsindex",
		Short: "Build and query fts BM25 indexes",
	}
	root.AddCommand(newBuildCmd())
	root.AddCommand(newQueryCmd())

	if err := root.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("ftsindex failed")
	}
}
