package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trailmark/fts"
	"github.com/trailmark/fts/english"
	"github.com/trailmark/fts/markdown"
)

func newBuildCmd() *cobra.Command {
	var configPath, docsPath, outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Ingest a newline-delimited JSON document set and write a serialized index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			bd := fts.NewBuilder()
			bd.Ref(cfg.Ref)
			bd.UseLabeled(english.TrimmerLabel, english.Trimmer)
			bd.UseLabeled(english.StopWordFilterLabel, english.StopWordFilter)
			bd.UseLabeled(english.StemmerLabel, english.Stemmer)

			extractors := markdown.Extractors()
			for _, f := range cfg.Fields {
				opts := fts.FieldOptions{Boost: f.Boost}
				if f.Type == "number" {
					opts.Type = fts.FieldTypeNumber
				}
				if f.Markdown {
					if ext, ok := extractors[f.Name]; ok {
						opts.Extractor = ext
					}
				}
				if err := bd.Field(f.Name, opts); err != nil {
					return fmt.Errorf("field %q: %w", f.Name, err)
				}
			}

			if err := ingestDocuments(bd, docsPath, cfg.Ref); err != nil {
				return err
			}

			idx, err := bd.Build()
			if err != nil {
				return fmt.Errorf("building index: %w", err)
			}

			data, err := idx.ToJSON()
			if err != nil {
				return fmt.Errorf("serializing index: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}

			logger.Info().Str("output", outPath).Msg("index built")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "fields.yaml", "field schema config")
	cmd.Flags().StringVar(&docsPath, "docs", "", "newline-delimited JSON document file")
	cmd.Flags().StringVar(&outPath, "out", "index.json", "serialized index output path")
	_ = cmd.MarkFlagRequired("docs")
	return cmd
}

// ingestDocuments reads one JSON document per line from path and adds
// each to bd, minting a uuid ref for any document missing refField.
func ingestDocuments(bd *fts.Builder, path, refField string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var doc fts.Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return fmt.Errorf("decoding document: %w", err)
		}
		if _, ok := doc[refField]; !ok {
			doc[refField] = uuid.NewString()
		}
		if err := bd.Add(doc, fts.DocumentOptions{}); err != nil {
			return fmt.Errorf("adding document: %w", err)
		}
	}
	return scanner.Err()
}
