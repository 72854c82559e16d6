package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fieldConfig describes one Builder field as read from fields.yaml.
type fieldConfig struct {
	Name     string  `yaml:"name"`
	Boost    float64 `yaml:"boost"`
	Type     string  `yaml:"type"`     // "string" (default) or "number"
	Markdown bool    `yaml:"markdown"` // use the matching markdown.Extractors() entry
}

// indexConfig is the top-level fields.yaml schema.
type indexConfig struct {
	Ref    string        `yaml:"ref"`
	Fields []fieldConfig `yaml:"fields"`
}

func loadConfig(path string) (*indexConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &indexConfig{Ref: "id"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
