package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// MainFile is read first by FromDir.
const MainFile = "config.yml"

// FromDir loads a Pico config directory: config.yml first, then every
// other *.yml file in lexical order. Top-level keys of later files
// replace earlier ones. An empty or missing directory yields an empty
// Config.
func FromDir(dir string) (Config, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return Config{}, fmt.Errorf("list config files: %w", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		mi, mj := filepath.Base(matches[i]) == MainFile, filepath.Base(matches[j]) == MainFile
		if mi != mj {
			return mi
		}
		return matches[i] < matches[j]
	})

	merged := make(map[string]any)
	for _, path := range matches {
		cfg, err := FromFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		for k, v := range cfg.Raw() {
			merged[k] = v
		}
	}
	return New(merged), nil
}
