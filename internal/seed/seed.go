// Package seed provides the embedded fallback dataset.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/cronograma-api/internal/importer"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Load returns the dataset from path, or the embedded defaults when path is empty.
func Load(path string) (*importer.Payload, error) {
	data := defaultsYAML
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes a YAML seed document and normalizes its rows.
func Parse(data []byte) (*importer.Payload, error) {
	var payload importer.Payload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	payload.Normalize()
	return &payload, nil
}
