package repositories

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ObjectDownloader interface {
	DownloadBytes(ctx context.Context, bucket, key string) ([]byte, error)
}

type presetDocument struct {
	Presets map[string][]string `yaml:"presets"`
}

// PresetRepository maps tag preset names to their tags. The empty name is
// always known and carries no tags.
type PresetRepository struct {
	presets map[string][]string
}

func ParsePresets(data []byte) (*PresetRepository, error) {
	var doc presetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid preset document: %w", err)
	}
	if doc.Presets == nil {
		doc.Presets = make(map[string][]string)
	}
	return &PresetRepository{presets: doc.Presets}, nil
}

// LoadPresets reads the preset document from a local path or an s3://bucket/key
// location. An empty location gives an empty repository.
func LoadPresets(ctx context.Context, location string, objects ObjectDownloader) (*PresetRepository, error) {
	data, err := readDocument(ctx, location, objects)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &PresetRepository{presets: make(map[string][]string)}, nil
	}
	return ParsePresets(data)
}

func (r *PresetRepository) Tags(name string) ([]string, bool) {
	if name == "" {
		return []string{}, true
	}
	tags, ok := r.presets[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, tags...), true
}

// Names lists the known presets.
func (r *PresetRepository) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}

func readDocument(ctx context.Context, location string, objects ObjectDownloader) ([]byte, error) {
	if location == "" {
		return nil, nil
	}
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 location %q", location)
		}
		if objects == nil {
			return nil, fmt.Errorf("no s3 client for %q", location)
		}
		return objects.DownloadBytes(ctx, bucket, key)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}
