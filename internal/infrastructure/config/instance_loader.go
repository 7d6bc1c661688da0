package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// InstanceFormat is the serialization of instance data.
type InstanceFormat string

const (
	InstanceJSON InstanceFormat = "json"
	InstanceYAML InstanceFormat = "yaml"
)

// FormatFromPath picks the format by file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFromPath(path string) InstanceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return InstanceYAML
	default:
		return InstanceJSON
	}
}

// InstanceLoader reads graph-shaped instance data. Numbers are kept as
// json.Number literals so decimal values do not lose precision.
type InstanceLoader struct{}

// NewInstanceLoader creates a new instance loader.
func NewInstanceLoader() *InstanceLoader {
	return &InstanceLoader{}
}

// LoadInstance reads the instance at path.
func (l *InstanceLoader) LoadInstance(path string) (map[string]any, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open instance directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open instance: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.LoadInstanceFromReader(file, FormatFromPath(path))
}

// LoadInstanceFromReader decodes one instance object.
func (l *InstanceLoader) LoadInstanceFromReader(r io.Reader, format InstanceFormat) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance: %w", err)
	}

	if format == InstanceYAML {
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return nil, fmt.Errorf("failed to decode instance YAML: %w", err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("failed to decode instance: %w", err)
	}

	obj, ok := instance.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("instance must be an object, got %T", instance)
	}
	return obj, nil
}
