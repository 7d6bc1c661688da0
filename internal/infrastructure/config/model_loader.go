package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
)

//go:embed schema/model.schema.json
var modelSchemaJSON []byte

const modelSchemaURL = "model.schema.json"

var compileModelSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(modelSchemaURL, bytes.NewReader(modelSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add model schema resource: %w", err)
	}
	return compiler.Compile(modelSchemaURL)
})

// ModelLoader builds model graphs from YAML model documents.
type ModelLoader struct{}

// NewModelLoader creates a new model loader.
func NewModelLoader() *ModelLoader {
	return &ModelLoader{}
}

// LoadModel loads, checks and builds the model document at path.
func (l *ModelLoader) LoadModel(path string) (*metamodel.Graph, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open model directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.LoadModelFromReader(file)
}

// LoadModelFromReader loads a model document from an io.Reader.
func (l *ModelLoader) LoadModelFromReader(r io.Reader) (*metamodel.Graph, error) {
	doc, err := l.DecodeDocument(r)
	if err != nil {
		return nil, err
	}
	builder, err := newModelBuilder(doc)
	if err != nil {
		return nil, err
	}
	graph, err := builder.build()
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}
	return graph, nil
}

// DecodeDocument parses a model document and checks it against the
// embedded schema without building it.
func (l *ModelLoader) DecodeDocument(r io.Reader) (*ModelDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc ModelDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode model YAML: %w", err)
	}
	return &doc, nil
}

func validateDocument(data []byte) error {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to decode model YAML: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("failed to decode model YAML: %w", err)
	}

	schema, err := compileModelSchema()
	if err != nil {
		return fmt.Errorf("failed to compile model schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("model validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError flattens a JSON Schema error tree into one
// readable message listing every leaf.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("model validation failed")
	}
	return fmt.Errorf("model validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
