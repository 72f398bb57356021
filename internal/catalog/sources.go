package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phrazzld/anyapi/internal/domain"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltin returns the descriptions shipped with the binary, in file name order.
func LoadBuiltin() ([]*domain.Description, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("failed to read builtin catalog: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []*domain.Description
	for _, name := range names {
		data, err := builtinFS.ReadFile(path.Join("builtin", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin description %s: %w", name, err)
		}
		descs, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("builtin description %s: %w", name, err)
		}
		out = append(out, descs...)
	}
	return out, nil
}

// LoadFile reads one description or a list of descriptions from a YAML or
// JSON file. Files ending in .json are decoded as JSON, everything else as YAML.
func LoadFile(filename string) ([]*domain.Description, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}
	var descs []*domain.Description
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		descs, err = decodeJSON(data)
	} else {
		descs, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("description file %s: %w", filename, err)
	}
	return descs, nil
}

func decodeYAML(data []byte) ([]*domain.Description, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	node := root.Content[0]

	switch node.Kind {
	case yaml.SequenceNode:
		var descs []*domain.Description
		if err := node.Decode(&descs); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
		}
		return descs, nil
	case yaml.MappingNode:
		var d domain.Description
		if err := node.Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
		}
		return []*domain.Description{&d}, nil
	default:
		return nil, fmt.Errorf("%w: expected a mapping or a list at line %d",
			domain.ErrInvalidDescription, node.Line)
	}
}

func decodeJSON(data []byte) ([]*domain.Description, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var descs []*domain.Description
		if err := json.Unmarshal(trimmed, &descs); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
		}
		return descs, nil
	}
	var d domain.Description
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
	}
	return []*domain.Description{&d}, nil
}
