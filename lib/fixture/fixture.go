package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/aggbench/lib/model"
	"gopkg.in/yaml.v3"
)

// Format is the text format of a fixture.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name ("json", "yaml" or "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown fixture format %q: must be one of json, yaml", s)
	}
}

// DetectFormat derives the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("fixture %s has no extension", path)
	}
	return ParseFormat(ext)
}

// ScenarioName derives a scenario name from a fixture path, e.g.
// "testdata/range_histogram.json" becomes "range_histogram".
func ScenarioName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScenarioNames derives one distinct scenario name per fixture path. Paths
// whose short names collide with each other or with a reserved name fall back
// to the file name with extension and then to the cleaned path. Listing the
// same file twice is an error.
func ScenarioNames(paths []string, reserved ...string) ([]string, error) {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = ScenarioName(path)
	}

	fallbacks := []func(string) string{
		filepath.Base,
		func(path string) string { return filepath.ToSlash(filepath.Clean(path)) },
	}
	for _, fallback := range fallbacks {
		colliding := collisions(names, reserved)
		if len(colliding) == 0 {
			return names, nil
		}
		for _, i := range colliding {
			names[i] = fallback(paths[i])
		}
	}

	if colliding := collisions(names, reserved); len(colliding) > 0 {
		i := colliding[0]
		for _, j := range colliding[1:] {
			if names[j] == names[i] {
				return nil, fmt.Errorf("fixtures %s and %s map to the same scenario %q", paths[i], paths[j], names[i])
			}
		}
		return nil, fmt.Errorf("fixture %s maps to the reserved scenario %q", paths[i], names[i])
	}
	return names, nil
}

// collisions returns the indices of names that occur more than once or
// match a reserved name.
func collisions(names, reserved []string) []int {
	seen := make(map[string]int, len(names)+len(reserved))
	for _, name := range reserved {
		seen[name]++
	}
	for _, name := range names {
		seen[name]++
	}

	var out []int
	for i, name := range names {
		if seen[name] > 1 {
			out = append(out, i)
		}
	}
	return out
}

// Parse builds a tree from exactly one fixture document. Unknown fields and
// trailing content are rejected and the result is validated, so a parsed fixture satisfies every model
// invariant. Parse performs no I/O.
func Parse(data []byte, format Format) (model.AggregationResults, error) {
	var out model.AggregationResults
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return out, fmt.Errorf("parse json fixture: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return out, errors.New("parse json fixture: trailing data after document")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&out); err != nil {
			if errors.Is(err, io.EOF) {
				return out, errors.New("parse yaml fixture: empty document")
			}
			return out, fmt.Errorf("parse yaml fixture: %w", err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return out, errors.New("parse yaml fixture: more than one document")
		}
	default:
		return out, fmt.Errorf("unknown fixture format %q", format)
	}

	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("invalid fixture: %w", err)
	}
	return out, nil
}

// Marshal renders a tree as a fixture document that Parse accepts.
func Marshal(tree model.AggregationResults, format Format) ([]byte, error) {
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json fixture: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("marshal yaml fixture: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal yaml fixture: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown fixture format %q", format)
	}
}
