// Package indexdef loads index and template definitions from YAML and
// applies them to the engine.
package indexdef

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Index is one index to create when it does not exist yet.
type Index struct {
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings"`
	Mappings map[string]any `yaml:"mappings"`
	Aliases  map[string]any `yaml:"aliases"`
}

// Template is a composable index template. It is always (re)applied.
type Template struct {
	Name          string         `yaml:"name"`
	IndexPatterns []string       `yaml:"index_patterns"`
	Template      map[string]any `yaml:"template"`
	ComposedOf    []string       `yaml:"composed_of"`
	Priority      *int           `yaml:"priority"`
	Meta          map[string]any `yaml:"_meta"`
}

// Definitions is the root of a definitions file.
type Definitions struct {
	Templates []Template `yaml:"templates"`
	Indices   []Index    `yaml:"indices"`
}

// Load reads and parses the file at path.
func Load(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index definitions: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes definitions, rejecting unknown fields, and normalizes every
// nested YAML mapping to map[string]any so bodies encode as JSON.
func Parse(data []byte) (*Definitions, error) {
	var d Definitions
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse index definitions: %w", err)
	}

	seen := map[string]bool{}
	for i := range d.Indices {
		ix := &d.Indices[i]
		if err := validName("index", ix.Name, seen); err != nil {
			return nil, err
		}
		ix.Settings = normalizeMap(ix.Settings)
		ix.Mappings = normalizeMap(ix.Mappings)
		ix.Aliases = normalizeMap(ix.Aliases)
	}
	seen = map[string]bool{}
	for i := range d.Templates {
		tpl := &d.Templates[i]
		if err := validName("template", tpl.Name, seen); err != nil {
			return nil, err
		}
		if len(tpl.IndexPatterns) == 0 {
			return nil, fmt.Errorf("template %q: index_patterns is required", tpl.Name)
		}
		tpl.Template = normalizeMap(tpl.Template)
		tpl.Meta = normalizeMap(tpl.Meta)
	}
	return &d, nil
}

func validName(kind, name string, seen map[string]bool) error {
	if name == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if name != strings.ToLower(name) {
		return fmt.Errorf("%s %q: name must be lowercase", kind, name)
	}
	if seen[name] {
		return fmt.Errorf("%s %q is defined twice", kind, name)
	}
	seen[name] = true
	return nil
}

// Body returns the create-index request body.
func (ix Index) Body() map[string]any {
	body := map[string]any{}
	if len(ix.Settings) > 0 {
		body["settings"] = ix.Settings
	}
	if len(ix.Mappings) > 0 {
		body["mappings"] = ix.Mappings
	}
	if len(ix.Aliases) > 0 {
		body["aliases"] = ix.Aliases
	}
	return body
}

// Body returns the put-index-template request body.
func (t Template) Body() map[string]any {
	patterns := make([]any, len(t.IndexPatterns))
	for i, p := range t.IndexPatterns {
		patterns[i] = p
	}
	body := map[string]any{"index_patterns": patterns}
	if len(t.Template) > 0 {
		body["template"] = t.Template
	}
	if len(t.ComposedOf) > 0 {
		composed := make([]any, len(t.ComposedOf))
		for i, c := range t.ComposedOf {
			composed[i] = c
		}
		body["composed_of"] = composed
	}
	if t.Priority != nil {
		body["priority"] = *t.Priority
	}
	if len(t.Meta) > 0 {
		body["_meta"] = t.Meta
	}
	return body
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// Engine is the part of the search service definitions are applied through.
type Engine interface {
	IndexExists(ctx context.Context, indices []string, opts map[string]any) (bool, error)
	CreateIndex(ctx context.Context, index string, body map[string]any) (map[string]any, error)
	PutIndexTemplate(ctx context.Context, name string, template, opts map[string]any) (map[string]any, error)
}

// Result lists what Apply changed.
type Result struct {
	Templates []string
	Created   []string
	Existing  []string
}

// Apply puts every template, then creates the indices that are missing.
// Existing indices are left untouched.
func (d *Definitions) Apply(ctx context.Context, engine Engine, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "indexdef"))
	res := &Result{}

	for _, tpl := range d.Templates {
		if _, err := engine.PutIndexTemplate(ctx, tpl.Name, tpl.Body(), nil); err != nil {
			return res, fmt.Errorf("put template %s: %w", tpl.Name, err)
		}
		res.Templates = append(res.Templates, tpl.Name)
		log.Info("index_template_put", zap.String("template", tpl.Name))
	}

	for _, ix := range d.Indices {
		exists, err := engine.IndexExists(ctx, []string{ix.Name}, nil)
		if err != nil {
			return res, fmt.Errorf("check index %s: %w", ix.Name, err)
		}
		if exists {
			res.Existing = append(res.Existing, ix.Name)
			log.Debug("index_exists", zap.String("index", ix.Name))
			continue
		}
		if _, err := engine.CreateIndex(ctx, ix.Name, ix.Body()); err != nil {
			return res, fmt.Errorf("create index %s: %w", ix.Name, err)
		}
		res.Created = append(res.Created, ix.Name)
		log.Info("index_created", zap.String("index", ix.Name))
	}
	return res, nil
}
