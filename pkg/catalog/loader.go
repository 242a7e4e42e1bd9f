// Package catalog holds the embedded HARP product catalogue and read-only
// access to it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogRawData []byte

// ErrNotFound is returned when a series or model is not in the catalogue.
var ErrNotFound = errors.New("not found")

type seriesBlock struct {
	key    SeriesKey
	models []ProductSpec
}

type location struct {
	series int
	model  int
}

// Catalog provides lazy-loaded, read-only access to a product catalogue.
type Catalog struct {
	raw  []byte
	once sync.Once
	err  error

	series []seriesBlock
	index  map[string]location
}

// NewCatalog creates a Catalog that will parse the embedded document on
// first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData}
}

// NewCatalogFromBytes creates a Catalog over an arbitrary document with the
// seriesKey -> modelId -> spec shape.
func NewCatalogFromBytes(data []byte) *Catalog {
	return &Catalog{raw: data}
}

// Parse builds and loads a Catalog from data, returning any decode or
// validation error immediately.
func Parse(data []byte) (*Catalog, error) {
	c := NewCatalogFromBytes(data)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads and parses a catalogue document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return Parse(data)
}

// Load parses the document if it has not been parsed yet.
func (c *Catalog) Load() error {
	c.once.Do(c.load)
	return c.err
}

// Series returns every series in catalogue order.
func (c *Catalog) Series() ([]Series, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	out := make([]Series, 0, len(c.series))
	for _, b := range c.series {
		ids := make([]string, len(b.models))
		for i := range b.models {
			ids[i] = b.models[i].ModelID
		}
		out = append(out, Series{
			Key:         b.key,
			Kind:        b.key.Kind(),
			Description: b.key.Description(),
			ModelIDs:    ids,
		})
	}
	return out, nil
}

// Models returns copies of every model in the given series.
func (c *Catalog) Models(key SeriesKey) ([]ProductSpec, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	for _, b := range c.series {
		if b.key != key {
			continue
		}
		out := make([]ProductSpec, len(b.models))
		for i := range b.models {
			out[i] = b.models[i].Clone()
		}
		return out, nil
	}
	return nil, fmt.Errorf("series %q: %w", key, ErrNotFound)
}

// Lookup returns a copy of the model identified by (key, modelID).
func (c *Catalog) Lookup(key SeriesKey, modelID string) (ProductSpec, error) {
	if err := c.Load(); err != nil {
		return ProductSpec{}, err
	}
	loc, ok := c.index[modelID]
	if !ok || c.series[loc.series].key != key {
		return ProductSpec{}, fmt.Errorf("model %s/%s: %w", key, modelID, ErrNotFound)
	}
	return c.series[loc.series].models[loc.model].Clone(), nil
}

// FindModel resolves a model by id alone. Model ids are unique across the
// whole catalogue.
func (c *Catalog) FindModel(modelID string) (ProductSpec, error) {
	if err := c.Load(); err != nil {
		return ProductSpec{}, err
	}
	loc, ok := c.index[modelID]
	if !ok {
		return ProductSpec{}, fmt.Errorf("model %s: %w", modelID, ErrNotFound)
	}
	return c.series[loc.series].models[loc.model].Clone(), nil
}

// Entries returns every (series, model, spec) triple in catalogue order.
func (c *Catalog) Entries() ([]Entry, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(c.index))
	for _, b := range c.series {
		for i := range b.models {
			out = append(out, Entry{
				SeriesKey: b.key,
				ModelID:   b.models[i].ModelID,
				Spec:      b.models[i].Clone(),
			})
		}
	}
	return out, nil
}

// Len returns the number of models in the catalogue.
func (c *Catalog) Len() int {
	if c.Load() != nil {
		return 0
	}
	return len(c.index)
}

// MarshalJSON encodes the catalogue in its document shape,
// {seriesKey: {modelId: spec}}.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	doc := make(map[SeriesKey]map[string]ProductSpec, len(c.series))
	for _, b := range c.series {
		models := make(map[string]ProductSpec, len(b.models))
		for i := range b.models {
			models[b.models[i].ModelID] = b.models[i]
		}
		doc[b.key] = models
	}
	return json.Marshal(doc)
}

// load decodes the document through yaml.Node so series and model order
// survive; a plain map decode would lose it.
func (c *Catalog) load() {
	var root yaml.Node
	if err := yaml.Unmarshal(c.raw, &root); err != nil {
		c.err = fmt.Errorf("catalog: parse yaml: %w", err)
		return
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		c.err = errors.New("catalog: document must be a mapping of series")
		return
	}

	top := root.Content[0]
	index := make(map[string]location)
	var blocks []seriesBlock

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := SeriesKey(top.Content[i].Value)
		if !key.Valid() {
			c.err = fmt.Errorf("catalog: unknown series %q (line %d)", key, top.Content[i].Line)
			return
		}
		modelsNode := top.Content[i+1]
		if modelsNode.Kind != yaml.MappingNode {
			c.err = fmt.Errorf("catalog: series %q must be a mapping of models", key)
			return
		}

		block := seriesBlock{key: key}
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			id := modelsNode.Content[j].Value
			var spec ProductSpec
			if err := modelsNode.Content[j+1].Decode(&spec); err != nil {
				c.err = fmt.Errorf("catalog: decode %s/%s: %w", key, id, err)
				return
			}
			spec.ModelID = id
			spec.SeriesKey = key

			if err := validateSpec(spec); err != nil {
				c.err = fmt.Errorf("catalog: %s/%s: %w", key, id, err)
				return
			}
			if prev, dup := index[id]; dup {
				first := key
				if prev.series < len(blocks) {
					first = blocks[prev.series].key
				}
				c.err = fmt.Errorf("catalog: duplicate model id %q in %s and %s", id, first, key)
				return
			}
			index[id] = location{series: len(blocks), model: len(block.models)}
			block.models = append(block.models, spec)
		}
		blocks = append(blocks, block)
	}

	c.series = blocks
	c.index = index
}

func validateSpec(p ProductSpec) error {
	d := p.Dimensions
	if p.ModelID == "" {
		return errors.New("empty model id")
	}
	if d.RequiredHeight <= 0 {
		return fmt.Errorf("requiredHeight must be positive, got %d", d.RequiredHeight)
	}
	if d.RequiredWidth <= 0 {
		return fmt.Errorf("requiredWidth must be positive, got %d", d.RequiredWidth)
	}
	if d.PitDepth < 0 {
		return fmt.Errorf("pitDepth must be positive when present, got %d", d.PitDepth)
	}
	if d.TotalLength < 0 || d.PlatformLength < 0 || d.RequiredLength < 0 {
		return errors.New("length clearances must not be negative")
	}
	return nil
}
