// Package presets ships sample analysis requests for demos and smoke tests.
package presets

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/aeo-cli/internal/model"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named, ready-to-run AnalyzeRequest.
type Preset struct {
	Name        string               `json:"name" yaml:"name"`
	Slug        string               `json:"slug" yaml:"slug"`
	Description string               `json:"description" yaml:"description"`
	Request     model.AnalyzeRequest `json:"data" yaml:"data"`
}

var (
	loadOnce sync.Once
	loaded   []Preset
	loadErr  error
)

// All returns the embedded presets in file order.
func All() ([]Preset, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(presetsYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Preset, len(loaded))
	copy(out, loaded)
	return out, nil
}

// Parse decodes a YAML preset list and validates each request.
func Parse(data []byte) ([]Preset, error) {
	var presets []Preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, eris.Wrap(err, "presets: parse yaml")
	}
	for i := range presets {
		p := &presets[i]
		if p.Slug == "" {
			p.Slug = slugify(p.Name)
		}
		p.Request.Target.Content = strings.TrimSpace(p.Request.Target.Content)
		for j := range p.Request.Competitors {
			p.Request.Competitors[j].Content = strings.TrimSpace(p.Request.Competitors[j].Content)
		}
		if err := p.Request.Validate(); err != nil {
			return nil, eris.Wrapf(err, "presets: %q", p.Name)
		}
	}
	return presets, nil
}

// Get finds a preset by slug or case-insensitive name.
func Get(name string) (*Preset, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(name)
	for i := range all {
		if all[i].Slug == slugify(key) || strings.EqualFold(all[i].Name, key) {
			p := all[i]
			p.Request.Competitors = append([]model.BrandContent(nil), p.Request.Competitors...)
			return &p, nil
		}
	}
	return nil, eris.Errorf("presets: unknown preset %q", name)
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
