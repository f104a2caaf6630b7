// Package config loads groundwork's two configuration inputs: the
// desired-state document (groundwork.yaml) that providers compile into
// steps, and the operator settings file (settings.toml) that tunes how
// the tool itself behaves.
package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Document is the decoded desired-state configuration. Top-level keys are
// provider section names; providers interpret their own sections.
type Document struct {
	sections map[string]interface{}
	path     string
}

// Sections returns the raw section map.
func (d *Document) Sections() map[string]interface{} {
	return d.sections
}

// Path returns where the document was loaded from ("" for the built-in).
func (d *Document) Path() string {
	return d.path
}

// SectionNames returns the top-level keys present in the document.
func (d *Document) SectionNames() []string {
	names := make([]string, 0, len(d.sections))
	for name := range d.sections {
		names = append(names, name)
	}
	return names
}

// Loader loads desired-state documents from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a desired-state document.
func (l *Loader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, NewYAMLParseError(path, err)
	}
	doc.path = path
	return doc, nil
}

// LoadDefault parses the built-in desired-state document shipped with the
// binary.
func (l *Loader) LoadDefault() (*Document, error) {
	return Parse(defaultConfig)
}

// Parse decodes a YAML desired-state document.
func Parse(data []byte) (*Document, error) {
	sections := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, err
	}
	return &Document{sections: sections}, nil
}
