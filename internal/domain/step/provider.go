package step

import "fmt"

// Provider turns one section of the desired-state configuration into
// executable steps. Each provider owns a backend: apt packages, snap
// packages, dotfiles, git settings, and so on.
type Provider interface {
	// Name returns the provider's identifier and its config section key
	// (e.g., "apt", "snap", "files").
	Name() string

	// Steps compiles the provider's config section into steps. A provider
	// whose section is absent returns no steps and no error.
	Steps(src Source) ([]Step, error)
}

// Source gives providers read access to the raw desired-state configuration.
type Source struct {
	sections map[string]interface{}
}

// NewSource creates a Source from a decoded configuration document.
func NewSource(sections map[string]interface{}) Source {
	return Source{sections: sections}
}

// Section returns the raw config section for a key, or nil if the section
// is absent or not a map.
func (s Source) Section(key string) map[string]interface{} {
	if s.sections == nil {
		return nil
	}
	section, ok := s.sections[key]
	if !ok {
		return nil
	}
	sectionMap, ok := section.(map[string]interface{})
	if !ok {
		return nil
	}
	return sectionMap
}

// Catalog assembles providers into a validated step graph.
type Catalog struct {
	providers []Provider
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{providers: make([]Provider, 0)}
}

// Register adds a provider. Providers run in registration order, so the
// order encodes the default step sequence for unrelated steps.
func (c *Catalog) Register(p Provider) {
	c.providers = append(c.providers, p)
}

// Providers returns all registered providers.
func (c *Catalog) Providers() []Provider {
	return c.providers
}

// Build compiles every provider's section and returns a validated Graph.
// It fails on duplicate step IDs, missing dependencies, and cycles, so a
// bad configuration is rejected before anything touches the system.
func (c *Catalog) Build(src Source) (*Graph, error) {
	graph := NewGraph()

	for _, provider := range c.providers {
		steps, err := provider.Steps(src)
		if err != nil {
			return nil, NewProviderFailedError(provider.Name(), err)
		}

		for _, s := range steps {
			if err := graph.Add(s); err != nil {
				return nil, fmt.Errorf("provider %q, step %q: %w",
					provider.Name(), s.ID().String(), err)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	if _, err := graph.TopologicalSort(); err != nil {
		return nil, err
	}

	return graph, nil
}
