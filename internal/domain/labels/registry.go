package labels

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry is the catalog of named templates. Lookups never fail: unknown
// names resolve to the registry default, which historical callers rely on.
type Registry struct {
	mu          sync.RWMutex
	templates   map[string]Template
	defaultName string
}

// NewRegistry returns a registry holding the built-in templates. An unknown
// defaultName falls back to DefaultTemplate.
func NewRegistry(defaultName string) *Registry {
	r := &Registry{
		templates:   make(map[string]Template, len(builtins)),
		defaultName: DefaultTemplate,
	}
	for _, t := range builtins {
		r.templates[t.Name] = t
	}
	if _, ok := r.templates[defaultName]; ok {
		r.defaultName = defaultName
	}
	return r
}

// Register adds or replaces a named template after validating it.
func (r *Registry) Register(t Template) error {
	if t.Name == "" || t.Name == CustomName {
		return fmt.Errorf("%w: template name %q is reserved", ErrInvalidTemplate, t.Name)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t
	return nil
}

// LoadFile registers every template of a YAML catalog keyed by name:
//
//	avery_22806:
//	  page_width_mm: 215.9
//	  ...
//
// It returns the number of templates loaded.
func (r *Registry) LoadFile(path string) (int, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read template catalog: %w", err)
	}

	var catalog map[string]CustomTemplate
	if err := yaml.Unmarshal(buf, &catalog); err != nil {
		return 0, fmt.Errorf("parse template catalog: %w", err)
	}

	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := catalog[name]
		c.Name = name
		t, err := c.Template()
		if err != nil {
			return 0, fmt.Errorf("template %s: %w", name, err)
		}
		if err := r.Register(t); err != nil {
			return 0, err
		}
	}
	return len(names), nil
}

// Lookup returns custom when name selects it, the named template when known,
// and the default template otherwise.
func (r *Registry) Lookup(name string, custom *Template) Template {
	if name == CustomName && custom != nil {
		return *custom
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.templates[name]; ok {
		return t
	}
	return r.templates[r.defaultName]
}

// Has reports whether name is a registered template.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// Default returns the fallback template.
func (r *Registry) Default() Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[r.defaultName]
}

// Names returns registered template names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns registered templates ordered by name.
func (r *Registry) All() []Template {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(names))
	for _, name := range names {
		out = append(out, r.templates[name])
	}
	return out
}
