package domain

import (
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Registry holds artifact specs in registration order. It is not safe for
// concurrent registration; specs are loaded once before any run starts.
type Registry struct {
	specs []*ArtifactSpec
	index map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register adds a spec. Fails with DuplicateNameError if the name is taken.
func (r *Registry) Register(spec *ArtifactSpec) error {
	if spec == nil || spec.Name == "" {
		return InvalidSpecError{Reason: "name is required"}
	}
	if _, exists := r.index[spec.Name]; exists {
		return DuplicateNameError{Name: spec.Name}
	}
	r.index[spec.Name] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// Get returns the spec registered under name
func (r *Registry) Get(name string) (*ArtifactSpec, error) {
	idx, ok := r.index[name]
	if !ok {
		return nil, NotFoundError{Name: name, Suggestions: r.suggest(name)}
	}
	return r.specs[idx], nil
}

// Index returns the registration position of name
func (r *Registry) Index(name string) (int, bool) {
	idx, ok := r.index[name]
	return idx, ok
}

// AllTagged returns the specs carrying tag, in registration order
func (r *Registry) AllTagged(tag string) []*ArtifactSpec {
	var tagged []*ArtifactSpec
	for _, spec := range r.specs {
		if spec.HasTag(tag) {
			tagged = append(tagged, spec)
		}
	}
	return tagged
}

// Tagged is AllTagged that fails with UnknownTagError when nothing carries tag
func (r *Registry) Tagged(tag string) ([]*ArtifactSpec, error) {
	tagged := r.AllTagged(tag)
	if len(tagged) == 0 {
		return nil, UnknownTagError{Tag: tag, Suggestions: closest(tag, r.Tags())}
	}
	return tagged, nil
}

// Tags returns every distinct tag in order of first appearance
func (r *Registry) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, spec := range r.specs {
		for _, tag := range spec.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// All returns every spec in registration order
func (r *Registry) All() []*ArtifactSpec {
	out := make([]*ArtifactSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Len returns the number of registered specs
func (r *Registry) Len() int {
	return len(r.specs)
}

// Names returns every registered name in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, spec := range r.specs {
		names[i] = spec.Name
	}
	return names
}

func (r *Registry) suggest(name string) []string {
	return closest(name, r.Names())
}

func closest(pattern string, candidates []string) []string {
	matches := fuzzy.Find(pattern, candidates)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
