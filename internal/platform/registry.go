package platform

import (
	"sync"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrEditorAlreadyRegistered is returned when an ID is registered twice.
	ErrEditorAlreadyRegistered = errors.New("editor already registered")

	// ErrInvalidEditor is returned for editors without an ID or skill directory.
	ErrInvalidEditor = errors.New("invalid editor")
)

// Registry holds editors in registration order. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	editors map[string]*Editor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{editors: make(map[string]*Editor)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of built-in editors.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, e := range builtinEditors() {
			if err := defaultRegistry.Register(e); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

// Register adds e to the registry.
func (r *Registry) Register(e *Editor) error {
	if e == nil || e.ID == "" || e.SkillDir == (Location{}) {
		return ErrInvalidEditor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.editors[e.ID]; exists {
		return errors.Wrap(ErrEditorAlreadyRegistered, e.ID)
	}
	r.editors[e.ID] = e
	r.order = append(r.order, e.ID)
	return nil
}

// Lookup returns the editor with the given ID.
func (r *Registry) Lookup(id string) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.editors[id]
	return e, ok
}

// All returns every editor in registration order.
func (r *Registry) All() []*Editor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Editor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.editors[id])
	}
	return out
}

// IDs returns every editor ID in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Resolve splits ids into known editors (in registry order, deduplicated)
// and unknown IDs (in input order).
func (r *Registry) Resolve(ids []string) (known []*Editor, unknown []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.Lookup(id); ok {
			want[id] = true
		} else {
			unknown = append(unknown, id)
		}
	}
	for _, e := range r.All() {
		if want[e.ID] {
			known = append(known, e)
		}
	}
	return known, unknown
}
