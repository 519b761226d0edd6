package tool

import (
	"fmt"
	"sort"
)

type entry struct {
	decl    Declaration
	handler Handler
}

// Registry binds tool declarations to their executable capabilities.
// Register everything at process start; the declaration set handed to
// the model stays fixed for the session's lifetime.
type Registry struct {
	tools map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]entry)}
}

// Register binds a declaration to its implementation. Duplicate names
// are a programming error and rejected.
func (r *Registry) Register(decl Declaration, handler Handler) error {
	if decl.Name == "" {
		return fmt.Errorf("tool declaration requires a name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q requires a handler", decl.Name)
	}
	if _, exists := r.tools[decl.Name]; exists {
		return fmt.Errorf("tool %q already registered", decl.Name)
	}
	r.tools[decl.Name] = entry{decl: decl, handler: handler}
	return nil
}

// Declarations returns a sorted copy of the registered declarations,
// the schema set handed to the model capability on session start.
func (r *Registry) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(r.tools))
	for _, e := range r.tools {
		decls = append(decls, e.decl)
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls
}

func (r *Registry) lookup(name string) (entry, bool) {
	e, ok := r.tools[name]
	return e, ok
}
