package tool

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("tool: duplicate tool name")

// Handler executes a tool with validated arguments. The returned payload is
// serialized as JSON; a json.RawMessage is passed through unchanged.
type Handler func(ctx context.Context, args Args) (any, error)

// Definition pairs a schema with the handler that implements it.
type Definition struct {
	Schema  Schema
	Handler Handler
}

// Registry holds the tools a server exposes. It is filled at startup and only
// read afterwards, so it needs no locking.
type Registry struct {
	order []string
	tools map[string]Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Definition)}
}

// Register adds a tool. It fails if the schema is malformed or the name is
// already taken.
func (r *Registry) Register(schema Schema, handler Handler) error {
	if err := schema.Check(); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("tool: %s: handler is required", schema.Name)
	}
	if _, dup := r.tools[schema.Name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, schema.Name)
	}

	r.order = append(r.order, schema.Name)
	r.tools[schema.Name] = Definition{Schema: schema, Handler: handler}

	return nil
}

// List returns the schemas of all tools in registration order.
func (r *Registry) List() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema)
	}
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
