// Package tools provides the tool registry and the executor that runs
// model-requested tool calls against it.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/parleyhq/parley/pkg/provider"
)

// ErrUnsupportedTool is returned when a tool call names a tool that is not
// registered.
var ErrUnsupportedTool = errors.New("unsupported tool")

// InvalidInputError reports a tool input that failed schema validation.
type InvalidInputError struct {
	Tool    string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for tool %q: %s", e.Tool, e.Message)
}

// IsInvalidInput checks if an error is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// Request carries one tool invocation into a Runner. Emit streams raw
// output chunks in the order the tool produces them.
type Request struct {
	ConversationID string
	Input          map[string]any
	Emit           func(chunk string)
}

// Runner executes one tool invocation. The returned string is the tool's
// canonical final result; empty means the concatenation of emitted chunks
// stands. A non-nil error marks the tool call failed — tools whose command
// merely failed (non-zero exit) return that as result content, not as an
// error.
type Runner func(ctx context.Context, req Request) (string, error)

// Definition describes one registered tool.
type Definition struct {
	Name        string
	Description string
	// InputSchema is the raw JSON Schema advertised to the provider.
	InputSchema json.RawMessage
	Run         Runner

	compiled *jsonschema.Schema
}

// ValidateInput checks a parsed tool input against the definition's schema.
func (d *Definition) ValidateInput(input map[string]any) error {
	if d.compiled == nil {
		return nil
	}
	// The schema validator wants any, not map[string]any specifically.
	var doc any = input
	if input == nil {
		doc = map[string]any{}
	}
	if err := d.compiled.Validate(doc); err != nil {
		return &InvalidInputError{Tool: d.Name, Message: err.Error()}
	}
	return nil
}

// Registry is the finite map of tool name → definition. Registration order
// is preserved for provider advertisement.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register compiles the definition's input schema and adds it to the
// registry. Registering a duplicate name is an error.
func (r *Registry) Register(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool definition missing name")
	}
	if def.Run == nil {
		return fmt.Errorf("tool %q missing runner", def.Name)
	}

	if len(def.InputSchema) > 0 {
		var schemaDoc any
		if err := json.Unmarshal(def.InputSchema, &schemaDoc); err != nil {
			return fmt.Errorf("unmarshal schema for tool %q: %w", def.Name, err)
		}
		c := jsonschema.NewCompiler()
		resource := def.Name + ".schema.json"
		if err := c.AddResource(resource, schemaDoc); err != nil {
			return fmt.Errorf("add schema resource for tool %q: %w", def.Name, err)
		}
		compiled, err := c.Compile(resource)
		if err != nil {
			return fmt.Errorf("compile schema for tool %q: %w", def.Name, err)
		}
		def.compiled = compiled
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Get looks up a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// ProviderTools renders the registry as provider tool advertisements, in
// registration order.
func (r *Registry) ProviderTools() []provider.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]provider.Tool, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		out = append(out, provider.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return out
}
