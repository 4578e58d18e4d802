package tool

import (
	"github.com/roach88/toolbench/internal/store"
)

// Param describes a single parameter in a tool's function-calling schema.
type Param struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Enum        []any   `json:"enum,omitempty"`
	Items       *Items  `json:"items,omitempty"`
	Properties  Params  `json:"properties,omitempty"`
}

// Items describes the element schema for array-typed parameters.
type Items struct {
	Type string `json:"type"`
}

// Params maps parameter names to their schemas.
type Params map[string]Param

// Descriptor is the static surface of a tool, consumed by the agent harness
// to build its function-calling schema. Pure data: building a descriptor
// never touches the store.
type Descriptor struct {
	Name        string
	Description string
	Parameters  Params
	Required    []string
}

// descriptorJSON is the wire shape of a descriptor.
type descriptorJSON struct {
	Type     string       `json:"type"`
	Function functionJSON `json:"function"`
}

type functionJSON struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  parametersJSON `json:"parameters"`
}

type parametersJSON struct {
	Type                 string   `json:"type"`
	Properties           Params   `json:"properties"`
	Required             []string `json:"required"`
	AdditionalProperties bool     `json:"additionalProperties"`
}

// Info returns the descriptor in the function-calling wire shape. The
// additionalProperties flag is a real JSON boolean; tools reject unknown
// fields at invoke time regardless.
func (d Descriptor) Info() any {
	props := d.Parameters
	if props == nil {
		props = Params{}
	}
	required := d.Required
	if required == nil {
		required = []string{}
	}
	return descriptorJSON{
		Type: "function",
		Function: functionJSON{
			Name:        d.Name,
			Description: d.Description,
			Parameters: parametersJSON{
				Type:                 "object",
				Properties:           props,
				Required:             required,
				AdditionalProperties: false,
			},
		},
	}
}

// Handler executes a tool against the shared store. Named arguments
// correspond 1-to-1 with the declared parameters. The returned string is
// always a JSON-encoded envelope; handlers never panic on bad input.
type Handler func(ds store.Dataset, args map[string]any) string

// Tool pairs a descriptor with its handler. Tools are singletons: one
// instance per environment, registered under the descriptor name.
type Tool struct {
	Descriptor Descriptor
	Handler    Handler
}

// Name returns the registered tool name.
func (t *Tool) Name() string {
	return t.Descriptor.Name
}

// Invoke runs the tool and returns its JSON envelope.
func (t *Tool) Invoke(ds store.Dataset, args map[string]any) string {
	return t.Handler(ds, args)
}

// Validate checks that the tool definition is complete.
func (t *Tool) Validate() error {
	if t.Descriptor.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Handler == nil {
		return ErrToolHandlerNil
	}
	return nil
}
