package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas holds compiled schemas keyed by Schema.Name. Names are unique
// per definition within the process.
var schemas = struct {
	sync.RWMutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// ValidateJSON checks raw against schema. It returns *ErrInvalidResponse
// when raw is not JSON or does not conform, nil otherwise.
func ValidateJSON(schema *Schema, raw []byte) error {
	return validateResponse(schema, json.RawMessage(raw))
}

// validateResponse is ValidateJSON for provider replies. A nil schema
// accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("invalid JSON: %w", err)
	}
	sch, err := compiled(schema)
	if err != nil {
		return invalid("compile schema %q: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("schema %q: %w", schema.Name, err)
	}
	return nil
}

func compiled(schema *Schema) (*jsonschema.Schema, error) {
	schemas.RLock()
	sch, ok := schemas.byName[schema.Name]
	schemas.RUnlock()
	if ok {
		return sch, nil
	}

	// AddResource wants the library's own decoded form (json.Number for
	// numerics), so the definition map is round-tripped through it.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	url := "schema://interviewace/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	sch, err = c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemas.Lock()
	schemas.byName[schema.Name] = sch
	schemas.Unlock()
	return sch, nil
}
