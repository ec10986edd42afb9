package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// File mirrors the permission file layout for schema generation.
type File struct {
	Permissions map[string]Policy `json:"permissions" jsonschema:"description=Permission name (or *) to policy"`
}

// Policy is the schema-only counterpart of rules.Policy: either a bare
// action string or a mapping of resource pattern to action.
type Policy struct{}

// JSONSchema expresses the scalar-or-mapping union that struct reflection
// cannot.
func (Policy) JSONSchema() *jsonschema.Schema {
	action := &jsonschema.Schema{
		Type: "string",
		Enum: []any{"allow", "deny", "ask"},
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			action,
			{Type: "object", AdditionalProperties: action},
		},
	}
}

// Schema returns a JSON Schema for the permission file format, for editor
// validation and documentation.
func Schema() ([]byte, error) {
	s := jsonschema.Reflect(&File{})
	return json.MarshalIndent(s, "", "  ")
}
