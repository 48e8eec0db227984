package toolrun

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor generates a JSON schema from a struct type T.
//
// Field names come from json tags. Descriptions and required markers come
// from jsonschema tags:
//
//	type SearchArgs struct {
//	    Query string `json:"query" jsonschema:"required,description=Text to search for"`
//	    Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results,minimum=1"`
//	}
//
// The result is a self-contained object schema with no $ref, $schema or $id,
// and additionalProperties disabled, which every supported provider accepts.
func SchemaFor[T any]() (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		Anonymous:                  true,
		RequiredFromJSONSchemaTags: true,
	}

	var zero T
	s := r.Reflect(&zero)
	s.Version = ""
	s.ID = ""
	if s.Type != "object" {
		return nil, fmt.Errorf("schema: %T is not an object type", zero)
	}
	if s.Properties == nil {
		s.Properties = jsonschema.NewProperties()
	}

	return json.Marshal(s)
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}
