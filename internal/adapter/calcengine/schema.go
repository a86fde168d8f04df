package calcengine

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const responseSchemaID = "calculation-response.json"

//go:embed response.schema.json
var responseSchemaJSON []byte

// responseSchema checks a calculator response for the three required
// non-negative numbers. Extra fields are allowed.
type responseSchema struct {
	schema *jsonschema.Schema
}

func compileResponseSchema() (*responseSchema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(responseSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal response schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(responseSchemaID, doc); err != nil {
		return nil, fmt.Errorf("add response schema: %w", err)
	}

	s, err := compiler.Compile(responseSchemaID)
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}
	return &responseSchema{schema: s}, nil
}

func mustCompileResponseSchema() *responseSchema {
	s, err := compileResponseSchema()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *responseSchema) validate(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := s.schema.Validate(inst); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
