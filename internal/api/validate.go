package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// scenarioSchema describes the envelope the scenario endpoint must
// return. Exercise entries may be plain strings or structured objects;
// normalization happens after validation.
const scenarioSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["session_id", "scenario", "exercises"],
	"properties": {
		"session_id": {"type": "string", "minLength": 1},
		"scenario":   {"type": "string", "minLength": 1},
		"formKey":    {"type": "string"},
		"exercises": {
			"type": "array",
			"minItems": 1,
			"items": {
				"anyOf": [
					{"type": "string", "minLength": 1},
					{
						"type": "object",
						"required": ["title"],
						"properties": {
							"id":          {"type": "integer"},
							"title":       {"type": "string", "minLength": 1},
							"focus":       {"type": "string"},
							"description": {"type": "string"},
							"prompt":      {"type": "string"},
							"guidelines":  {"type": "array", "items": {"type": "string"}}
						}
					}
				]
			}
		}
	}
}`

var (
	scenarioSchemaOnce     sync.Once
	scenarioSchemaCompiled *jsonschema.Schema
	scenarioSchemaErr      error
)

func compiledScenarioSchema() (*jsonschema.Schema, error) {
	scenarioSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(scenarioSchema))
		if err != nil {
			scenarioSchemaErr = fmt.Errorf("parse scenario schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("scenario.json", doc); err != nil {
			scenarioSchemaErr = fmt.Errorf("add scenario schema: %w", err)
			return
		}
		scenarioSchemaCompiled, scenarioSchemaErr = c.Compile("scenario.json")
	})
	return scenarioSchemaCompiled, scenarioSchemaErr
}

// validateScenarioResponse checks a raw scenario response body against
// the envelope schema before unmarshaling.
func validateScenarioResponse(body []byte) error {
	sch, err := compiledScenarioSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(body)))
	if err != nil {
		return &InvalidResponseError{Content: json.RawMessage(body), Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &InvalidResponseError{Content: json.RawMessage(body), Err: err}
	}
	return nil
}
