package extract

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// providersSchema constrains the model's output before it is trusted:
// a "providers" array of objects whose fields are strings or null, with
// no extra fields.
const providersSchema = `{
	"type": "object",
	"required": ["providers"],
	"properties": {
		"providers": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"properties": {
					"provider_id_insurer": {"type": ["string", "null"]},
					"full_name": {"type": ["string", "null"]},
					"specialty": {"type": ["string", "null"]},
					"practice_name": {"type": ["string", "null"]},
					"address_line1": {"type": ["string", "null"]},
					"address_line2": {"type": ["string", "null"]},
					"city": {"type": ["string", "null"]},
					"state": {"type": ["string", "null"]},
					"zip": {"type": ["string", "null"]},
					"county": {"type": ["string", "null"]},
					"phone": {"type": ["string", "null"]},
					"languages": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("providers.json", providersSchema)

// ValidateResponse checks raw model output against the providers schema.
func ValidateResponse(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
