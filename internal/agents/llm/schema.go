package llm

// decisionSchemaJSON is the JSON Schema for the structured-output
// contract:
// {action ∈ {FOLD,CHECK,CALL,RAISE}, amount?: integer, reasoning: string,
// confidence: number in [0,1]}. Validated with
// github.com/santhosh-tekuri/jsonschema/v5, grounded in sdk/validator.go's
// WebSocket-message schema validation.
const decisionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["FOLD", "CHECK", "CALL", "RAISE"]},
    "amount": {"type": "integer"},
    "reasoning": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["action", "reasoning", "confidence"],
  "additionalProperties": true
}`

// DecisionSchema returns the schema document passed to
// llmgateway.Gateway.CompleteStructured, as a Go value
// ready for json.Marshal — Gateway implementations decide how to ship it
// to the provider.
func DecisionSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"action":     map[string]any{"type": "string", "enum": []string{"FOLD", "CHECK", "CALL", "RAISE"}},
			"amount":     map[string]any{"type": "integer"},
			"reasoning":  map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
		"required": []string{"action", "reasoning", "confidence"},
	}
}
