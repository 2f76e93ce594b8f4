// Package llmgateway defines the LLM Gateway contract the core consumes.
// HTTP/JSON transport to a real provider is explicitly out
// of scope; this package holds only the interface plus a
// deterministic in-process implementation used by tests and the demo
// command.
package llmgateway

import (
	"context"
	"errors"
)

// ErrUnsupportedStructured is returned by Gateway.CompleteStructured when
// the target model does not support schema-constrained completion
// ("the gateway reports unsupported structured output").
var ErrUnsupportedStructured = errors.New("structured output not supported")

// Gateway is the LLM Gateway contract the core consumes. It must be safe for
// concurrent use.
// Timeouts and retries against the real provider are the gateway's own
// concern; the core applies its own per-decision timeout around these
// calls and treats any error uniformly as AgentFailure.
type Gateway interface {
	// CompleteStructured attempts a schema-constrained completion. schema
	// is a JSON-Schema document (as a Go value ready for json.Marshal)
	// describing the target response shape. Returns the
	// parsed response object, or ErrUnsupportedStructured if the model
	// can't do structured output, or any other error on failure.
	CompleteStructured(ctx context.Context, modelID string, prompt string, schema any) (map[string]any, error)

	// CompleteText performs a free-form completion, used for the
	// text-mode retry when structured output is unsupported.
	CompleteText(ctx context.Context, modelID string, prompt string) (string, error)
}
