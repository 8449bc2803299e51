package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// CompletionRequest is one call to the completion service. JSONMode asks the
// service for a single JSON object and makes the client parse-check the
// payload before returning it.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	JSONMode    bool
}

// CompletionResult carries either free text or a syntactically valid JSON
// payload, depending on the request mode.
type CompletionResult struct {
	Text string
	JSON json.RawMessage
}

// Completer is the interface the analysis pipeline depends on. The client
// performs no retries; a transient failure surfaces immediately and is
// isolated at the stage boundary by the caller.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
	Model() string
}

// MalformedResponseError indicates the completion service returned a payload
// that failed JSON parsing or schema validation in JSON mode.
type MalformedResponseError struct {
	Cause   error
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("malformed completion response: %v (payload: %s)", e.Cause, e.Snippet)
	}
	return fmt.Sprintf("malformed completion response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// NewMalformedResponseError wraps cause with a capped payload snippet for logs.
func NewMalformedResponseError(cause error, payload string) *MalformedResponseError {
	const maxSnippet = 256
	if len(payload) > maxSnippet {
		payload = payload[:maxSnippet] + "...(truncated)"
	}
	return &MalformedResponseError{Cause: cause, Snippet: payload}
}
