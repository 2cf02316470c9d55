package extraction

import (
	"encoding/json"
	"strings"
)

// ParseError indicates the model responded, but its output was not valid
// JSON after fence-stripping. It is deliberately distinct from ServiceError:
// one means the model produced unusable output, the other means the call
// never succeeded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parsing model response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalize strips an optional markdown code fence from the raw model reply
// and parses the remainder into a Result. Malformed JSON yields a
// *ParseError; no further schema validation is performed.
func Normalize(text string) (*Result, error) {
	text = stripFences(text)

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &ParseError{Err: err}
	}

	return &result, nil
}

// stripFences removes a leading ```json or ``` marker and a trailing ```
// marker. Text without fences passes through unchanged.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
