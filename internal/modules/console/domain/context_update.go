package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// InvalidJSONError carries the parser detail for a rejected context update.
type InvalidJSONError struct {
	Detail string
}

func (e *InvalidJSONError) Error() string {
	return "invalid context update json: " + e.Detail
}

func (e *InvalidJSONError) Unwrap() error {
	return ErrInvalidContextUpdate
}

// ParseContextUpdates checks that the free-form update text is JSON and
// returns it compacted for the request body.
func ParseContextUpdates(text string) (json.RawMessage, error) {
	trimmed := []byte(strings.TrimSpace(text))
	var probe any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, &InvalidJSONError{Detail: err.Error()}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, &InvalidJSONError{Detail: err.Error()}
	}
	return json.RawMessage(buf.Bytes()), nil
}
