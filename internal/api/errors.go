package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sciencehub/shx/internal/shared"
)

// ValidationError carries field-level messages from a 400/422 response so
// callers can route them into the same presentation as local validation.
type ValidationError struct {
	Status   int
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("validation failed (status %d)", e.Status)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error { return shared.ErrValidation }

// Fields groups messages by the field they mention. Backend validation
// messages lead with the property name ("email must be an email"); messages
// that don't are keyed under "_".
func (e *ValidationError) Fields() map[string][]string {
	fields := make(map[string][]string)
	for _, msg := range e.Messages {
		key := "_"
		if parts := strings.SplitN(msg, " ", 2); len(parts) == 2 {
			key = strings.ToLower(parts[0])
		}
		fields[key] = append(fields[key], msg)
	}
	return fields
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
}

// messages decodes the message field, which is either a string or a list.
func (b errorBody) messages() []string {
	if len(b.Message) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(b.Message, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(b.Message, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// classifyStatus maps a non-2xx response onto the error taxonomy.
func classifyStatus(status int, body []byte) error {
	var envelope errorBody
	_ = json.Unmarshal(body, &envelope)
	msgs := envelope.messages()

	detail := ""
	if len(msgs) > 0 {
		detail = ": " + strings.Join(msgs, "; ")
	}

	switch {
	case status == 401:
		return fmt.Errorf("%w%s", shared.ErrUnauthorized, detail)
	case status == 403:
		return fmt.Errorf("%w%s", shared.ErrForbidden, detail)
	case status == 404:
		return fmt.Errorf("%w%s", shared.ErrNotFound, detail)
	case status == 400 || status == 422:
		return &ValidationError{Status: status, Messages: msgs}
	default:
		return fmt.Errorf("%w: status %d%s", shared.ErrServerError, status, detail)
	}
}
