package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

// MaxTitleLen caps the title column (varchar(100)).
const MaxTitleLen = 100

// Machine-readable error codes carried in every error body.
const (
	ErrCodeValidation       = "validation_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeForbidden        = "forbidden"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

// ErrorResponse is the stable error body: a machine code plus a human message.
// Field is set for validation failures only.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ValidationError rejects a request payload before it reaches the service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " is required"}
}

func invalidType(field, want string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " must be a " + want}
}

func emptyField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " must not be empty"}
}

func tooLong(field string, max int) *ValidationError {
	return &ValidationError{Field: field, Message: field + " must be at most " + strconv.Itoa(max) + " characters"}
}

// CreateTaskRequest is the normalized payload of POST /api/tasks.
// Decoding goes through DecodeCreateTask, not struct unmarshaling; the
// tags document the wire names.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed,omitempty"`
}

// UpdateTaskRequest is the normalized payload of PUT /api/tasks/{id}.
// Nil means the field was not provided and keeps its stored value.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether no recognized field was provided.
func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Completed == nil
}

// DecodeCreateTask validates the raw body of a create request.
// Unknown fields are ignored; title is required, non-empty and bounded;
// description must be a string when present (JSON null counts as absent);
// completed must be a JSON boolean; "true" the string is rejected.
func DecodeCreateTask(body []byte) (CreateTaskRequest, *ValidationError) {
	var req CreateTaskRequest
	fields, verr := decodeObject(body)
	if verr != nil {
		return req, verr
	}

	raw, ok := fields["title"]
	if !ok {
		return req, missingField("title")
	}
	title, verr := parseTitle(raw)
	if verr != nil {
		return req, verr
	}
	req.Title = title

	if raw, ok := fields["description"]; ok {
		desc, verr := parseDescription(raw)
		if verr != nil {
			return req, verr
		}
		req.Description = desc
	}

	if raw, ok := fields["completed"]; ok {
		completed, verr := parseCompleted(raw)
		if verr != nil {
			return req, verr
		}
		req.Completed = completed
	}

	return req, nil
}

// DecodeUpdateTask validates the raw body of an update request. A missing,
// null or {} body is rejected; a body with only unrecognized fields decodes
// to an Empty request, which the handler answers with the unchanged task.
func DecodeUpdateTask(body []byte) (UpdateTaskRequest, *ValidationError) {
	var req UpdateTaskRequest
	fields, verr := decodeObject(body)
	if verr != nil {
		return req, verr
	}
	if len(fields) == 0 {
		return req, &ValidationError{Message: "no data provided"}
	}

	if raw, ok := fields["title"]; ok {
		title, verr := parseTitle(raw)
		if verr != nil {
			return req, verr
		}
		req.Title = &title
	}

	if raw, ok := fields["description"]; ok {
		desc, verr := parseDescription(raw)
		if verr != nil {
			return req, verr
		}
		req.Description = desc
	}

	if raw, ok := fields["completed"]; ok {
		completed, verr := parseCompleted(raw)
		if verr != nil {
			return req, verr
		}
		req.Completed = &completed
	}

	return req, nil
}

// decodeObject parses the body into per-field raw values. An empty or
// JSON-null body yields an empty map; the caller decides whether that is
// an error for its method.
func decodeObject(body []byte) (map[string]json.RawMessage, *ValidationError) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ValidationError{Message: "request body must be a JSON object"}
	}
	return fields, nil
}

func parseTitle(raw json.RawMessage) (string, *ValidationError) {
	if isJSONNull(raw) {
		return "", invalidType("title", "string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalidType("title", "string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", emptyField("title")
	}
	if utf8.RuneCountInString(s) > MaxTitleLen {
		return "", tooLong("title", MaxTitleLen)
	}
	return s, nil
}

func parseDescription(raw json.RawMessage) (*string, *ValidationError) {
	if isJSONNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, invalidType("description", "string")
	}
	return &s, nil
}

func parseCompleted(raw json.RawMessage) (bool, *ValidationError) {
	if isJSONNull(raw) {
		return false, invalidType("completed", "boolean")
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, invalidType("completed", "boolean")
	}
	return b, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CSRFTokenResponse is the body of GET /api/csrf-token.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskListResponse never returns nil so an empty list renders as [].
func NewTaskListResponse(list []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = NewTaskResponse(list[i])
	}
	return out
}
