package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OpaqueDetailMessage is shown when the backend reports an error detail that
// is neither a string nor a validation list.
const OpaqueDetailMessage = "the server returned an unrecognized error object"

// FailureKind is the error taxonomy of the transport layer.
type FailureKind int

const (
	// TransportFailure: the request never completed.
	TransportFailure FailureKind = iota + 1
	// ValidationFailure: 422 with a list of field errors.
	ValidationFailure
	// DomainFailure: a failure status with a string detail (conflict, not found).
	DomainFailure
	// OpaqueFailure: an error body that is not understood.
	OpaqueFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case ValidationFailure:
		return "validation"
	case DomainFailure:
		return "domain"
	case OpaqueFailure:
		return "opaque"
	}
	return "unknown"
}

// APIError is the single normalized failure returned by Client.
type APIError struct {
	Message string

	kind FailureKind
}

func (e *APIError) Error() string { return e.Message }

// shape tags the concrete form a failure arrived in.
type shape int

const (
	shapeTransport shape = iota
	shapeFieldList
	shapeDetailString
	shapeDetailObject
	shapeNoDetail
	shapeNotJSON
)

type failure struct {
	shape  shape
	status int
	cause  error

	fields    []fieldError
	detail    string
	rawDetail json.RawMessage
	text      string
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// classify inspects a failed response. It never fails itself.
func classify(status int, body []byte) failure {
	text := strings.TrimSpace(string(body))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		var anyJSON any
		if json.Unmarshal(body, &anyJSON) == nil {
			// valid JSON that is not an object carries no detail
			return failure{shape: shapeNoDetail, status: status, text: text}
		}
		return failure{shape: shapeNotJSON, status: status, text: text}
	}

	rawDetail, ok := envelope["detail"]
	if !ok || isNull(rawDetail) {
		return failure{shape: shapeNoDetail, status: status, text: text}
	}

	var detail string
	if json.Unmarshal(rawDetail, &detail) == nil {
		if detail == "" {
			return failure{shape: shapeNoDetail, status: status, text: text}
		}
		return failure{shape: shapeDetailString, status: status, detail: detail}
	}

	if status == http.StatusUnprocessableEntity {
		var entries []json.RawMessage
		if json.Unmarshal(rawDetail, &entries) == nil && len(entries) > 0 {
			if fields, ok := decodeFieldErrors(entries); ok {
				return failure{shape: shapeFieldList, status: status, fields: fields}
			}
		}
	}

	return failure{shape: shapeDetailObject, status: status, rawDetail: rawDetail}
}

// decodeFieldErrors requires every entry to be a field error object.
func decodeFieldErrors(entries []json.RawMessage) ([]fieldError, bool) {
	fields := make([]fieldError, 0, len(entries))
	for _, e := range entries {
		trimmed := bytes.TrimSpace(e)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, false
		}
		var fe fieldError
		if err := json.Unmarshal(trimmed, &fe); err != nil {
			return nil, false
		}
		fields = append(fields, fe)
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (f failure) kind() FailureKind {
	switch f.shape {
	case shapeTransport:
		return TransportFailure
	case shapeFieldList:
		return ValidationFailure
	case shapeDetailString:
		return DomainFailure
	default:
		return OpaqueFailure
	}
}

func (f failure) message() string {
	switch f.shape {
	case shapeTransport:
		return "network error: " + f.cause.Error()
	case shapeFieldList:
		parts := make([]string, 0, len(f.fields))
		for _, fe := range f.fields {
			parts = append(parts, fe.describe())
		}
		return strings.Join(parts, "; ")
	case shapeDetailString:
		return f.detail
	case shapeDetailObject:
		return OpaqueDetailMessage
	case shapeNoDetail:
		return withText(f.status, "raw error body", f.text)
	case shapeNotJSON:
		return withText(f.status, "response text", f.text)
	}
	return genericMessage(f.status)
}

func (f failure) apiError() *APIError {
	return &APIError{Message: f.message(), kind: f.kind()}
}

func genericMessage(status int) string {
	return fmt.Sprintf("request failed (status %d)", status)
}

func withText(status int, label, text string) string {
	if text == "" {
		return genericMessage(status)
	}
	return genericMessage(status) + ". " + label + ": " + text
}

var typeMismatchMarkers = []string{
	"must be a valid string",
	"value is not a valid string",
	"should be a valid string",
}

func (fe fieldError) describe() string {
	field := fe.field()
	msg := strings.ReplaceAll(fe.Msg, "Value error, ", "")
	if msg == "" {
		msg = "invalid value"
	}
	for _, marker := range typeMismatchMarkers {
		if strings.Contains(msg, marker) {
			return "field type error: " + field
		}
	}
	return field + ": " + msg
}

// field picks the field name out of loc, e.g. ["body", "tel"] -> "tel".
func (fe fieldError) field() string {
	if len(fe.Loc) == 0 {
		return "field"
	}
	return fmt.Sprint(fe.Loc[len(fe.Loc)-1])
}
