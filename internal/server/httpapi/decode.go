package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"personnel/internal/server/service"
)

var submissionFields = []string{"id", "name", "email", "tel", "hobby"}

// decodeSubmission reads a JSON object body. Each known field must be a
// string or null; anything else is reported per field. Unknown fields are
// ignored.
func (r *Router) decodeSubmission(w http.ResponseWriter, req *http.Request) (service.Submission, error) {
	if r.maxRequestBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxRequestBytes)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Submission{}, &service.Error{Status: http.StatusRequestEntityTooLarge, Detail: "request entity too large"}
		}
		return service.Submission{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return service.Submission{}, service.ValidationErrors{{Loc: []any{"body"}, Msg: "Field required", Type: "missing"}}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return service.Submission{}, service.ValidationErrors{{
				Loc:  []any{"body"},
				Msg:  "Input should be a valid dictionary or object to extract fields from",
				Type: "model_attributes_type",
			}}
		}
		return service.Submission{}, service.ValidationErrors{{Loc: []any{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
	}
	if raw == nil {
		return service.Submission{}, service.ValidationErrors{{
			Loc:  []any{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}
	}

	var sub service.Submission
	for _, name := range submissionFields {
		msg, ok := raw[name]
		if !ok {
			continue
		}
		v, valid := decodeValue(msg)
		if !valid {
			sub.Invalid = append(sub.Invalid, service.FieldError{
				Loc:  []any{"body", name},
				Msg:  "Input should be a valid string",
				Type: "string_type",
			})
			continue
		}
		switch name {
		case "id":
			sub.ID = v
		case "name":
			sub.Name = v
		case "email":
			sub.Email = v
		case "tel":
			sub.Tel = v
		case "hobby":
			sub.Hobby = v
		}
	}
	return sub, nil
}

func decodeValue(msg json.RawMessage) (service.Value, bool) {
	trimmed := bytes.TrimSpace(msg)
	if bytes.Equal(trimmed, []byte("null")) {
		return service.Null(), true
	}
	var s string
	if len(trimmed) == 0 || trimmed[0] != '"' || json.Unmarshal(trimmed, &s) != nil {
		return service.Value{}, false
	}
	return service.Str(s), true
}
