package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   FailureKind
		want   string
	}{
		{
			name:   "validation list joined in order",
			status: 422,
			body: `{"detail":[
				{"loc":["body","tel"],"msg":"Value error, tel must be 11 digits starting with 1","type":"value_error"},
				{"loc":["body","email"],"msg":"Value error, email has an invalid format","type":"value_error"}]}`,
			kind: ValidationFailure,
			want: "tel: tel must be 11 digits starting with 1; email: email has an invalid format",
		},
		{
			name:   "type mismatch becomes fixed phrase",
			status: 422,
			body:   `{"detail":[{"loc":["body","name"],"msg":"Input should be a valid string","type":"string_type"},{"loc":["body","id"],"msg":"str type expected: value is not a valid string"}]}`,
			kind:   ValidationFailure,
			want:   "field type error: name; field type error: id",
		},
		{
			name:   "every qualifier is stripped",
			status: 422,
			body:   `{"detail":[{"loc":["body","hobby"],"msg":"Value error, Value error, too long"}]}`,
			kind:   ValidationFailure,
			want:   "hobby: too long",
		},
		{
			name:   "single element loc",
			status: 422,
			body:   `{"detail":[{"loc":["body"],"msg":"JSON decode error"}]}`,
			kind:   ValidationFailure,
			want:   "body: JSON decode error",
		},
		{
			name:   "string detail verbatim",
			status: 409,
			body:   `{"detail":"create failed: id 2023000000001 already exists"}`,
			kind:   DomainFailure,
			want:   "create failed: id 2023000000001 already exists",
		},
		{
			name:   "string detail on 422 is verbatim too",
			status: 422,
			body:   `{"detail":"  odd spacing kept  "}`,
			kind:   DomainFailure,
			want:   "  odd spacing kept  ",
		},
		{
			name:   "object detail is placeholder",
			status: 500,
			body:   `{"detail":{"code":"E1","trace":[1,2,3]}}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "array detail outside 422 is placeholder",
			status: 400,
			body:   `{"detail":[{"loc":["body","id"],"msg":"x"}]}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "422 list with non-object entries is placeholder",
			status: 422,
			body:   `{"detail":["oops",5]}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "422 list with one malformed entry is placeholder",
			status: 422,
			body:   `{"detail":[{"loc":["body","tel"],"msg":"bad"},null]}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "422 entry with wrong field types is placeholder",
			status: 422,
			body:   `{"detail":[{"loc":"tel","msg":3}]}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "numeric detail is placeholder",
			status: 418,
			body:   `{"detail":42}`,
			kind:   OpaqueFailure,
			want:   OpaqueDetailMessage,
		},
		{
			name:   "no detail appends raw body",
			status: 500,
			body:   `{"error":"boom"}`,
			kind:   OpaqueFailure,
			want:   `request failed (status 500). raw error body: {"error":"boom"}`,
		},
		{
			name:   "empty string detail counts as absent",
			status: 400,
			body:   `{"detail":""}`,
			kind:   OpaqueFailure,
			want:   `request failed (status 400). raw error body: {"detail":""}`,
		},
		{
			name:   "null detail counts as absent",
			status: 404,
			body:   `{"detail":null}`,
			kind:   OpaqueFailure,
			want:   `request failed (status 404). raw error body: {"detail":null}`,
		},
		{
			name:   "json that is not an object",
			status: 502,
			body:   `"bad gateway"`,
			kind:   OpaqueFailure,
			want:   `request failed (status 502). raw error body: "bad gateway"`,
		},
		{
			name:   "not json appends response text",
			status: 502,
			body:   "<html>Bad Gateway</html>\n",
			kind:   OpaqueFailure,
			want:   "request failed (status 502). response text: <html>Bad Gateway</html>",
		},
		{
			name:   "empty body",
			status: 503,
			body:   "",
			kind:   OpaqueFailure,
			want:   "request failed (status 503)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := classify(tt.status, []byte(tt.body)).apiError()
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.kind, apiErr.kind)
		})
	}
}

func TestObjectDetailPlaceholderIgnoresShape(t *testing.T) {
	for _, body := range []string{
		`{"detail":{}}`,
		`{"detail":{"nested":{"deep":true}}}`,
		`{"detail":true}`,
		`{"detail":[]}`,
	} {
		assert.Equal(t, OpaqueDetailMessage, classify(500, []byte(body)).message(), body)
	}
}

func TestTransportFailureMessage(t *testing.T) {
	f := failure{shape: shapeTransport, cause: errors.New("dial tcp 127.0.0.1:1: connect: connection refused")}
	apiErr := f.apiError()
	assert.Equal(t, TransportFailure, apiErr.kind)
	assert.Equal(t, "network error: dial tcp 127.0.0.1:1: connect: connection refused", apiErr.Error())
}

func TestFailureKindString(t *testing.T) {
	assert.Equal(t, "validation", ValidationFailure.String())
	assert.Equal(t, "unknown", FailureKind(0).String())
}
