package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"personnel/internal/server/repository/sqlite"
	"personnel/internal/server/service"
	"personnel/internal/shared/models"
)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := sqlite.New("file:http_" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if opts.MaxRequestBytes == 0 {
		opts.MaxRequestBytes = 1 << 20
	}
	return NewRouter(service.NewServices(repo), nil, opts)
}

func doRaw(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var s string
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		s = string(b)
	}
	return doRaw(t, h, method, path, s, nil)
}

type detailList struct {
	Detail []service.FieldError `json:"detail"`
}

type detailString struct {
	Detail string `json:"detail"`
}

func alice() map[string]any {
	return map[string]any{
		"id":    "1000000000001",
		"name":  "Alice",
		"email": "alice@example.com",
		"tel":   "13800000001",
		"hobby": "chess",
	}
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRaw(t, ts, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Personnel API"}`, rr.Body.String())
}

func TestHealthUnavailable(t *testing.T) {
	ts := newTestServer(t, Options{Health: func(context.Context) error { return errors.New("db gone") }})
	rr := doRaw(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestOpenAPIDocument(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var doc struct {
		Paths map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Contains(t, doc.Paths, "/personnel/")
	assert.Contains(t, doc.Paths, "/personnel/{id}")
}

func TestPersonnelCRUD(t *testing.T) {
	ts := newTestServer(t, Options{})

	rr := doJSON(t, ts, http.MethodPost, "/personnel/", alice())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created models.Person
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "1000000000001", created.ID)
	assert.False(t, created.CreatedTime.IsZero())

	rr = doJSON(t, ts, http.MethodPost, "/personnel/", alice())
	require.Equal(t, http.StatusConflict, rr.Code)
	var conflict detailString
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &conflict))
	assert.Equal(t, "personnel with id 1000000000001 already exists", conflict.Detail)

	rr = doRaw(t, ts, http.MethodGet, "/personnel/1000000000001", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRaw(t, ts, http.MethodGet, "/personnel/?mode=ascend", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list models.PersonList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Items, 1)

	rr = doRaw(t, ts, http.MethodPut, "/personnel/1000000000001", `{"name":"Alicia","hobby":null}`, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated models.Person
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Alicia", updated.Name)
	assert.Nil(t, updated.Hobby)
	assert.Equal(t, "alice@example.com", updated.Email)

	rr = doRaw(t, ts, http.MethodDelete, "/personnel/1000000000001", "", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())

	rr = doRaw(t, ts, http.MethodGet, "/personnel/1000000000001", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	var missing detailString
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &missing))
	assert.Equal(t, "personnel with id 1000000000001 not found", missing.Detail)

	rr = doRaw(t, ts, http.MethodDelete, "/personnel/1000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListWithoutTrailingSlash(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/personnel", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[],"count":0}`, rr.Body.String())
}

func TestListInvalidMode(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/personnel/?mode=sideways", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var body detailList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []any{"query", "mode"}, body.Detail[0].Loc)
}

func TestCreateFieldErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodPost, "/personnel/", `{"id":"1000000000001","name":5,"email":"a@b.co","hobby":"x","extra":true}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var body detailList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Detail, 2)
	assert.Equal(t, []any{"body", "name"}, body.Detail[0].Loc)
	assert.Equal(t, "Input should be a valid string", body.Detail[0].Msg)
	assert.Equal(t, []any{"body", "tel"}, body.Detail[1].Loc)
	assert.Equal(t, "Field required", body.Detail[1].Msg)
}

func TestCreateValueErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	in := alice()
	in["tel"] = "23800000001"
	rr := doJSON(t, ts, http.MethodPost, "/personnel/", in)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var body detailList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, "Value error, tel must be 11 digits starting with 1", body.Detail[0].Msg)
}

func TestMalformedBodies(t *testing.T) {
	ts := newTestServer(t, Options{})
	cases := map[string]string{
		"{":    "JSON decode error",
		"":     "Field required",
		"[1]":  "Input should be a valid dictionary or object to extract fields from",
		"null": "Input should be a valid dictionary or object to extract fields from",
	}
	for in, want := range cases {
		rr := doRaw(t, ts, http.MethodPost, "/personnel/", in, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code, "body %q", in)
		var body detailList
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Detail, 1)
		assert.Equal(t, want, body.Detail[0].Msg, "body %q", in)
		assert.Equal(t, []any{"body"}, body.Detail[0].Loc)
	}
}

func TestBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, Options{MaxRequestBytes: 16})
	b, _ := json.Marshal(alice())
	rr := doRaw(t, ts, http.MethodPost, "/personnel/", string(b), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRenameConflict(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.Equal(t, http.StatusCreated, doJSON(t, ts, http.MethodPost, "/personnel/", alice()).Code)
	bob := alice()
	bob["id"] = "1000000000002"
	require.Equal(t, http.StatusCreated, doJSON(t, ts, http.MethodPost, "/personnel/", bob).Code)

	rr := doRaw(t, ts, http.MethodPut, "/personnel/1000000000002", `{"id":"1000000000001"}`, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = doRaw(t, ts, http.MethodPut, "/personnel/1999999999999", `{"name":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	rr = doRaw(t, ts, http.MethodGet, "/health", "", map[string]string{RequestIDHeader: "abc123"})
	assert.Equal(t, "abc123", rr.Header().Get(RequestIDHeader))
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	ts := newTestServer(t, Options{})
	doRaw(t, ts, http.MethodGet, "/personnel/1000000000009", "", nil)
	rr := doRaw(t, ts, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `personnel_http_requests_total{method="GET",path="/personnel/{id}",status="404"} 1`)
	assert.NotContains(t, body, "1000000000009")
}

func TestMetricsFoldUnmatchedPaths(t *testing.T) {
	ts := newTestServer(t, Options{})
	for i := 0; i < 20; i++ {
		rr := doRaw(t, ts, http.MethodGet, fmt.Sprintf("/scan/%d", i), "", nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	}
	body := doRaw(t, ts, http.MethodGet, "/metrics", "", nil).Body.String()
	assert.Contains(t, body, `personnel_http_requests_total{method="GET",path="unmatched",status="404"} 20`)
	assert.NotContains(t, body, "/scan/")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodOptions, "/personnel/", "", map[string]string{
		"Origin":                        "http://localhost:5500",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := doRaw(t, ts, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rr.Body.String())
}
