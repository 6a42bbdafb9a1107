package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dashboard-pipeline/internal/auth"
	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/internal/httpds"
	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/internal/pipeline"
	"dashboard-pipeline/internal/store"
	"dashboard-pipeline/pkg/utils"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	v, err := auth.NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	uploads := utils.NewUploadManager(t.TempDir(), 64)
	svc := pipeline.NewService(pipeline.Options{
		HTTP:    httpds.NewClient(httpds.Config{Timeout: 2 * time.Second}),
		Secrets: config.NewSecrets(map[string]string{"API_TOKEN": "s3cret"}),
		Uploads: uploads,
		Cache:   pipeline.NewMemoryCache(time.Minute),
	})
	return New(svc, store.NewMemory(), uploads, v)
}

// call runs fn as user with a JSON body.
func call(fn http.HandlerFunc, user, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: user}))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestFetchData_StaticInline(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := call(h.FetchData, "u1", http.MethodPost, "/fetch-data", map[string]interface{}{
		"config": map[string]interface{}{"type": "static", "dataType": "sales", "limit": 5},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body)
	}
	var resp struct {
		Data     []map[string]interface{} `json:"data"`
		Metadata struct {
			RowCount    int       `json:"rowCount"`
			Columns     []string  `json:"columns"`
			LastUpdated time.Time `json:"lastUpdated"`
		} `json:"metadata"`
	}
	decode(t, rec, &resp)
	if len(resp.Data) != 5 || resp.Metadata.RowCount != 5 {
		t.Fatalf("rows: got %d/%d, want 5", len(resp.Data), resp.Metadata.RowCount)
	}
	want := []string{"id", "date", "product", "revenue", "quantity", "region"}
	if strings.Join(resp.Metadata.Columns, ",") != strings.Join(want, ",") {
		t.Fatalf("columns: got %v, want %v", resp.Metadata.Columns, want)
	}
	if resp.Metadata.LastUpdated.IsZero() {
		t.Fatalf("lastUpdated not set")
	}
}

func TestFetchData_UpstreamFailureIs400(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such thing", http.StatusNotFound)
	}))
	defer srv.Close()

	rec := call(h.FetchData, "u1", http.MethodPost, "/fetch-data", map[string]interface{}{
		"config": map[string]interface{}{"type": "api", "url": srv.URL},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	decode(t, rec, &resp)
	if resp.Error == "" || !strings.Contains(resp.Details, "404") {
		t.Fatalf("got %+v", resp)
	}
}

func TestFetchData_StoredSourceIsOwnerScoped(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	ds := &model.DataSource{OwnerID: "alice", Name: "users", Config: model.SourceConfig{Kind: model.KindStatic, DataType: "users", Limit: 3}}
	if err := h.Store.CreateSource(context.Background(), ds); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	rec := call(h.FetchData, "alice", http.MethodPost, "/fetch-data", map[string]string{"dataSourceId": ds.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: got %d, want 200 (%s)", rec.Code, rec.Body)
	}
	rec = call(h.FetchData, "mallory", http.MethodPost, "/fetch-data", map[string]string{"dataSourceId": ds.ID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other user: got %d, want 404", rec.Code)
	}
	rec = call(h.FetchData, "alice", http.MethodPost, "/fetch-data", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty request: got %d, want 400", rec.Code)
	}
}

func TestFetchData_UndefinedSecretIs400(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := call(h.FetchData, "u1", http.MethodPost, "/fetch-data", map[string]interface{}{
		"config": map[string]interface{}{
			"type":    "api",
			"url":     "http://127.0.0.1:1",
			"headers": map[string]interface{}{"Authorization": map[string]string{"secret": "MISSING"}},
		},
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "MISSING") {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

func TestTransformData(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	body := `{
		"data": [{"cat":"a","v":1},{"cat":"b","v":5},{"cat":"a","v":3}],
		"transformConfig": {
			"pagination": {"page": 1, "pageSize": 1},
			"filters": [{"column":"cat","operator":"equals","value":"a"}],
			"sort": {"column":"v","direction":"desc"}
		}
	}`
	rec := call(h.TransformData, "u1", http.MethodPost, "/transform-data", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body)
	}
	var resp TransformDataResponse
	decode(t, rec, &resp)
	if len(resp.Data) != 1 || resp.Data[0]["v"] != 3.0 {
		t.Fatalf("data: got %v", resp.Data)
	}
	if resp.Metadata.OriginalRowCount != 3 || resp.Metadata.TransformedRowCount != 1 {
		t.Fatalf("metadata: got %+v", resp.Metadata)
	}
	if got := strings.Join(resp.Metadata.Transformations, ","); got != "filters,sort,pagination" {
		t.Fatalf("transformations: got %q", got)
	}
}

func TestTransformData_BadAggregationIs400(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := call(h.TransformData, "u1", http.MethodPost, "/transform-data",
		`{"data":[{"v":1}],"transformConfig":{"aggregations":{"v":"median"}}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	rec = call(h.TransformData, "u1", http.MethodPost, "/transform-data", `{"data":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad JSON: got %d, want 400", rec.Code)
	}
}

func TestValidateSource(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := call(h.ValidateSource, "u1", http.MethodPost, "/validate-source", map[string]interface{}{
		"config": map[string]interface{}{"type": "static", "dataType": "users"},
	})
	var ok pipeline.ValidationResult
	decode(t, rec, &ok)
	if rec.Code != http.StatusOK || !ok.IsValid || len(ok.Schema) != 7 {
		t.Fatalf("valid source: %d %+v", rec.Code, ok)
	}

	rec = call(h.ValidateSource, "u1", http.MethodPost, "/validate-source", map[string]interface{}{
		"config": map[string]interface{}{"type": "ftp"},
	})
	var raw map[string]interface{}
	decode(t, rec, &raw)
	if rec.Code != http.StatusOK || raw["isValid"] != false || raw["schema"] != nil || raw["sampleData"] != nil {
		t.Fatalf("unknown kind: %d %v", rec.Code, raw)
	}
}

func TestPreviewData(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := call(h.PreviewData, "u1", http.MethodPost, "/preview-data", map[string]interface{}{
		"config": map[string]interface{}{"type": "static", "dataType": "generic"},
	})
	var resp struct {
		Data     []map[string]interface{} `json:"data"`
		Metadata PreviewMetadata          `json:"metadata"`
	}
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || len(resp.Data) != 10 {
		t.Fatalf("got %d rows (%d)", len(resp.Data), rec.Code)
	}
	if !resp.Metadata.IsPreview || resp.Metadata.Limit != 10 || resp.Metadata.RowCount != 10 {
		t.Fatalf("metadata: %+v", resp.Metadata)
	}

	rec = call(h.PreviewData, "u1", http.MethodPost, "/preview-data", map[string]interface{}{
		"config": map[string]interface{}{"type": "ftp"},
		"limit":  3,
	})
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || len(resp.Data) != 0 || resp.Metadata.Columns == nil {
		t.Fatalf("unknown kind: %d %+v", rec.Code, resp)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	var seen string
	protected := h.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		seen = owner(r)
	})

	req := httptest.NewRequest(http.MethodPost, "/fetch-data", nil)
	rec := httptest.NewRecorder()
	protected(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", rec.Code)
	}

	token, err := h.Verifier.Issue("alice", "alice@example.com", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/fetch-data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected(rec, req)
	if rec.Code != http.StatusOK || seen != "alice" {
		t.Fatalf("valid token: got %d, owner %q", rec.Code, seen)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{&pipeline.SourceFetchError{Kind: pipeline.FetchStatus, StatusCode: 502}, http.StatusBadRequest},
		{&pipeline.TransformError{Stage: "aggregations"}, http.StatusBadRequest},
		{&config.ConfigError{Field: "url"}, http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{auth.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("%v: got %d, want %d", tt.err, got, tt.want)
		}
	}
}
