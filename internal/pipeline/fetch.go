package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/internal/httpds"
	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

const (
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 64 << 20
	// maxErrorBody caps the response text carried by a status error.
	maxErrorBody = 4 << 10
)

// Env carries what sources need at fetch time. The zero value is usable for
// static sources only.
type Env struct {
	HTTP    *httpds.Client
	Secrets config.Secrets
	Uploads *utils.UploadManager

	// Owner scopes upload:// locators; empty disables the check.
	Owner string

	Now     func() time.Time
	NewRand func() *rand.Rand
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) rand() *rand.Rand {
	if e.NewRand != nil {
		return e.NewRand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (e Env) client() *httpds.Client {
	if e.HTTP != nil {
		return e.HTTP
	}
	return httpds.NewClient(httpds.Config{})
}

// Source is a bound data source. Fetch returns at most limit rows when
// limit > 0; otherwise the source's configured limit (if any) applies.
type Source interface {
	Kind() model.SourceKind
	Fetch(ctx context.Context, limit int) (model.Dataset, error)
}

// Bind selects the source variant for cfg once. Header secrets are resolved
// here, so a missing secret fails before any request is sent. Unknown kinds
// bind to a source that yields no rows.
func Bind(cfg model.SourceConfig, env Env) (Source, error) {
	cfg = cfg.Normalize()

	switch cfg.Kind {
	case model.KindAPI:
		headers, err := env.Secrets.ResolveHeaders(cfg.Headers)
		if err != nil {
			return nil, err
		}
		u, err := buildURL(cfg.URL, cfg.Params)
		if err != nil {
			return nil, err
		}
		method := strings.ToUpper(strings.TrimSpace(cfg.Method))
		if method == "" {
			method = http.MethodGet
		}
		return &APISource{URL: u, Method: method, Headers: headers, Limit: cfg.Limit, env: env}, nil
	case model.KindCSV:
		if err := requireURL(cfg.URL); err != nil {
			return nil, err
		}
		return &CSVSource{URL: cfg.URL, Limit: cfg.Limit, env: env}, nil
	case model.KindJSON:
		if err := requireURL(cfg.URL); err != nil {
			return nil, err
		}
		return &JSONSource{URL: cfg.URL, Limit: cfg.Limit, env: env}, nil
	case model.KindStatic:
		return &StaticSource{DataType: cfg.DataType, Limit: cfg.Limit, env: env}, nil
	default:
		log.Printf("⚠️ unknown source type %q, returning no rows", cfg.Kind)
		return unknownSource{kind: cfg.Kind}, nil
	}
}

func requireURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &config.ConfigError{Field: "url", Message: "must not be empty"}
	}
	return nil
}

// buildURL appends params to base's query string.
func buildURL(base string, params map[string]string) (string, error) {
	if err := requireURL(base); err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", &config.ConfigError{Field: "url", Message: err.Error()}
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func effectiveLimit(call, configured int) int {
	if call > 0 {
		return call
	}
	return configured
}

// ------------------- API -------------------

// APISource issues one HTTP request and decodes the JSON body.
type APISource struct {
	URL     string
	Method  string
	Headers http.Header
	Limit   int
	env     Env
}

func (s *APISource) Kind() model.SourceKind { return model.KindAPI }

func (s *APISource) Fetch(ctx context.Context, limit int) (model.Dataset, error) {
	log.Printf("🌐 %s %s", s.Method, redactURL(s.URL))
	body, err := doRequest(ctx, s.env.client(), s.Method, s.URL, s.Headers, "API request failed")
	if err != nil {
		return model.Dataset{}, err
	}
	return decodeJSON(body, effectiveLimit(limit, s.Limit))
}

// ------------------- JSON -------------------

// JSONSource downloads a JSON document with GET.
type JSONSource struct {
	URL   string
	Limit int
	env   Env
}

func (s *JSONSource) Kind() model.SourceKind { return model.KindJSON }

func (s *JSONSource) Fetch(ctx context.Context, limit int) (model.Dataset, error) {
	log.Printf("🌐 GET JSON: %s", redactURL(s.URL))
	body, err := doRequest(ctx, s.env.client(), http.MethodGet, s.URL, nil, "Failed to fetch JSON")
	if err != nil {
		return model.Dataset{}, err
	}
	return decodeJSON(body, effectiveLimit(limit, s.Limit))
}

// ------------------- CSV -------------------

// CSVSource downloads CSV text with GET, or reads an upload:// file.
type CSVSource struct {
	URL   string
	Limit int
	env   Env
}

func (s *CSVSource) Kind() model.SourceKind { return model.KindCSV }

func (s *CSVSource) Fetch(ctx context.Context, limit int) (model.Dataset, error) {
	var text []byte
	var err error
	if strings.HasPrefix(s.URL, utils.UploadScheme) {
		text, err = s.readUpload()
	} else {
		log.Printf("📄 GET CSV: %s", redactURL(s.URL))
		text, err = doRequest(ctx, s.env.client(), http.MethodGet, s.URL, nil, "Failed to fetch CSV")
	}
	if err != nil {
		return model.Dataset{}, err
	}

	ds := ParseCSV(string(text), effectiveLimit(limit, s.Limit))
	log.Printf("📄 CSV ingestion done: %d records read from %s", len(ds.Rows), redactURL(s.URL))
	return ds, nil
}

func (s *CSVSource) readUpload() ([]byte, error) {
	if s.env.Uploads == nil {
		return nil, fetchErr(FetchRead, "uploads are not enabled", nil)
	}
	if s.env.Owner != "" {
		owner, _, _ := strings.Cut(strings.TrimPrefix(s.URL, utils.UploadScheme), "/")
		if path.Clean(owner) != s.env.Owner {
			return nil, fetchErr(FetchRead, "upload belongs to another user", nil)
		}
	}
	f, err := s.env.Uploads.Open(s.URL)
	if err != nil {
		return nil, fetchErr(FetchRead, "failed to open uploaded CSV", err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxBodyBytes))
	if err != nil {
		return nil, fetchErr(FetchRead, "failed to read uploaded CSV", err)
	}
	return b, nil
}

// ------------------- unknown -------------------

type unknownSource struct{ kind model.SourceKind }

func (u unknownSource) Kind() model.SourceKind { return u.kind }

func (unknownSource) Fetch(context.Context, int) (model.Dataset, error) {
	return model.Dataset{Columns: []string{}, Rows: []model.Row{}}, nil
}

// IsUnknown reports whether src was bound from an unsupported kind.
func IsUnknown(src Source) bool {
	_, ok := src.(unknownSource)
	return ok
}

// ------------------- shared helpers -------------------

// doRequest performs the request and returns the body of a 2xx response.
func doRequest(ctx context.Context, c *httpds.Client, method, target string, headers http.Header, failMsg string) ([]byte, error) {
	resp, err := c.Do(ctx, method, target, nil, headers)
	if err != nil {
		return nil, fetchErr(FetchNetwork, failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &SourceFetchError{
			Kind:       FetchStatus,
			Message:    fmt.Sprintf("%s: %d %s", failMsg, resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode: resp.StatusCode,
			Body:       string(text),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fetchErr(FetchRead, "failed to read response body", err)
	}
	return body, nil
}

// decodeJSON accepts an array (truncated to limit, non-object items skipped)
// or a single object (returned unmodified). Column order follows the first
// object's keys.
func decodeJSON(body []byte, limit int) (model.Dataset, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return model.Dataset{}, fetchErr(FetchParse, "failed to decode JSON", io.ErrUnexpectedEOF)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return model.Dataset{}, fetchErr(FetchParse, "failed to decode JSON", err)
		}
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		ds := model.Dataset{Columns: []string{}, Rows: make([]model.Row, 0, len(items))}
		for _, item := range items {
			var row model.Row
			if err := json.Unmarshal(item, &row); err != nil || row == nil {
				continue
			}
			if len(ds.Rows) == 0 {
				ds.Columns = objectKeys(item)
			}
			ds.Rows = append(ds.Rows, row)
		}
		return ds, nil
	case '{':
		var row model.Row
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return model.Dataset{}, fetchErr(FetchParse, "failed to decode JSON", err)
		}
		return model.Dataset{Columns: objectKeys(trimmed), Rows: []model.Row{row}, Single: true}, nil
	default:
		return model.Dataset{}, fetchErr(FetchParse, "unexpected JSON structure: expected an array or an object", nil)
	}
}

// objectKeys lists the top-level keys of a JSON object in document order.
func objectKeys(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return []string{}
	}
	keys := []string{}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := tok.(string)
		if !ok {
			break
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			break
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// redactURL drops the query string before logging; it may carry credentials.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i] + "?…"
	}
	return raw
}
