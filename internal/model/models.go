package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SourceKind identifies how rows are fetched for a data source.
type SourceKind string

const (
	KindAPI    SourceKind = "api"
	KindCSV    SourceKind = "csv"
	KindJSON   SourceKind = "json"
	KindStatic SourceKind = "static"
)

// SourceConfig describes a data source. Exactly one Kind is active; fields that
// do not apply to it are ignored.
type SourceConfig struct {
	Kind     SourceKind             `json:"type"`
	URL      string                 `json:"url,omitempty"`
	Method   string                 `json:"method,omitempty"`
	Headers  map[string]HeaderValue `json:"headers,omitempty"`
	Params   map[string]string      `json:"params,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
	DataType string                 `json:"dataType,omitempty"` // static only: sales, users, generic
}

// Normalize lowercases the kind tag so "CSV" and "csv" bind the same way.
func (c SourceConfig) Normalize() SourceConfig {
	c.Kind = SourceKind(strings.ToLower(strings.TrimSpace(string(c.Kind))))
	return c
}

// HeaderValue is either a literal header value or a reference to a named secret.
//
// JSON forms:
//
//	"Authorization": "Bearer abc"            literal
//	"Authorization": {"secret": "API_KEY"}   reference
//	"Authorization": "Bearer {{API_KEY}}"    legacy placeholder, also a reference
type HeaderValue struct {
	Literal string `json:"-"`
	Secret  string `json:"-"`
}

// Literal builds a plain header value.
func Literal(v string) HeaderValue { return HeaderValue{Literal: v} }

// SecretRef builds a header value resolved from the named secret.
func SecretRef(name string) HeaderValue { return HeaderValue{Secret: name} }

func (h HeaderValue) MarshalJSON() ([]byte, error) {
	if h.Secret != "" {
		return json.Marshal(map[string]string{"secret": h.Secret})
	}
	return json.Marshal(h.Literal)
}

func (h *HeaderValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*h = HeaderValue{Literal: s}
		return nil
	}
	var ref struct {
		Secret string `json:"secret"`
	}
	if err := json.Unmarshal(b, &ref); err != nil {
		return fmt.Errorf("header value must be a string or {\"secret\": name}: %w", err)
	}
	if strings.TrimSpace(ref.Secret) == "" {
		return fmt.Errorf("header secret reference has an empty name")
	}
	*h = HeaderValue{Secret: ref.Secret}
	return nil
}
