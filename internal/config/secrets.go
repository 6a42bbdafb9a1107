package config

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"dashboard-pipeline/internal/model"
)

// ConfigError reports configuration that cannot be used as given.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
}

// placeholder matches the legacy {{NAME}} credential token embedded in header strings.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Secrets is an immutable set of named secret values.
type Secrets struct {
	values map[string]string
}

// NewSecrets copies values into a Secrets set.
func NewSecrets(values map[string]string) Secrets {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Secrets{values: cp}
}

// Lookup returns the named secret.
func (s Secrets) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Resolve turns a header value into its final string. A reference to a
// secret that is not defined fails; it is never sent as a literal.
func (s Secrets) Resolve(header string, v model.HeaderValue) (string, error) {
	if v.Secret != "" {
		val, ok := s.Lookup(v.Secret)
		if !ok {
			return "", &ConfigError{Field: "headers." + header, Message: fmt.Sprintf("secret %q is not defined", v.Secret)}
		}
		return val, nil
	}

	var missing string
	out := placeholder.ReplaceAllStringFunc(v.Literal, func(tok string) string {
		name := placeholder.FindStringSubmatch(tok)[1]
		val, ok := s.Lookup(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return tok
		}
		return val
	})
	if missing != "" {
		return "", &ConfigError{Field: "headers." + header, Message: fmt.Sprintf("secret %q is not defined", missing)}
	}
	return out, nil
}

// ResolveHeaders resolves every header value of a source configuration.
func (s Secrets) ResolveHeaders(headers map[string]model.HeaderValue) (http.Header, error) {
	out := make(http.Header, len(headers))
	for k, v := range headers {
		val, err := s.Resolve(k, v)
		if err != nil {
			return nil, err
		}
		out.Set(strings.TrimSpace(k), val)
	}
	return out, nil
}
