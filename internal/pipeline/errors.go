package pipeline

import "fmt"

// Fetch failure kinds.
const (
	FetchNetwork = "network" // request could not be sent or the connection failed
	FetchStatus  = "status"  // server answered with a non-2xx status
	FetchRead    = "read"    // body or file could not be read
	FetchParse   = "parse"   // body was not valid CSV/JSON
)

// SourceFetchError is the single error type for every ingestion failure.
type SourceFetchError struct {
	Kind       string
	Message    string
	StatusCode int    // set for FetchStatus
	Body       string // response body text for FetchStatus, truncated
	Cause      error
}

func (e *SourceFetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SourceFetchError) Unwrap() error { return e.Cause }

func fetchErr(kind, msg string, cause error) *SourceFetchError {
	return &SourceFetchError{Kind: kind, Message: msg, Cause: cause}
}

// TransformError reports a transform configuration that cannot be applied.
type TransformError struct {
	Stage   string
	Message string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %s", e.Stage, e.Message)
}
