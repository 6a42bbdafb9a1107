package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"dashboard-pipeline/internal/auth"
	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/internal/pipeline"
	"dashboard-pipeline/internal/store"
	"dashboard-pipeline/pkg/router"
	"dashboard-pipeline/pkg/utils"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 8 << 20

// Handler serves the HTTP API. Every field except Uploads is required.
type Handler struct {
	Service  *pipeline.Service
	Store    store.Store
	Uploads  *utils.UploadManager
	Verifier *auth.Verifier
	Now      func() time.Time
}

// New builds a Handler.
func New(svc *pipeline.Service, st store.Store, uploads *utils.UploadManager, v *auth.Verifier) *Handler {
	return &Handler{Service: svc, Store: st, Uploads: uploads, Verifier: v, Now: time.Now}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Authenticate rejects requests without a valid bearer token and puts the
// verified principal in the request context.
func (h *Handler) Authenticate(next router.HandlerFunc) router.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.Verifier.VerifyRequest(r)
		if err != nil {
			writeError(w, "Unauthorized", err)
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	}
}

// owner returns the authenticated user's id. Authenticate guarantees it is set.
func owner(r *http.Request) string {
	p, _ := auth.FromContext(r.Context())
	return p.UserID
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var (
		fetchErr     *pipeline.SourceFetchError
		transformErr *pipeline.TransformError
		configErr    *config.ConfigError
		bodyErr      *badRequest
		tooLarge     *http.MaxBytesError
	)
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &fetchErr), errors.As(err, &transformErr),
		errors.As(err, &configErr), errors.As(err, &bodyErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes {error, details} with the status statusFor picks.
func writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s: %v", msg, err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// badRequest marks malformed request input.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func invalidInput(msg string) error { return &badRequest{msg: msg} }

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return invalidInput("Invalid JSON payload: " + err.Error())
	}
	return nil
}

// Health reports that the service is up
// @Summary Health check
// @Description Liveness probe; does not require authentication
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.Now().UTC(),
		"version":   Version,
	})
}
