// Package middleware validates HTTP request bodies against a marker. The
// handlers are plain func(http.Handler) http.Handler values, so they plug into
// net/http and routers such as chi alike.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/marker"
)

type ctxKeyProps struct{}

// ContextWithProps attaches validated props to the context.
func ContextWithProps(ctx context.Context, p *marker.Props) context.Context {
	return context.WithValue(ctx, ctxKeyProps{}, p)
}

// PropsFromContext retrieves the props stored by Validate.
func PropsFromContext(ctx context.Context) (*marker.Props, bool) {
	p, ok := ctx.Value(ctxKeyProps{}).(*marker.Props)
	return p, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies over 1 MiB are rejected
func DefaultParseOpt() intellitype.ParseOpt {
	return intellitype.ParseOpt{
		Strictness: intellitype.Strictness{OnDuplicateKey: intellitype.Error},
		MaxBytes:   1 << 20,
	}
}

// IssueJSON is the wire form of one issue.
type IssueJSON struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []intellitype.Issue) map[string]any {
	out := make([]IssueJSON, 0, len(issues))
	for _, it := range issues {
		out = append(out, IssueJSON{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint})
	}
	return map[string]any{"issues": out}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Validate decodes the JSON request body, validates it as the data of m and
// stores the props in the request context. Invalid bodies get a 422 with the
// issues; marker configuration errors a 500.
func Validate(m *marker.Marker, opts ...intellitype.ParseOpt) func(http.Handler) http.Handler {
	opt := DefaultParseOpt()
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			props, err := m.ValidateFrom(r.Context(), intellitype.JSONReader(r.Body), opt)
			if err != nil {
				if iss, ok := intellitype.AsIssues(err); ok {
					WriteJSON(w, http.StatusUnprocessableEntity, ErrorPayload(iss))
					return
				}
				status := http.StatusInternalServerError
				if !errors.Is(err, intellitype.ErrConfiguration) {
					status = http.StatusBadRequest
				}
				http.Error(w, err.Error(), status)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithProps(r.Context(), props)))
		})
	}
}
