package web

import (
	"context"
	"net/http"
	"time"
)

type ctxKey int

const (
	valuesKey ctxKey = iota + 1
	writerKey
)

// Values represent state for each request. The pointer lives in the request
// context so middleware can attach diagnostic attributes, such as the
// resolved tenant, after the values are created.
type Values struct {
	TraceID    string
	TenantID   string
	Now        time.Time
	StatusCode int
}

func setValues(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, valuesKey, v)
}

// GetValues returns the values from the context.
func GetValues(ctx context.Context) *Values {
	v, ok := ctx.Value(valuesKey).(*Values)
	if !ok {
		return &Values{
			TraceID: "00000000-0000-0000-0000-000000000000",
			Now:     time.Now(),
		}
	}

	return v
}

// GetTraceID returns the trace id from the context.
func GetTraceID(ctx context.Context) string {
	return GetValues(ctx).TraceID
}

// SetTraceID overrides the generated trace id, used when the caller
// provided a correlation id of its own.
func SetTraceID(ctx context.Context, traceID string) {
	GetValues(ctx).TraceID = traceID
}

// SetTenantID attaches the resolved tenant to the request diagnostics so
// every log line for this request can be correlated to the tenant. Failure
// to attach is non-fatal.
func SetTenantID(ctx context.Context, tenantID string) {
	GetValues(ctx).TenantID = tenantID
}

// GetTenantID returns the diagnostic tenant attribute, or the empty string.
func GetTenantID(ctx context.Context) string {
	return GetValues(ctx).TenantID
}

// ClearTenantID removes the diagnostic tenant attribute.
func ClearTenantID(ctx context.Context) {
	GetValues(ctx).TenantID = ""
}

// setStatusCode sets the status code back into the context.
func setStatusCode(ctx context.Context, statusCode int) {
	GetValues(ctx).StatusCode = statusCode
}

func setWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey, w)
}

// GetWriter returns the underlying writer for the request.
func GetWriter(ctx context.Context) http.ResponseWriter {
	v, ok := ctx.Value(writerKey).(http.ResponseWriter)
	if !ok {
		return nil
	}

	return v
}
