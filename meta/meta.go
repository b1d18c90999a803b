// Package meta carries request and process metadata through context.
package meta

import (
	"context"

	"github.com/code19m/errx"
)

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID correlates a report with the request or job that produced it.
	TraceID ContextKey = "trace_id"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// Operation describes what was running when the error happened, e.g. "GET /users".
	Operation ContextKey = "operation"
)

const (
	codeKeyNotFound  = "META_KEY_NOT_FOUND"
	codeTypeMismatch = "META_TYPE_MISMATCH"
)

//nolint:gochecknoglobals // fixed set of keys extracted from every context
var knownKeys = []ContextKey{
	TraceID,
	ServiceName,
	ServiceVersion,
	IPAddress,
	UserAgent,
	Operation,
}

// InjectMetaToContext adds metadata from the provided map to the context.
// Empty values are skipped.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns every known, non-empty string value found in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range knownKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the string value for key, or "" when it is absent or not a string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ShouldGetMeta returns the string value for key or an error describing why it is unavailable.
func ShouldGetMeta(ctx context.Context, key ContextKey) (string, error) {
	raw := ctx.Value(key)
	if raw == nil {
		return "", errx.New("meta key not found in context",
			errx.WithCode(codeKeyNotFound),
			errx.WithDetails(errx.D{"key": string(key)}),
		)
	}

	v, ok := raw.(string)
	if !ok {
		return "", errx.New("meta type mismatch: value is not a string",
			errx.WithCode(codeTypeMismatch),
			errx.WithDetails(errx.D{"key": string(key)}),
		)
	}

	return v, nil
}
