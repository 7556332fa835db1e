package tenancy

import (
	"context"
	"net/http"
)

// DefaultTenant is used when a request does not carry an X-Tenant-ID header,
// so single-tenant deployments keep working without extra configuration.
const DefaultTenant = "default"

type contextKey struct{}

// WithTenant returns a context carrying the given tenant identifier.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// FromContext returns the tenant identifier for the current call. Every store
// read and write must apply this as a filter. Falls back to DefaultTenant for
// contexts established outside an HTTP request (e.g. tests).
func FromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(contextKey{}).(string); ok && tenant != "" {
		return tenant
	}
	return DefaultTenant
}

// Middleware establishes the tenant context for a request from the
// X-Tenant-ID header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTenant(r.Context(), r.Header.Get("X-Tenant-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
