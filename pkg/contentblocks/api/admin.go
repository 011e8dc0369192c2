package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
)

// ClientIP returns the first X-Forwarded-For entry, falling back to the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsAdmin reports whether the request comes from a whitelisted address and
// asks for edit mode with admin=1.
func IsAdmin(r *http.Request, whitelist []string) bool {
	return r.URL.Query().Get("admin") == "1" && slices.Contains(whitelist, ClientIP(r))
}

// IsAdminFromContext returns the flag stored by AdminMiddleware
func IsAdminFromContext(ctx context.Context) bool {
	admin, _ := ctx.Value(AdminKey).(bool)
	return admin
}

// AdminMiddleware stores the IsAdmin result in the request context
func AdminMiddleware(whitelist []string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := slices.Clone(whitelist)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := IsAdmin(r, allowed)
			if admin {
				logger.InfoContext(r.Context(), "granting edit permission", "remote_ip", ClientIP(r))
			}
			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
