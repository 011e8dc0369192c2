package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote addr", remoteAddr: "10.0.0.7:51234", want: "10.0.0.7"},
		{name: "remote addr without port", remoteAddr: "10.0.0.7", want: "10.0.0.7"},
		{name: "forwarded single", remoteAddr: "10.0.0.7:1", forwarded: "66.193.5.119", want: "66.193.5.119"},
		{name: "forwarded chain", remoteAddr: "10.0.0.7:1", forwarded: " 50.58.91.98 , 10.0.0.1", want: "50.58.91.98"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	whitelist := []string{"127.0.0.1", "66.193.5.119"}

	tests := []struct {
		name       string
		target     string
		remoteAddr string
		forwarded  string
		want       bool
	}{
		{name: "whitelisted with flag", target: "/?admin=1", remoteAddr: "127.0.0.1:80", want: true},
		{name: "whitelisted without flag", target: "/", remoteAddr: "127.0.0.1:80"},
		{name: "whitelisted wrong flag", target: "/?admin=true", remoteAddr: "127.0.0.1:80"},
		{name: "not whitelisted", target: "/?admin=1", remoteAddr: "10.9.9.9:80"},
		{name: "forwarded whitelisted", target: "/?admin=1", remoteAddr: "10.9.9.9:80", forwarded: "66.193.5.119, 10.0.0.1", want: true},
		{name: "forwarded second entry ignored", target: "/?admin=1", remoteAddr: "127.0.0.1:80", forwarded: "10.0.0.1, 127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, IsAdmin(req, whitelist))
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	var got bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IsAdminFromContext(r.Context())
	})
	wrapped := AdminMiddleware([]string{"127.0.0.1"}, discardLogger())(handler)

	req := httptest.NewRequest(http.MethodGet, "/?admin=1", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, got)

	req = httptest.NewRequest(http.MethodGet, "/?admin=1", nil)
	req.RemoteAddr = "192.168.1.1:4000"
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, got)

	assert.False(t, IsAdminFromContext(req.Context()))
}
