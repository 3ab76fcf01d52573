// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codelearn/codelearn-api/internal/platform/middleware"
)

// fakeAppConfig is a minimal middleware.AppConfig for CORS tests.
type fakeAppConfig struct {
	development  bool
	extraOrigins []string
}

func (cfg *fakeAppConfig) IsDevelopment() bool      { return cfg.development }
func (cfg *fakeAppConfig) AllowedOrigins() []string { return cfg.extraOrigins }

func corsGet(t *testing.T, cfg *fakeAppConfig, origin string) *httptest.ResponseRecorder {
	t.Helper()

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if origin != "" {
		request.Header.Set("Origin", origin)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestCORS covers the allow decision per environment: development allows any
origin, production allows the codelearn.dev domain plus the configured extra
origins, and everything else gets no CORS headers.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *fakeAppConfig
		origin      string
		wantAllowed bool
	}{
		{
			name:        "development_allows_any_origin",
			cfg:         &fakeAppConfig{development: true},
			origin:      "http://localhost:3000",
			wantAllowed: true,
		},
		{
			name:        "production_allows_own_domain",
			cfg:         &fakeAppConfig{},
			origin:      "https://app.codelearn.dev",
			wantAllowed: true,
		},
		{
			name:        "production_rejects_unknown_origin",
			cfg:         &fakeAppConfig{},
			origin:      "https://evil.example.com",
			wantAllowed: false,
		},
		{
			name:        "production_allows_configured_extra_origin",
			cfg:         &fakeAppConfig{extraOrigins: []string{"https://partner.example.com"}},
			origin:      "https://partner.example.com",
			wantAllowed: true,
		},
		{
			name:        "extra_origin_is_an_exact_match",
			cfg:         &fakeAppConfig{extraOrigins: []string{"https://partner.example.com"}},
			origin:      "https://sub.partner.example.com",
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := corsGet(t, tt.cfg, tt.origin)

			allowOrigin := recorder.Header().Get("Access-Control-Allow-Origin")
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, allowOrigin)
			} else {
				assert.Empty(t, allowOrigin)
			}
		})
	}
}

/*
TestCORS_Preflight verifies OPTIONS requests are answered directly without
reaching the downstream handler.
*/
func TestCORS_Preflight(t *testing.T) {
	reached := false
	handler := middleware.CORS(&fakeAppConfig{development: true})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
	}))

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, reached)
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
}
