package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse token request: %v", err)
		}
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"access_token":"access","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`))
		} else {
			w.Write([]byte(`{"error":"invalid_client"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8888/callback",
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/authorize", TokenURL: tokenURL},
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		h := NewCallbackHandler(testConfig(""), "state", "/spotify/cb")
		if routes := h.Routes(); len(routes) != 1 || routes[0] != "GET /spotify/cb" {
			t.Errorf("unexpected routes %v", routes)
		}

		h = NewCallbackHandler(testConfig(""), "state", "")
		if routes := h.Routes(); routes[0] != "GET /callback" {
			t.Errorf("expected default /callback route, got %v", routes)
		}
	})

	t.Run("successful exchange", func(t *testing.T) {
		tokens := newTokenServer(t, http.StatusOK)
		h := NewCallbackHandler(testConfig(tokens.URL), "xyz", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Errorf("expected success page, got %s", rec.Body.String())
		}

		result := <-h.Result()
		if result.Err != nil {
			t.Fatalf("expected no error, got %v", result.Err)
		}
		if result.Token == nil || result.Token.AccessToken != "access" {
			t.Errorf("unexpected token %+v", result.Token)
		}
	})

	t.Run("failures", func(t *testing.T) {
		tt := []struct {
			name       string
			query      string
			tokenCode  int
			wantStatus int
			wantErr    error
		}{
			{name: "state mismatch", query: "state=wrong&code=good-code", tokenCode: http.StatusOK, wantStatus: http.StatusBadRequest, wantErr: ErrStateMismatch},
			{name: "user denied", query: "state=xyz&error=access_denied", tokenCode: http.StatusOK, wantStatus: http.StatusBadRequest, wantErr: ErrAccessDenied},
			{name: "no code", query: "state=xyz", tokenCode: http.StatusOK, wantStatus: http.StatusBadRequest, wantErr: ErrMissingCode},
			{name: "rejected client", query: "state=xyz&code=good-code", tokenCode: http.StatusUnauthorized, wantStatus: http.StatusBadGateway, wantErr: ErrExchange},
			{name: "stale code", query: "state=xyz&code=stale", tokenCode: http.StatusOK, wantStatus: http.StatusBadGateway, wantErr: ErrExchange},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				tokens := newTokenServer(t, tc.tokenCode)
				h := NewCallbackHandler(testConfig(tokens.URL), "xyz", "/callback")

				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tc.query, nil))

				if rec.Code != tc.wantStatus {
					t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
				}

				result := <-h.Result()
				if !errors.Is(result.Err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, result.Err)
				}
				if result.Token != nil {
					t.Errorf("expected no token, got %+v", result.Token)
				}
			})
		}
	})

	t.Run("denial reason is kept", func(t *testing.T) {
		h := NewCallbackHandler(testConfig(""), "xyz", "/callback")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=xyz&error=access_denied", nil))

		if result := <-h.Result(); result.Err == nil || !strings.Contains(result.Err.Error(), "access_denied") {
			t.Errorf("expected access_denied in error, got %v", result.Err)
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		tokens := newTokenServer(t, http.StatusOK)
		h := NewCallbackHandler(testConfig(tokens.URL), "xyz", "/callback")

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", rec.Code)
		}

		results := 0
		for range h.Result() {
			results++
		}
		if results != 1 {
			t.Errorf("expected exactly one result, got %d", results)
		}
	})
}
