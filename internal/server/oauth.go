package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"golang.org/x/oauth2"
)

var (
	ErrStateMismatch = errors.New("callback state does not match")
	ErrAccessDenied  = errors.New("authorization denied")
	ErrMissingCode   = errors.New("callback carried no authorization code")
	ErrExchange      = errors.New("token exchange failed")
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>plsaver</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
    <h1 style="color: #1DB954;">Authorization Successful</h1>
    <p>You can close this window and return to the terminal.</p>
</body>
</html>
`

// CallbackResult is the outcome of the single Spotify redirect a [CallbackHandler] accepts.
type CallbackResult struct {
	Token *oauth2.Token
	Err   error
}

// CallbackHandler receives the authorization code redirect and trades the code for a token.
//
// Only the first request is processed; later ones get a 400 and publish nothing.
type CallbackHandler struct {
	config *oauth2.Config
	state  string
	path   string
	seen   atomic.Bool
	result chan CallbackResult
}

func NewCallbackHandler(config *oauth2.Config, state, path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		config: config,
		state:  state,
		path:   path,
		result: make(chan CallbackResult, 1),
	}
}

// Routes reports the GET pattern for the redirect path.
func (h *CallbackHandler) Routes() []string {
	return []string{http.MethodGet + " " + h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.seen.CompareAndSwap(false, true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	token, status, err := h.exchange(r)
	h.result <- CallbackResult{Token: token, Err: err}
	close(h.result)

	if err != nil {
		http.Error(w, "Authorization failed: "+http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// exchange validates the redirect query and returns the token along with the
// status the browser should see.
func (h *CallbackHandler) exchange(r *http.Request) (*oauth2.Token, int, error) {
	query := r.URL.Query()
	if query.Get("state") != h.state {
		return nil, http.StatusBadRequest, ErrStateMismatch
	}
	if reason := query.Get("error"); reason != "" {
		return nil, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrAccessDenied, reason)
	}

	code := query.Get("code")
	if code == "" {
		return nil, http.StatusBadRequest, ErrMissingCode
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	return token, http.StatusOK, nil
}

// Result delivers exactly one [CallbackResult] and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.result
}
