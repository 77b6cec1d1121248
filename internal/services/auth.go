package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsaver/internal/server"
	"github.com/desertthunder/plsaver/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// defaultCallbackAddr is used when the redirect URI points at a public tunnel.
const defaultCallbackAddr = "127.0.0.1:8888"

// AuthOpts configures an [Authenticator]. Zero values select production defaults.
type AuthOpts struct {
	CallbackAddr  string                 // listener address; derived from the redirect URI when empty
	Timeout       time.Duration          // how long to wait for the callback
	Logger        *log.Logger            // defaults to [shared.NewLogger]
	Output        io.Writer              // user-facing prompts, defaults to [os.Stdout]
	OpenBrowser   func(url string) error // defaults to [shared.OpenBrowser]
	Endpoint      oauth2.Endpoint        // defaults to the Spotify accounts service
	ClientOptions []spotify.ClientOption // passed to the API client
}

// Authenticator exchanges credentials for an authorized [SpotifySession].
type Authenticator struct {
	config        *oauth2.Config
	addr          string
	path          string
	timeout       time.Duration
	logger        *log.Logger
	output        io.Writer
	openBrowser   func(string) error
	clientOptions []spotify.ClientOption
}

// NewAuthenticator validates creds and prepares the OAuth2 configuration.
func NewAuthenticator(creds shared.SpotifyConfig, opts AuthOpts) (*Authenticator, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	redirect, err := url.Parse(creds.RedirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: invalid redirect URI %q", shared.ErrConfiguration, creds.RedirectURI)
	}

	endpoint := opts.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = oauth2.Endpoint{
			AuthURL:   spotifyauth.AuthURL,
			TokenURL:  spotifyauth.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		}
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	path := redirect.Path
	if path == "" {
		path = "/"
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       shared.Scopes,
			Endpoint:     endpoint,
		},
		addr:          CallbackAddr(opts.CallbackAddr, redirect),
		path:          path,
		timeout:       opts.Timeout,
		logger:        opts.Logger,
		output:        opts.Output,
		openBrowser:   opts.OpenBrowser,
		clientOptions: opts.ClientOptions,
	}, nil
}

// CallbackAddr picks the address the callback listener binds to.
//
// An explicit address wins. Loopback redirect URIs are bound as-is; anything else is assumed to be a tunnel
// forwarding to [defaultCallbackAddr].
func CallbackAddr(configured string, redirect *url.URL) string {
	if configured != "" {
		return configured
	}

	host := redirect.Hostname()
	if host != "localhost" && !net.ParseIP(host).IsLoopback() {
		return defaultCallbackAddr
	}

	port := redirect.Port()
	if port == "" {
		port = "80"
		if redirect.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(host, port)
}

// AuthURL returns the consent page URL for state.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Token runs the authorization code flow and blocks until it completes.
//
// Every failure wraps [shared.ErrAuthentication].
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	state := shared.GenerateState()
	handler := server.NewCallbackHandler(a.config, state, a.path)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(a.logger))
	router.Handler(handler)
	if a.path != "/" {
		router.Handle(http.MethodGet, "/", server.NotFound(a.path))
	}

	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to bind callback listener on %s: %v", shared.ErrAuthentication, a.addr, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	a.logger.Debug("callback server listening", "addr", ln.Addr().String(), "path", a.path)

	authURL := a.AuthURL(state)
	fmt.Fprintf(a.output, "→ Opening browser for Spotify authorization...\n")
	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn("failed to open browser automatically", "error", err)
		fmt.Fprintf(a.output, "⚠ Could not open browser automatically.\nPlease open this URL in your browser:\n%s\n\n", authURL)
	}
	fmt.Fprintf(a.output, "→ Waiting for authorization (%s timeout)...\n", a.timeout)

	timeout := time.NewTimer(a.timeout)
	defer timeout.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server error: %v", shared.ErrAuthentication, err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: %w: no callback received within %s", shared.ErrAuthentication, shared.ErrTimeout, a.timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthentication, ctx.Err())
	}

	if result.Err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthentication, result.Err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthentication)
	}

	return result.Token, nil
}

// Session authorizes and verifies a [SpotifySession].
func (a *Authenticator) Session(ctx context.Context) (*SpotifySession, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}

	session := NewSpotifySession(a.config.Client(context.Background(), token), token, a.clientOptions...)
	user, err := session.Verify(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: token rejected: %v", shared.ErrAuthentication, err)
	}

	a.logger.Info("authenticated", "user", user.ID)
	return session, nil
}
