package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"videoverse/domain/auth"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

const (
	defaultListenAddr       = ":8085"
	defaultRevokeEndpoint   = "https://oauth2.googleapis.com/revoke"
	defaultUserinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Provider obtains and holds the bearer credential and the signed-in
// user. The token is never refreshed; it lives until sign-out or remote
// revocation.
type Provider struct {
	oauthCfg *oauth2.Config
	sessions SessionStore
	session  *auth.Session
	output   io.Writer

	listenAddr       string
	revokeEndpoint   string
	userinfoEndpoint string
	httpClient       *http.Client
	openBrowser      func(url string)
}

// ProviderOption is a functional option for configuring Provider.
type ProviderOption func(*Provider)

// WithOutput sets the writer for status messages.
func WithOutput(w io.Writer) ProviderOption {
	return func(p *Provider) {
		p.output = w
	}
}

// WithListenAddr sets the local callback server address.
func WithListenAddr(addr string) ProviderOption {
	return func(p *Provider) {
		p.listenAddr = addr
	}
}

// WithRevokeEndpoint sets a custom token revocation endpoint (for testing).
func WithRevokeEndpoint(u string) ProviderOption {
	return func(p *Provider) {
		p.revokeEndpoint = u
	}
}

// WithUserinfoEndpoint sets a custom userinfo endpoint (for testing).
func WithUserinfoEndpoint(u string) ProviderOption {
	return func(p *Provider) {
		p.userinfoEndpoint = u
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithBrowserOpener sets a custom browser opener (for testing).
func WithBrowserOpener(f func(url string)) ProviderOption {
	return func(p *Provider) {
		p.openBrowser = f
	}
}

// NewProvider creates a credential provider from an OAuth client
// credentials file. Any previously persisted session is loaded so a
// signed-in user stays signed in across runs.
func NewProvider(credentialsPath string, sessions SessionStore, opts ...ProviderOption) (*Provider, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	// drive.file scope: access only to objects this application created.
	cfg, err := google.ConfigFromJSON(b,
		drive.DriveFileScope,
		"https://www.googleapis.com/auth/userinfo.profile",
		"https://www.googleapis.com/auth/userinfo.email",
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	p := &Provider{
		oauthCfg:         cfg,
		sessions:         sessions,
		output:           io.Discard,
		listenAddr:       defaultListenAddr,
		revokeEndpoint:   defaultRevokeEndpoint,
		userinfoEndpoint: defaultUserinfoEndpoint,
		httpClient:       http.DefaultClient,
		openBrowser:      openBrowser,
	}

	for _, opt := range opts {
		opt(p)
	}

	session, err := sessions.Load()
	if err != nil {
		return nil, err
	}
	p.session = session

	return p, nil
}

// SignIn runs the interactive consent flow and populates the session.
// It is a no-op when a session is already held. A failed sign-in leaves
// the provider state unchanged.
func (p *Provider) SignIn(ctx context.Context) error {
	if p.session.Valid() {
		fmt.Fprintf(p.output, "Already signed in as %s (%s)\n", p.session.User.Name, p.session.User.Email)
		return nil
	}

	token, err := p.tokenFromWeb(ctx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	user, err := p.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	session := &auth.Session{
		AccessToken: token.AccessToken,
		User:        *user,
		SavedAt:     time.Now(),
	}
	if err := p.sessions.Save(session); err != nil {
		fmt.Fprintf(p.output, "Warning: couldn't save session: %v\n", err)
	}
	p.session = session

	fmt.Fprintf(p.output, "Signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

// SignOut revokes the credential remotely (best effort, fire and forget)
// and clears the local session unconditionally.
func (p *Provider) SignOut(ctx context.Context) error {
	if p.session != nil && p.session.AccessToken != "" {
		if err := p.revoke(ctx, p.session.AccessToken); err != nil {
			// Local sign-out proceeds regardless.
			fmt.Fprintf(p.output, "Warning: token revocation failed: %v\n", err)
		}
	}

	p.session = nil
	if err := p.sessions.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(p.output, "Signed out.")
	return nil
}

// AccessToken returns the held bearer token. It never touches the
// network and never refreshes.
func (p *Provider) AccessToken() (string, error) {
	if !p.session.Valid() {
		return "", auth.ErrNotAuthenticated
	}
	return p.session.AccessToken, nil
}

// CurrentUser returns the signed-in user snapshot, or nil.
func (p *Provider) CurrentUser() *auth.User {
	if !p.session.Valid() {
		return nil
	}
	user := p.session.User
	return &user
}

// Session returns the held session, or nil.
func (p *Provider) Session() *auth.Session {
	if !p.session.Valid() {
		return nil
	}
	return p.session
}

// tokenFromWeb runs the loopback OAuth flow: a local callback server
// receives the authorization code while the user consents in a browser.
func (p *Provider) tokenFromWeb(ctx context.Context) (*oauth2.Token, error) {
	cfg := *p.oauthCfg
	cfg.RedirectURL = "http://localhost" + p.listenAddr + "/callback"

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no code in callback")
			fmt.Fprintf(w, "Error: No authorization code received")
			return
		}
		codeChan <- code
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	server := &http.Server{Addr: p.listenAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOnline)

	fmt.Fprintln(p.output)
	fmt.Fprintln(p.output, "Opening browser for Google authentication...")
	fmt.Fprintln(p.output, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(p.output)
	fmt.Fprintln(p.output, authURL)
	fmt.Fprintln(p.output)

	p.openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		server.Shutdown(ctx)
		return nil, err
	case <-ctx.Done():
		server.Shutdown(ctx)
		return nil, ctx.Err()
	}

	server.Shutdown(ctx)

	token, err := cfg.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}
	return token, nil
}

// fetchUserInfo loads the authenticated user's profile.
func (p *Provider) fetchUserInfo(ctx context.Context, accessToken string) (*auth.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &auth.User{
		ID:            info.ID,
		Name:          info.Name,
		Email:         info.Email,
		AvatarURL:     info.Picture,
		Authenticated: true,
	}, nil
}

// revoke posts the token to the revocation endpoint.
func (p *Provider) revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revokeEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
