// Package discord implements the Discord OAuth2 login flow and the single
// API call needed to identify the logged-in user.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultAPIBase = "https://discord.com/api/v10"
	authURL        = "https://discord.com/oauth2/authorize"
	tokenURL       = "https://discord.com/api/oauth2/token"
)

var ErrExchange = errors.New("discord: code exchange failed")

// User is the subset of the users/@me payload the app relies on.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

// DisplayName prefers the global display name over the unique username.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

type Client struct {
	oauth      *oauth2.Config
	apiBase    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithEndpoints points the client at another OAuth2 provider and API base.
func WithEndpoints(auth, token, apiBase string) Option {
	return func(c *Client) {
		c.oauth.Endpoint = oauth2.Endpoint{AuthURL: auth, TokenURL: token, AuthStyle: oauth2.AuthStyleInParams}
		c.apiBase = strings.TrimRight(apiBase, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(clientID, clientSecret, redirectURL string, opts ...Option) *Client {
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBase: defaultAPIBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL is where the browser is sent to start the login.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

// Identify exchanges an authorization code and returns the Discord user it
// was issued for.
func (c *Client) Identify(ctx context.Context, code string) (User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return User{}, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/@me", nil)
	if err != nil {
		return User{}, err
	}
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("discord users/@me: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return User{}, fmt.Errorf("discord users/@me: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, fmt.Errorf("decode discord user: %w", err)
	}
	if u.ID == "" {
		return User{}, errors.New("discord users/@me: empty user id")
	}
	return u, nil
}
