package secondme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pasarloak/pkg/errors"
)

// Client talks to the SecondMe platform: the OAuth endpoints that mint
// agent credentials, the user info endpoint, and the act/stream endpoint
// that runs agent decisions.
type Client struct {
	apiBase       string
	oauthURL      string
	tokenEndpoint string
	clientID      string
	clientSecret  string
	redirectURI   string
	httpClient    *http.Client
}

type Config struct {
	APIBase       string
	OAuthURL      string
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	Timeout       time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiBase:       strings.TrimRight(cfg.APIBase, "/"),
		oauthURL:      cfg.OAuthURL,
		tokenEndpoint: cfg.TokenEndpoint,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		redirectURI:   cfg.RedirectURI,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

type TokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type UserInfo struct {
	ID       string
	Nickname string
	Avatar   string
}

// AuthorizeURL builds the OAuth authorization redirect for the login flow.
func (c *Client) AuthorizeURL(state string, selectAccount bool) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "user.info user.info.shades user.info.softmemory chat note.add")
	params.Set("state", state)
	if selectAccount {
		params.Set("prompt", "select_account")
	}

	return c.oauthURL + "?" + params.Encode()
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResult, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	return c.requestToken(ctx, c.tokenEndpoint, form)
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	endpoint := strings.Replace(c.tokenEndpoint, "/token/code", "/token/refresh", 1)

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	result, err := c.requestToken(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	if result.RefreshToken == "" {
		result.RefreshToken = refreshToken
	}

	return result, nil
}

// tokenResponse tolerates both the SecondMe envelope and a plain OAuth
// token body.
type tokenResponse struct {
	Code int `json:"code"`
	Data *struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int64  `json:"expiresIn"`
	} `json:"data"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (c *Client) requestToken(ctx context.Context, endpoint string, form url.Values) (*TokenResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Internal("Failed to build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.AgentUnavailable("SecondMe token endpoint unreachable", err)
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.AgentBadReply("Failed to parse token response", err)
	}

	accessToken := body.AccessToken
	refreshToken := body.RefreshToken
	expiresIn := body.ExpiresIn
	if body.Code == 0 && body.Data != nil {
		accessToken = body.Data.AccessToken
		refreshToken = body.Data.RefreshToken
		expiresIn = body.Data.ExpiresIn
	}

	if accessToken == "" {
		return nil, errors.Unauthorized("Token exchange failed", nil)
	}
	if expiresIn <= 0 {
		expiresIn = 7200
	}

	return &TokenResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/secondme/user/info", nil)
	if err != nil {
		return nil, errors.Internal("Failed to build user info request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.AgentUnavailable("SecondMe user info endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.AgentUnavailable(fmt.Sprintf("SecondMe user info returned status %d", resp.StatusCode), nil)
	}

	var body struct {
		Code int `json:"code"`
		Data struct {
			ID        flexibleID `json:"id"`
			UserID    flexibleID `json:"userId"`
			Nickname  string     `json:"nickname"`
			Name      string     `json:"name"`
			Email     string     `json:"email"`
			Avatar    string     `json:"avatar"`
			AvatarURL string     `json:"avatarUrl"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.AgentBadReply("Failed to parse user info response", err)
	}
	if body.Code != 0 {
		return nil, errors.Unauthorized("SecondMe rejected the access token", nil)
	}

	id := body.Data.ID.String()
	if id == "" {
		id = body.Data.UserID.String()
	}
	nickname := body.Data.Nickname
	if nickname == "" {
		nickname = body.Data.Name
	}
	if nickname == "" {
		nickname = body.Data.Email
	}
	avatar := body.Data.Avatar
	if avatar == "" {
		avatar = body.Data.AvatarURL
	}

	return &UserInfo{ID: id, Nickname: nickname, Avatar: avatar}, nil
}

// flexibleID accepts either a JSON string or number; SecondMe returns
// both depending on the deployment.
type flexibleID string

func (f *flexibleID) String() string {
	return string(*f)
}

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexibleID(n.String())
		return nil
	}

	return fmt.Errorf("id is neither string nor number: %s", string(b))
}
