package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradewind-gg/tradewind/backend/config"
)

// DiscordUser is the identity payload from the Discord API.
type DiscordUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// TokenResponse is the OAuth2 token grant payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// OAuthService handles the Discord OAuth2 code flow.
type OAuthService struct {
	config     *config.WebAppConfig
	httpClient *http.Client
}

func NewOAuthService(cfg *config.WebAppConfig) *OAuthService {
	return &OAuthService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateState produces a random state token for CSRF protection.
func (o *OAuthService) GenerateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// GenerateAuthURL builds the Discord authorization URL.
func (o *OAuthService) GenerateAuthURL(state string) string {
	oauth := o.config.Config.Web.OAuth

	params := url.Values{}
	params.Set("client_id", oauth.ClientID)
	params.Set("redirect_uri", oauth.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(oauth.Scopes, " "))
	params.Set("state", state)

	return "https://discord.com/api/oauth2/authorize?" + params.Encode()
}

// ExchangeCodeForToken trades an authorization code for tokens.
func (o *OAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*TokenResponse, error) {
	oauth := o.config.Config.Web.OAuth

	data := url.Values{}
	data.Set("client_id", oauth.ClientID)
	data.Set("client_secret", oauth.ClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", oauth.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, "POST", "https://discord.com/api/oauth2/token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API error: %s", string(body))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &tokenResp, nil
}

// GetUserInfo fetches the authenticated Discord user.
func (o *OAuthService) GetUserInfo(ctx context.Context, accessToken string) (*DiscordUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://discord.com/api/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API error: %s", string(body))
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &user, nil
}

// AvatarURL resolves the CDN URL for a user's avatar hash.
func AvatarURL(userID, avatarHash string) string {
	if avatarHash == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", userID, avatarHash)
}
