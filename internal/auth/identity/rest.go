package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
)

// RESTClient calls the provider's public Identity Toolkit and Secure Token
// endpoints, which have no Admin SDK equivalent.
type RESTClient struct {
	apiKey      string
	identityURL string
	tokenURL    string
	httpClient  *http.Client
}

// NewRESTClient creates a client. identityURL and tokenURL are the API roots,
// e.g. https://identitytoolkit.googleapis.com/v1.
func NewRESTClient(apiKey, identityURL, tokenURL string) *RESTClient {
	return &RESTClient{
		apiKey:      apiKey,
		identityURL: strings.TrimRight(identityURL, "/"),
		tokenURL:    strings.TrimRight(tokenURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// rejection is a non-2xx reply carrying a provider error code.
type rejection struct {
	status int
	code   domain.ProviderCode
}

// SignIn exchanges an email and password for a session.
func (c *RESTClient) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", c.identityURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	var out signInResponse
	rej, err := c.do(req, &out)
	if err != nil {
		return nil, err
	}
	if rej != nil {
		return nil, domain.NewSignInError(rej.status, rej.code)
	}

	return &domain.Session{
		ID:           out.LocalID,
		Email:        out.Email,
		Name:         out.DisplayName,
		Token:        out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *RESTClient) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := fmt.Sprintf("%s/token?key=%s", c.tokenURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	rej, err := c.do(req, &out)
	if err != nil {
		return nil, err
	}
	if rej != nil {
		return nil, domain.NewRefreshError(rej.status, rej.code)
	}

	return &domain.Session{
		ID:           out.UserID,
		Token:        out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

// do sends req and decodes a 2xx body into out. A provider rejection is
// returned as a rejection, transport and decode failures as errors.
func (c *RESTClient) do(req *http.Request, out any) (*rejection, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("identity provider returned status %d with undecodable body: %w", resp.StatusCode, err)
		}
		return &rejection{status: resp.StatusCode, code: domain.ParseProviderCode(e.Error.Message)}, nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil, nil
}
