package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/strokecare/platform/pkg/common/logger"
	"golang.org/x/oauth2"
)

// ExternalIdentity is the subset of OIDC userinfo the platform maps onto users.
type ExternalIdentity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type OIDCAuthenticator struct {
	config      *oauth2.Config
	issuer      string
	userInfoURL string
}

func NewOIDCAuthenticator(issuer, clientID, clientSecret, redirectURL string) (*OIDCAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}
	issuer = strings.TrimRight(issuer, "/")

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &OIDCAuthenticator{
		config:      config,
		issuer:      issuer,
		userInfoURL: fmt.Sprintf("%s/userinfo", issuer),
	}, nil
}

func (a *OIDCAuthenticator) LoginURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the caller's identity.
func (a *OIDCAuthenticator) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	if code == "" {
		return ExternalIdentity{}, fmt.Errorf("authorization code missing")
	}
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return ExternalIdentity{}, err
	}
	resp, err := a.config.Client(ctx, token).Do(req)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ExternalIdentity{}, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var id ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return ExternalIdentity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if id.Email == "" {
		return ExternalIdentity{}, fmt.Errorf("userinfo has no email")
	}

	logger.Log.WithField("issuer", a.issuer).Debug("OIDC identity resolved")
	return id, nil
}
