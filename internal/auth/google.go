package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sensai-backend/internal/shared/server/respond"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

const (
	externalPrefix = "google:"
	userInfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Provisioner creates or refreshes the internal user for a login.
type Provisioner interface {
	Provision(ctx context.Context, identity users.Identity) (users.User, error)
}

// TokenSigner issues the session token handed to the UI.
type TokenSigner interface {
	Sign(subject, email, name, picture string) (string, error)
}

// GoogleService handles Google OAuth flows.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	states      *cache.Cache
	users       Provisioner
	signer      TokenSigner
	userInfo    func(ctx context.Context, token *oauth2.Token) (googleUserInfo, error)
}

// GoogleConfig carries the OAuth client settings.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
}

// NewGoogleService builds a GoogleService. Pending login states live for five
// minutes.
func NewGoogleService(cfg GoogleConfig, provisioner Provisioner, signer TokenSigner) *GoogleService {
	s := &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect: cfg.UIRedirect,
		states:     cache.New(5*time.Minute, 10*time.Minute),
		users:      provisioner,
		signer:     signer,
	}
	s.userInfo = s.fetchUserInfo
	return s
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	s.states.SetDefault(state, loginState{Next: safeNext(c.Query("next"))})

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// loginState is what start remembers for the callback.
type loginState struct {
	Next string
}

// consumeState accepts a state once. Expired entries are never returned by the cache.
func (s *GoogleService) consumeState(state string) (loginState, bool) {
	v, ok := s.states.Get(state)
	if !ok {
		return loginState{}, false
	}
	s.states.Delete(state)
	st, _ := v.(loginState)
	return st, true
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	st, ok := s.consumeState(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.google.exchange_failed", map[string]any{"err": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	s.finishLogin(c, token, st)
}

func (s *GoogleService) finishLogin(c *gin.Context, token *oauth2.Token, st loginState) {
	ctx := c.Request.Context()
	info, err := s.userInfo(ctx, token)
	if err != nil {
		telemetry.Error("auth.google.userinfo_failed", map[string]any{"err": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}
	sub := info.subject()
	if sub == "" || info.Email == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", nil)
		return
	}

	user, err := s.users.Provision(ctx, users.Identity{
		ExternalID: externalPrefix + sub,
		Email:      info.Email,
		FullName:   info.Name,
		PictureURL: info.Picture,
	})
	if err != nil {
		respond.FromError(c, err, "failed to provision user")
		return
	}

	jwt, err := s.signer.Sign(user.ExternalID, user.Email, user.FullName, user.PictureURL)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := uiRedirectURL(s.uiRedirect, jwt, st.Next, user.IsOnboarded())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}

	telemetry.Info("auth.google.login", map[string]any{"user_id": user.ID, "onboarded": user.IsOnboarded()})
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	return info, nil
}

// subject is the stable Google account id. The v2 userinfo endpoint answers
// with "id", OpenID Connect with "sub".
func (u googleUserInfo) subject() string {
	if u.Sub != "" {
		return u.Sub
	}
	return u.ID
}

// uiRedirectURL hands the session token back to the UI. Users who still
// have to onboard are flagged so the UI can route them there first.
func uiRedirectURL(rawURL, token, next string, onboarded bool) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	if next != "" {
		q.Set("next", next)
	}
	if !onboarded {
		q.Set("onboarding", "required")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
