package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/localnerve/authorizer-go"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// SessionValidator turns a session cookie into a viewer
type SessionValidator interface {
	Validate(cookie string) (types.Viewer, error)
}

// AuthorizerValidator validates sessions against an Authorizer service.
// The client is created on first use.
type AuthorizerValidator struct {
	cfg         *config.Config
	redirectURL string

	once    sync.Once
	client  *authorizer.AuthorizerClient
	initErr error
}

// NewAuthorizerValidator creates a validator for the configured Authorizer
func NewAuthorizerValidator(cfg *config.Config, redirectURL string) *AuthorizerValidator {
	return &AuthorizerValidator{cfg: cfg, redirectURL: redirectURL}
}

func (a *AuthorizerValidator) init() error {
	a.once.Do(func() {
		// Ping the Authorizer service first
		if _, err := utils.PingAuthorizer(a.cfg.AuthzURL); err != nil {
			a.initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			a.cfg.AuthzURL, a.cfg.AuthzClientID, a.redirectURL)

		var err error
		a.client, err = authorizer.NewAuthorizerClient(a.cfg.AuthzClientID, a.cfg.AuthzURL, a.redirectURL, nil)
		if err != nil {
			a.initErr = fmt.Errorf("failed to create authorizer client: %w", err)
		}
	})
	return a.initErr
}

// Validate validates a session cookie and returns the signed in viewer
func (a *AuthorizerValidator) Validate(cookie string) (types.Viewer, error) {
	if err := a.init(); err != nil {
		return types.Anonymous, err
	}

	res, err := a.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
	})
	if err != nil {
		return types.Anonymous, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return types.Anonymous, fmt.Errorf("session is not valid")
	}

	if res.User == nil {
		return types.Anonymous, fmt.Errorf("session has no user")
	}
	return viewerFromUser(res.User), nil
}

// viewerFromUser maps an Authorizer user to a signed in viewer
func viewerFromUser(u *authorizer.User) types.Viewer {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		if role != nil && *role != "" {
			roles = append(roles, *role)
		}
	}
	return types.Viewer{Authenticated: true, UserID: u.ID, Roles: roles}
}

// StaticValidator maps fixed cookies to viewers, for development and tests
type StaticValidator map[string]types.Viewer

// Validate looks the cookie up
func (s StaticValidator) Validate(cookie string) (types.Viewer, error) {
	v, ok := s[cookie]
	if !ok {
		return types.Anonymous, fmt.Errorf("session is not valid")
	}
	return v, nil
}
