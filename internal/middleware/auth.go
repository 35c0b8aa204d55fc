package middleware

import (
	"crypto/subtle"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// SessionCookie is the Authorizer session cookie
const SessionCookie = "cookie_session"

const viewerKey = "viewer"

// Identify resolves the session cookie to a viewer and stores it in the
// context. Requests without a valid session continue as anonymous. A nil
// validator makes every request anonymous. Only sessions holding one of
// privateRoles may read private resources.
func Identify(validator services.SessionValidator, privateRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := types.Anonymous
		if session := c.Cookies(SessionCookie); session != "" && validator != nil {
			v, err := validator.Validate(session)
			if err != nil {
				log.Printf("itemsetgroup: identify: %v", err)
			} else {
				viewer = v.WithPrivateRoles(privateRoles)
			}
		}
		c.Locals(viewerKey, viewer)
		return c.Next()
	}
}

// Viewer returns the viewer stored by Identify, anonymous when absent
func Viewer(c *fiber.Ctx) types.Viewer {
	if v, ok := c.Locals(viewerKey).(types.Viewer); ok {
		return v
	}
	return types.Anonymous
}

// AuthAdmin validates that the request has an editor role
func AuthAdmin(validator services.SessionValidator, roles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, validator, roles, "item-set-group.authorization.admin")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, validator services.SessionValidator, roles []string, errorType string) error {
	// Already identified on this request
	if v := Viewer(c); v.Authenticated {
		if !v.HasAnyRole(roles) {
			return forbidden(errorType, "Insufficient role")
		}
		return c.Next()
	}

	session := c.Cookies(SessionCookie)
	if session == "" {
		return forbidden(errorType, fmt.Sprintf("Authorizer cookie %q not found", SessionCookie))
	}
	if validator == nil {
		return forbidden(errorType, "Session validation is not configured")
	}

	viewer, err := validator.Validate(session)
	if err != nil {
		return forbidden(errorType, fmt.Sprintf("Invalid session: %v", err))
	}
	if !viewer.HasAnyRole(roles) {
		return forbidden(errorType, "Insufficient role")
	}

	c.Locals(viewerKey, viewer.WithPrivateRoles(roles))
	return c.Next()
}

// HookToken requires the shared hook secret in the X-Hook-Token header.
// An empty token disables the check.
func HookToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		got := c.Get("X-Hook-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid hook token",
				Type:    "item-set-group.hooks",
			}
		}
		return c.Next()
	}
}

func forbidden(errorType, message string) error {
	return &types.CustomError{
		Code:    fiber.StatusForbidden,
		Message: message,
		Type:    errorType,
	}
}
