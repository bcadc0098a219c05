package middleware

import (
	"strings"

	"roadcare/internal/adapters/persistence/repositories"
	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/session"
	"roadcare/internal/pkg/apiclient"
	"roadcare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localsStore      = "sessionStore"
	localsClient     = "apiClient"
	localsNavigation = "navigation"
)

// Navigation records where the session store last asked to send the browser
type Navigation struct {
	Path string
}

// Navigate implements session.Navigator
func (n *Navigation) Navigate(path string) {
	n.Path = path
}

// SessionLoader resolves the browser's session cookie, issuing one when
// missing, and builds that browser's session store over its persisted
// credential. Initialize completes before any handler runs.
func SessionLoader(client *apiclient.Client, credentials repositories.CredentialRepository, cookie config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cookie.Name)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cookie.Name,
				Value:    sid,
				Path:     "/",
				Domain:   cookie.Domain,
				MaxAge:   cookie.MaxAge,
				Secure:   cookie.Secure,
				HTTPOnly: true,
				SameSite: cookie.SameSite,
			})
		}

		creds := repositories.Scoped(credentials, sid)
		scopedClient := client.WithTokens(creds)
		nav := &Navigation{}

		store := session.NewStore(creds, scopedClient, session.WithNavigator(nav))
		store.Initialize(c.UserContext())

		c.Locals(localsStore, store)
		c.Locals(localsClient, scopedClient)
		c.Locals(localsNavigation, nav)

		return c.Next()
	}
}

// Store returns the request's session store, or nil outside SessionLoader
func Store(c *fiber.Ctx) *session.Store {
	store, _ := c.Locals(localsStore).(*session.Store)
	return store
}

// Client returns the API client bound to the request's credential
func Client(c *fiber.Ctx) *apiclient.Client {
	client, _ := c.Locals(localsClient).(*apiclient.Client)
	return client
}

// NavigationOf returns where the session store asked to navigate during
// this request, or "" when it did not
func NavigationOf(c *fiber.Ctx) string {
	nav, _ := c.Locals(localsNavigation).(*Navigation)
	if nav == nil {
		return ""
	}
	return nav.Path
}

// RequireSession gates a route behind a signed-in session and, optionally,
// a set of roles. Browsers navigating to a page are redirected; API callers
// get a JSON body naming the redirect target.
func RequireSession(allowedRoles ...domain.Role) fiber.Handler {
	guard := session.NewGuard(allowedRoles...)

	return func(c *fiber.Ctx) error {
		store := Store(c)
		if store == nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session not loaded")
		}

		switch decision := guard.Evaluate(store); decision {
		case session.Granted:
			return c.Next()

		case session.RedirectLogin:
			if wantsHTML(c) {
				return c.Redirect(decision.RedirectPath(), fiber.StatusFound)
			}
			return response.ErrorWithRedirect(c, fiber.StatusUnauthorized, "Authentication required", decision.RedirectPath())

		case session.RedirectLanding:
			if wantsHTML(c) {
				return c.Redirect(decision.RedirectPath(), fiber.StatusFound)
			}
			return response.ErrorWithRedirect(c, fiber.StatusForbidden, "Access denied", decision.RedirectPath())

		default:
			c.Set(fiber.HeaderRetryAfter, "1")
			return response.ServiceUnavailable(c, "Session is still loading")
		}
	}
}

// AdminOnly allows only the Admin role
func AdminOnly() fiber.Handler {
	return RequireSession(domain.RoleAdmin)
}

// wantsHTML reports whether the caller is a browser navigating to a page
// rather than a script calling the API
func wantsHTML(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return false
	}
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}
