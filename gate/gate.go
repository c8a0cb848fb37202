// Package gate guards protected views. The decision itself is a pure
// function of session state; the middleware form plugs it into the portal's
// handler chain.
package gate

import (
	"net/http"

	"github.com/orioz-inc/member-portal/members"
)

// Decision is the outcome of evaluating a navigation against session state.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
)

// Evaluate is the per-navigation guard: render is allowed when the view is
// public or the session is authenticated, otherwise the navigation redirects
// to the login view. No post-login return target is preserved.
func Evaluate(authenticated, protectedView bool) Decision {
	if protectedView && !authenticated {
		return RedirectLogin
	}
	return Allow
}

// SessionState is the slice of the session manager the gate consults.
type SessionState interface {
	IsAuthenticated() bool
	CurrentUser() *members.Profile
	Touch()
}

// SessionLookup resolves the session state owning a request's session scope.
// It returns nil when the request carries no scope at all.
type SessionLookup func(r *http.Request) SessionState

// RequireSession redirects unauthenticated access to loginPath. Authenticated
// requests count as qualifying interactions for the idle timer.
func RequireSession(lookup SessionLookup, loginPath string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			state := lookup(r)
			authenticated := state != nil && state.IsAuthenticated()
			if Evaluate(authenticated, true) == RedirectLogin {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			state.Touch()
			next(w, r)
		}
	}
}

// RequireRole additionally demands a role from the current profile. Requests
// without it are rejected outright rather than redirected; an authenticated
// non-admin should see a refusal, not the login page.
func RequireRole(lookup SessionLookup, role members.RoleType, loginPath string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireSession(lookup, loginPath)(func(w http.ResponseWriter, r *http.Request) {
			state := lookup(r)
			if state == nil || !state.CurrentUser().HasRole(role) {
				http.Error(w, "403 - Forbidden", http.StatusForbidden)
				return
			}
			next(w, r)
		})
	}
}
