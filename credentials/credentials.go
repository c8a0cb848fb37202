// Package credentials defines the credential bundle issued at login and the
// store that persists it for the lifetime of one portal session.
package credentials

import (
	"github.com/pkg/errors"

	"github.com/orioz-inc/member-portal/members"
)

// NotFoundErr is returned by Store.Load when nothing has been saved, or after
// Clear. It means "anonymous", never a fault.
var NotFoundErr = errors.New("no stored credentials")

// Bundle is the credential material returned by the backend at login.
// AccessToken is always present; RefreshToken and IDToken depend on the
// backend flow and may be empty.
type Bundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
}

// Empty reports whether the bundle carries no usable access token.
func (b Bundle) Empty() bool {
	return b.AccessToken == ""
}

// Store persists one credential bundle plus the cached member profile.
//
// A store holds at most one session's material: Save replaces everything,
// Clear removes everything it ever wrote. Partial clears that leave a stale
// refresh token behind are a defect this contract forbids. Stores are passive;
// all policy lives in the session manager and the API client's refresh path.
type Store interface {
	Save(bundle Bundle, profile *members.Profile) error
	Load() (Bundle, *members.Profile, error)
	Clear() error
}
