// Package session owns the client-side authentication lifecycle: login and
// logout transitions, idle-timeout auto-logout, periodic proactive token
// renewal, and the current identity exposed to the rest of the portal.
//
// A Manager is an explicit session object with a defined lifecycle, one per
// session scope: construct it at session start, inject it into handlers that
// need it, tear it down when the scope ends.
package session

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/members"
	"github.com/orioz-inc/member-portal/token"
)

const (
	// DefaultIdleTimeout is the inactivity window after which a session is
	// logged out automatically.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultRenewalInterval is the period of proactive token renewal. It is
	// deliberately shorter than any access-token lifetime the backend issues.
	DefaultRenewalInterval = 5 * time.Minute

	renewalCallTimeout = 30 * time.Second
)

// Manager is the stateful core of the session layer.
type Manager struct {
	mu          sync.Mutex
	state       State
	profile     *members.Profile
	client      *apiclient.Client
	store       credentials.Store
	idleTimeout time.Duration
	renewEvery  time.Duration
	newTimer    TimerFactory
	idleTimer   Timer
	renewTimer  Timer
	log         zerolog.Logger

	// pendingClientOpts holds client options until New builds the client.
	pendingClientOpts []apiclient.Option
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithIdleTimeout overrides the inactivity window.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.idleTimeout = d
	}
}

// WithRenewalInterval overrides the proactive renewal period.
func WithRenewalInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.renewEvery = d
	}
}

// WithTimerFactory replaces the scheduled-task source (primarily for testing).
func WithTimerFactory(f TimerFactory) Option {
	return func(m *Manager) {
		m.newTimer = f
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithClientOptions forwards options to the API client the manager builds.
func WithClientOptions(opts ...apiclient.Option) Option {
	return func(m *Manager) {
		m.pendingClientOpts = append(m.pendingClientOpts, opts...)
	}
}

// New creates a Manager over the given store. The manager constructs its own
// API client so that every backend call, and every refresh outcome, funnels
// through one place.
func New(backendBaseURL string, store credentials.Store, options ...Option) *Manager {
	m := &Manager{
		state:       StateAnonymous,
		store:       store,
		idleTimeout: DefaultIdleTimeout,
		renewEvery:  DefaultRenewalInterval,
		newTimer:    afterFunc,
		log:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}

	clientOpts := append(m.pendingClientOpts, apiclient.WithAuthFailureHandler(m.handleAuthFailure))
	m.client = apiclient.New(backendBaseURL, store, clientOpts...)
	m.pendingClientOpts = nil
	return m
}

// Client exposes the session-aware API client. It is the sole path through
// which the rest of the portal reaches the backend.
func (m *Manager) Client() *apiclient.Client {
	return m.client
}

// IsAuthenticated reports whether a session is live. A renewal in flight
// still counts as authenticated.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticated || m.state == StateRefreshing
}

// CurrentState returns the lifecycle state (for logging and tests).
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns a copy of the cached profile, or nil when anonymous.
func (m *Manager) CurrentUser() *members.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile.Clone()
}

// Login authenticates against the backend and, on success, assembles the
// profile, persists the credential bundle and starts the idle and renewal
// timers. A new login replaces any existing session in full.
//
// Backend rejections surface as *apiclient.APIError for the calling view;
// everything auth-internal resolves to a state transition instead.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	bundle, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	// Roles and status always come from the access token. A bundle whose
	// access token cannot be decoded is unusable: fail closed.
	accessClaims, err := token.Decode(bundle.AccessToken)
	if err != nil {
		return errors.Wrap(err, "[Manager.Login] decode access token")
	}

	profile := &members.Profile{Email: email}
	if bundle.IDToken != "" {
		idClaims, err := token.Decode(bundle.IDToken)
		if err != nil {
			return errors.Wrap(err, "[Manager.Login] decode identity token")
		}
		profile.Name = idClaims.Name
		if idClaims.Email != "" {
			profile.Email = idClaims.Email
		}
	}
	profile.Roles = toRoleTypes(accessClaims.Roles)
	profile.Status = accessClaims.Status

	if err := m.store.Save(bundle, profile); err != nil {
		return errors.Wrap(err, "[Manager.Login] store.Save")
	}

	// Display fields the tokens don't carry (member-since, state) come from
	// the profile endpoint, now that a token can be attached. Best effort:
	// a failure here must not fail the login.
	if fetched := m.fetchProfile(ctx, profile.Email); fetched != nil {
		fetched.Roles = profile.Roles
		fetched.Status = profile.Status
		if fetched.Name == "" {
			fetched.Name = profile.Name
		}
		profile = fetched
	}
	if err := m.store.Save(bundle, profile); err != nil {
		return errors.Wrap(err, "[Manager.Login] store.Save profile")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = profile
	m.state = StateAuthenticated
	m.startTimersLocked()
	m.log.Info().Str("email", profile.Email).Msg("session started")
	return nil
}

// Logout destroys the session: the store is cleared in full and both timers
// are cancelled. Calling it on an anonymous manager is a no-op with the same
// end state, never an error.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked("logout")
}

// Close tears the session scope down. Equivalent to Logout; exists so owners
// can express "this scope is going away" at shutdown.
func (m *Manager) Close() {
	m.Logout()
}

// Touch records a qualifying user interaction and pushes the idle deadline
// out. Interactions while anonymous are ignored.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated && m.state != StateRefreshing {
		return
	}
	if m.idleTimer != nil {
		m.idleTimer.Reset(m.idleTimeout)
	}
}

// UpdateProfile replaces the cached profile after a successful edit, leaving
// the credential bundle untouched.
func (m *Manager) UpdateProfile(profile *members.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated && m.state != StateRefreshing {
		return errors.New("[Manager.UpdateProfile] no active session")
	}
	bundle, _, err := m.store.Load()
	if err != nil {
		return errors.Wrap(err, "[Manager.UpdateProfile] store.Load")
	}
	if err := m.store.Save(bundle, profile); err != nil {
		return errors.Wrap(err, "[Manager.UpdateProfile] store.Save")
	}
	m.profile = profile.Clone()
	return nil
}

// handleIdle fires when the inactivity window elapses with no qualifying
// interaction. Firing after logout is a safe no-op.
func (m *Manager) handleIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated && m.state != StateRefreshing {
		return
	}
	m.state = StateExpired
	m.logoutLocked("idle timeout")
}

// handleRenewal fires on the renewal period and refreshes the access token
// in place. Any refresh failure resolves to a full logout; there is no
// visible expired-but-lingering state.
func (m *Manager) handleRenewal() {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}
	m.state = StateRefreshing
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), renewalCallTimeout)
	defer cancel()
	_, err := m.client.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRefreshing {
		// Logged out while the refresh was in flight.
		return
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("periodic renewal failed")
		m.state = StateExpired
		m.logoutLocked("renewal failure")
		return
	}
	m.state = StateAuthenticated
	if m.renewTimer != nil {
		m.renewTimer.Reset(m.renewEvery)
	}
}

// handleAuthFailure is wired into the API client: a failed on-demand refresh
// or a 401 that survived its single retry ends the session.
func (m *Manager) handleAuthFailure() {
	m.Logout()
}

func (m *Manager) logoutLocked(reason string) {
	if err := m.store.Clear(); err != nil {
		m.log.Error().Err(err).Msg("clearing credential store")
	}
	m.cancelTimersLocked()
	if m.state != StateAnonymous {
		m.log.Info().Str("reason", reason).Msg("session ended")
	}
	m.state = StateAnonymous
	m.profile = nil
}

func (m *Manager) startTimersLocked() {
	m.cancelTimersLocked()
	m.idleTimer = m.newTimer(m.idleTimeout, m.handleIdle)
	m.renewTimer = m.newTimer(m.renewEvery, m.handleRenewal)
}

func (m *Manager) cancelTimersLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	if m.renewTimer != nil {
		m.renewTimer.Stop()
		m.renewTimer = nil
	}
}

func (m *Manager) fetchProfile(ctx context.Context, email string) *members.Profile {
	var profile members.Profile
	path := apiclient.RouteMembers + "/" + url.PathEscape(email)
	if err := m.client.Do(ctx, http.MethodGet, path, nil, &profile); err != nil {
		m.log.Debug().Err(err).Msg("profile fetch after login failed")
		return nil
	}
	return &profile
}

func toRoleTypes(roles []string) []members.RoleType {
	if len(roles) == 0 {
		return nil
	}
	out := make([]members.RoleType, 0, len(roles))
	for _, r := range roles {
		out = append(out, members.RoleType(r))
	}
	return out
}
