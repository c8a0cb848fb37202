package portal

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/credentials/memstore"
	"github.com/orioz-inc/member-portal/credentials/redisstore"
	"github.com/orioz-inc/member-portal/gate"
	"github.com/orioz-inc/member-portal/internal/config"
	"github.com/orioz-inc/member-portal/session"
)

const sessionCookieName = "portal_session"

// Registry maps opaque session cookies to session managers. Each browser
// session owns exactly one manager (and therefore one credential store): a
// new login through the same scope replaces the old session wholesale, and
// tokens never travel to the browser - only the opaque cookie does.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*session.Manager
	cfg      config.Config
	redis    *redis.Client
	log      zerolog.Logger
}

// TODO: sweep scopes that have been anonymous longer than the idle window so
// abandoned cookies don't pin empty managers forever.
func NewRegistry(cfg config.Config, logger zerolog.Logger) *Registry {
	reg := &Registry{
		managers: make(map[string]*session.Manager),
		cfg:      cfg,
		log:      logger,
	}
	if addr := cfg.GetRedisAddr(); addr != "" {
		reg.redis = redis.NewClient(&redis.Options{Addr: addr})
		logger.Info().Str("addr", addr).Msg("credential store backed by redis")
	}
	return reg
}

// Session adapts Manager for the route gate, keeping the nil case a true nil
// interface.
func (reg *Registry) Session(r *http.Request) gate.SessionState {
	mgr := reg.Manager(r)
	if mgr == nil {
		return nil
	}
	return mgr
}

// Manager returns the session manager for the request's scope, or nil when
// the request carries no known session cookie.
func (reg *Registry) Manager(r *http.Request) *session.Manager {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.managers[cookie.Value]
}

// Ensure returns the request's manager, creating a fresh scope and setting
// its cookie when none exists yet.
func (reg *Registry) Ensure(w http.ResponseWriter, r *http.Request) *session.Manager {
	if mgr := reg.Manager(r); mgr != nil {
		return mgr
	}

	scopeID := uuid.New().String()
	mgr := session.New(
		reg.cfg.GetBackendBaseURL(),
		reg.newStore(scopeID),
		session.WithIdleTimeout(reg.cfg.GetIdleTimeout()),
		session.WithRenewalInterval(reg.cfg.GetRenewalInterval()),
		session.WithLogger(reg.log.With().Str("scope", scopeID).Logger()),
		session.WithClientOptions(
			apiclient.WithRefreshPath(reg.cfg.GetRefreshPath()),
			apiclient.WithLogger(reg.log.With().Str("scope", scopeID).Logger()),
		),
	)

	reg.mu.Lock()
	reg.managers[scopeID] = mgr
	reg.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    scopeID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return mgr
}

// Drop tears the request's scope down: the manager is closed (logging out and
// clearing its store) and the cookie expired.
func (reg *Registry) Drop(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return
	}

	reg.mu.Lock()
	mgr := reg.managers[cookie.Value]
	delete(reg.managers, cookie.Value)
	reg.mu.Unlock()

	if mgr != nil {
		mgr.Close()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CloseAll tears down every live scope. Called on server shutdown.
func (reg *Registry) CloseAll() {
	reg.mu.Lock()
	managers := make([]*session.Manager, 0, len(reg.managers))
	for id, mgr := range reg.managers {
		managers = append(managers, mgr)
		delete(reg.managers, id)
	}
	reg.mu.Unlock()

	for _, mgr := range managers {
		mgr.Close()
	}
}

func (reg *Registry) newStore(scopeID string) credentials.Store {
	if reg.redis != nil {
		return redisstore.New(reg.redis, scopeID, reg.cfg.GetIdleTimeout())
	}
	return memstore.New()
}
