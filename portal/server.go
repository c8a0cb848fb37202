// Package portal is the server-rendered shell of the member portal: the
// marketing pages, the login and registration flows, the member dashboard and
// the admin moderation screens. All durable state lives in the external
// backend; the portal only presents it and manages sessions.
package portal

import (
	"html/template"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/orioz-inc/member-portal/internal/config"
)

type Server struct {
	config    config.Config
	mux       *http.ServeMux
	sessions  *Registry
	templates *template.Template
	log       zerolog.Logger
	env       string
}

func New(cfg config.Config) *Server {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "portal").Logger()

	s := &Server{
		config:    cfg,
		mux:       http.NewServeMux(),
		templates: parseTemplates(),
		log:       logger,
		env:       cfg.GetEnv(),
	}
	s.sessions = NewRegistry(cfg, logger)
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Sessions exposes the scope registry so the entry point can tear down live
// sessions on shutdown.
func (s *Server) Sessions() *Registry {
	return s.sessions
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, handler)
}
