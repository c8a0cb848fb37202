package portal

import (
	"net/http"

	"github.com/orioz-inc/member-portal/members"
)

// HomeHandler renders the landing page.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The root pattern also matches unknown paths; anything else is a 404.
		if r.URL.Path != RouteHome {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		s.render(w, "home", pageData{Title: "Home", User: s.currentUser(r)})
	}
}

// PageHandler renders a static informational page.
func (s *Server) PageHandler(templateName, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, templateName, pageData{Title: title, User: s.currentUser(r)})
	}
}

// currentUser resolves the navigation state for page chrome. Pages render for
// anonymous visitors too, so a nil result is normal.
func (s *Server) currentUser(r *http.Request) *members.Profile {
	mgr := s.sessions.Manager(r)
	if mgr == nil {
		return nil
	}
	return mgr.CurrentUser()
}
