package portal

import (
	"net/http"
	"strings"

	"github.com/orioz-inc/member-portal/memberapi"
)

// DashboardHandler renders the member dashboard from the cached profile.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		s.render(w, "dashboard", pageData{Title: "Dashboard", User: user})
	}
}

// ProfilePageHandler renders the profile form with a freshly fetched profile,
// falling back to the cached one when the backend is unreachable.
func (s *Server) ProfilePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := s.sessions.Manager(r)
		user := s.currentUser(r)
		if mgr == nil || user == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		profile := user
		if fetched, err := memberapi.New(mgr.Client()).Profile(r.Context(), user.Email); err == nil {
			fetched.Roles = user.Roles
			fetched.Status = user.Status
			profile = fetched
		} else {
			s.log.Debug().Err(err).Msg("profile fetch failed, rendering cached profile")
		}
		s.render(w, "profile", pageData{Title: "My Profile", User: user, Profile: profile})
	}
}

// ProfileUpdateHandler submits the edited profile to the backend and updates
// the session's cached copy. Tokens are untouched by a profile edit.
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := s.sessions.Manager(r)
		user := s.currentUser(r)
		if mgr == nil || user == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}

		edited := user.Clone()
		edited.Name = strings.TrimSpace(r.PostFormValue("name"))
		edited.State = strings.TrimSpace(r.PostFormValue("state"))

		updated, err := memberapi.New(mgr.Client()).UpdateProfile(r.Context(), user.Email, *edited)
		if err != nil {
			s.render(w, "profile", pageData{
				Title: "My Profile", User: user, Profile: edited,
				Error: backendErrorMessage(err),
			})
			return
		}

		updated.Roles = user.Roles
		updated.Status = user.Status
		if err := mgr.UpdateProfile(updated); err != nil {
			s.log.Error().Err(err).Msg("caching updated profile")
		}
		s.render(w, "profile", pageData{
			Title: "My Profile", User: updated, Profile: updated,
			Notice: "Profile updated.",
		})
	}
}
