package portal

import (
	"net/http"

	"github.com/orioz-inc/member-portal/memberapi"
)

// AdminReviewHandler lists registrations awaiting moderation.
func (s *Server) AdminReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := s.sessions.Manager(r)
		user := s.currentUser(r)
		if mgr == nil || user == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		pending, err := memberapi.New(mgr.Client()).PendingMembers(r.Context())
		if err != nil {
			s.render(w, "admin_review", pageData{
				Title: "Review Members", User: user,
				Error: backendErrorMessage(err),
			})
			return
		}
		s.render(w, "admin_review", pageData{Title: "Review Members", User: user, Pending: pending})
	}
}

// AdminConfirmHandler approves the pending registration named in the path.
func (s *Server) AdminConfirmHandler() http.HandlerFunc {
	return s.moderationHandler(func(svc *memberapi.Service, r *http.Request, email string) error {
		return svc.ConfirmMember(r.Context(), email)
	})
}

// AdminRejectHandler declines the pending registration named in the path.
func (s *Server) AdminRejectHandler() http.HandlerFunc {
	return s.moderationHandler(func(svc *memberapi.Service, r *http.Request, email string) error {
		return svc.RejectMember(r.Context(), email)
	})
}

func (s *Server) moderationHandler(action func(*memberapi.Service, *http.Request, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := s.sessions.Manager(r)
		if mgr == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		email := r.PathValue("email")
		if email == "" {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}
		if err := action(memberapi.New(mgr.Client()), r, email); err != nil {
			s.render(w, "admin_review", pageData{
				Title: "Review Members", User: s.currentUser(r),
				Error: backendErrorMessage(err),
			})
			return
		}
		http.Redirect(w, r, RouteAdminReview, http.StatusSeeOther)
	}
}
