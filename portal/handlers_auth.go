package portal

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/credentials/memstore"
	"github.com/orioz-inc/member-portal/memberapi"
	"github.com/orioz-inc/member-portal/members"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// LoginPageHandler renders the login form. Already-authenticated visitors go
// straight to the dashboard.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr := s.sessions.Manager(r); mgr != nil && mgr.IsAuthenticated() {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}
		s.render(w, "login", pageData{Title: "Login"})
	}
}

// LoginSubmissionHandler validates the form, authenticates through the
// session manager, and redirects to the dashboard on success.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		form := map[string]string{"email": email}

		if msg := validateLogin(email, password); msg != "" {
			s.render(w, "login", pageData{Title: "Login", Error: msg, Form: form})
			return
		}

		mgr := s.sessions.Ensure(w, r)
		if err := mgr.Login(r.Context(), email, password); err != nil {
			s.log.Debug().Err(err).Msg("login rejected")
			s.render(w, "login", pageData{Title: "Login", Error: loginErrorMessage(err), Form: form})
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LogoutHandler destroys the session scope and returns to the landing page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Drop(w, r)
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// RegisterPageHandler renders the registration form.
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "register", pageData{Title: "Register"})
	}
}

// RegisterSubmissionHandler validates and submits a membership application.
// Registration is public, so it goes through an anonymous client.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	svc := memberapi.New(apiclient.New(s.config.GetBackendBaseURL(), memstore.New()))

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}
		registration := members.Registration{
			Name:        strings.TrimSpace(r.PostFormValue("name")),
			Email:       strings.TrimSpace(r.PostFormValue("email")),
			Password:    r.PostFormValue("password"),
			DateOfBirth: strings.TrimSpace(r.PostFormValue("dateOfBirth")),
		}
		if state := strings.TrimSpace(r.PostFormValue("state")); state != "" {
			registration.Addresses = []members.Address{{State: state}}
		}
		form := map[string]string{
			"name":        registration.Name,
			"email":       registration.Email,
			"dateOfBirth": registration.DateOfBirth,
			"state":       strings.TrimSpace(r.PostFormValue("state")),
		}

		if msg := validateRegistration(registration); msg != "" {
			s.render(w, "register", pageData{Title: "Register", Error: msg, Form: form})
			return
		}

		if _, err := svc.Register(r.Context(), registration); err != nil {
			s.render(w, "register", pageData{Title: "Register", Error: backendErrorMessage(err), Form: form})
			return
		}
		s.render(w, "login", pageData{
			Title:  "Login",
			Notice: "Registration received. You can sign in once the committee approves your membership.",
			Form:   map[string]string{"email": registration.Email},
		})
	}
}

func validateLogin(email, password string) string {
	if email == "" {
		return "Email is required."
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address."
	}
	if password == "" {
		return "Password is required."
	}
	if len(password) < minPasswordLength {
		return "Password must be at least 8 characters long."
	}
	return ""
}

func validateRegistration(registration members.Registration) string {
	if registration.Name == "" {
		return "Name is required."
	}
	if msg := validateLogin(registration.Email, registration.Password); msg != "" {
		return msg
	}
	if registration.DateOfBirth == "" {
		return "Date of birth is required."
	}
	return ""
}

// loginErrorMessage maps a login failure to the user-facing message. Backend
// rejections surface their own message when they carry one; everything else,
// including anything auth-internal, stays generic.
func loginErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode >= http.StatusInternalServerError {
		return "An unexpected error occurred. Please try again later."
	}
	// Message falls back to the status text when the backend sent no payload;
	// only a real backend message is worth surfacing verbatim.
	if apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.StatusCode) {
		return apiErr.Message
	}
	return "Invalid email or password."
}

func backendErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "An unexpected error occurred. Please try again later."
}
