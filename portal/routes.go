package portal

import (
	"github.com/orioz-inc/member-portal/gate"
	"github.com/orioz-inc/member-portal/members"
)

func (s *Server) initRoutes() {
	memberOnly := gate.RequireSession(s.sessions.Session, RouteLogin)
	adminOnly := gate.RequireRole(s.sessions.Session, members.RoleAdmin, RouteLogin)

	// Public marketing pages
	s.RegisterRouteFunc("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAbout, ChainMiddleware(s.PageHandler("about", "About Us"), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEvents, ChainMiddleware(s.PageHandler("events", "Events"), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteNews, ChainMiddleware(s.PageHandler("news", "News"), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteContact, ChainMiddleware(s.PageHandler("contact", "Contact Us"), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePrivacy, ChainMiddleware(s.PageHandler("privacy", "Privacy Policy"), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteTerms, ChainMiddleware(s.PageHandler("terms", "Terms of Service"), s.HTMLMiddleware()...))

	// LOGIN / LOGOUT / REGISTER
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleware()...))

	// Member pages (session required)
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(memberOnly)...))
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.ProfilePageHandler(), s.HTMLMiddleware(memberOnly)...))
	s.RegisterRouteFunc("POST "+RouteProfile, ChainMiddleware(s.ProfileUpdateHandler(), s.HTMLMiddleware(memberOnly)...))

	// Admin moderation (session + ADMIN role required)
	s.RegisterRouteFunc("GET "+RouteAdminReview, ChainMiddleware(s.AdminReviewHandler(), s.HTMLMiddleware(adminOnly)...))
	s.RegisterRouteFunc("POST "+RouteAdminConfirm, ChainMiddleware(s.AdminConfirmHandler(), s.HTMLMiddleware(adminOnly)...))
	s.RegisterRouteFunc("POST "+RouteAdminReject, ChainMiddleware(s.AdminRejectHandler(), s.HTMLMiddleware(adminOnly)...))
}
