package portal

// Route path constants
// All portal routes are defined here to ensure consistency and prevent typos
const (
	// Public marketing pages
	RouteHome    = "/"
	RouteAbout   = "/about"
	RouteEvents  = "/events"
	RouteNews    = "/news"
	RouteContact = "/contact"
	RoutePrivacy = "/privacy-policy"
	RouteTerms   = "/terms-of-service"

	// Auth pages
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteRegister = "/register"

	// Member pages (protected)
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"

	// Admin pages (protected, ADMIN role)
	RouteAdminReview  = "/admin/review"
	RouteAdminConfirm = "/admin/members/{email}/confirm"
	RouteAdminReject  = "/admin/members/{email}/reject"
)
