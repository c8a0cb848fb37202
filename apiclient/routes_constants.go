package apiclient

// Backend route constants
// All consumed backend paths are defined here to ensure consistency and prevent typos
const (
	RouteRegister     = "/api/v1/members/register"
	RouteLogin        = "/api/v1/members/auth/login"
	RouteAuthRefresh  = "/api/v1/members/auth/refresh"
	RouteToken        = "/api/v1/token"
	RouteTokenRefresh = "/api/v1/token/refresh"

	RouteMembers       = "/api/v1/members"
	RouteAdminPending  = "/api/v1/admin/members/pending"
	RouteAdminMembers  = "/api/v1/admin/members"
	ActionConfirm      = "confirm"
	ActionReject       = "reject"
)

// publicPaths lists the backend endpoints that must be callable without any
// credential: registration, login, and token issuance/refresh. Everything
// else is protected.
var publicPaths = []string{
	RouteRegister,
	RouteLogin,
	RouteAuthRefresh,
	RouteToken,
}

// IsPublic classifies an endpoint against the public allow-list. A path
// matches when it equals a listed path or starts with it plus a separator,
// so RouteToken covers RouteTokenRefresh without also matching lookalike
// prefixes such as "/api/v1/tokens".
func IsPublic(path string) bool {
	for _, public := range publicPaths {
		if path == public || len(path) > len(public) && path[:len(public)] == public && path[len(public)] == '/' {
			return true
		}
	}
	return false
}
