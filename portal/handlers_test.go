package portal_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/internal/config"
	"github.com/orioz-inc/member-portal/portal"
)

const (
	memberEmail    = "john.doe@example.com"
	adminEmail     = "admin@example.com"
	memberPassword = "password123"
)

type testConfig struct {
	config.EnvVars
	backendURL string
}

func (c testConfig) GetBackendBaseURL() string { return c.backendURL }
func (c testConfig) GetRedisAddr() string      { return "" }
func (c testConfig) GetEnv() string            { return "TEST" }

func mintToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// fakeBackend scripts the member service the portal talks to.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	loginStatus int
	confirmed   []string
	rejected    []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, loginStatus: http.StatusOK}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == apiclient.RouteLogin && r.Method == http.MethodPost:
		b.handleLogin(w, r)

	case r.URL.Path == apiclient.RouteTokenRefresh && r.Method == http.MethodPost:
		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken": mintToken(b.t, jwtlib.MapClaims{"sub": "member-1", "roles": []string{"MEMBER"}}),
		})

	case r.URL.Path == apiclient.RouteRegister && r.Method == http.MethodPost:
		_, _ = w.Write([]byte(`{"email":"new.member@example.com","status":"PENDING"}`))

	case r.URL.Path == apiclient.RouteAdminPending && r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`[{"email":"pending@example.com","name":"Pending Person","status":"PENDING"}]`))

	case strings.HasPrefix(r.URL.Path, apiclient.RouteAdminMembers+"/") && r.Method == http.MethodPatch:
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, apiclient.RouteAdminMembers+"/"), "/")
		require.Len(b.t, parts, 2)
		b.mu.Lock()
		switch parts[1] {
		case apiclient.ActionConfirm:
			b.confirmed = append(b.confirmed, parts[0])
		case apiclient.ActionReject:
			b.rejected = append(b.rejected, parts[0])
		}
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	case strings.HasPrefix(r.URL.Path, apiclient.RouteMembers+"/") && r.Method == http.MethodGet:
		email := strings.TrimPrefix(r.URL.Path, apiclient.RouteMembers+"/")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"email":       email,
			"name":        "John Doe",
			"memberSince": "2024-01-15",
			"state":       "NSW",
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.loginStatus
	b.mu.Unlock()
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))

	roles := []string{"MEMBER"}
	if body.Email == adminEmail {
		roles = append(roles, "ADMIN")
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"accessToken": mintToken(b.t, jwtlib.MapClaims{
			"sub": "member-1", "email": body.Email, "roles": roles, "status": "ACTIVE",
		}),
		"idToken": mintToken(b.t, jwtlib.MapClaims{
			"sub": "member-1", "email": body.Email, "name": "John Doe",
		}),
		"refreshToken": "refresh-1",
	})
}

func (b *fakeBackend) moderated() (confirmed, rejected []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.confirmed, b.rejected
}

type portalFixture struct {
	backend *fakeBackend
	front   *httptest.Server
	client  *http.Client
}

func setupPortal(t *testing.T) *portalFixture {
	t.Helper()
	backend := newFakeBackend(t)
	server := portal.New(testConfig{backendURL: backend.server.URL})
	t.Cleanup(server.Sessions().CloseAll)

	front := httptest.NewServer(server)
	t.Cleanup(front.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &portalFixture{
		backend: backend,
		front:   front,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (f *portalFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.front.URL + path)
	require.NoError(t, err)
	return resp
}

func (f *portalFixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.front.URL+path, form)
	require.NoError(t, err)
	return resp
}

func (f *portalFixture) login(t *testing.T, email string) {
	t.Helper()
	resp := f.postForm(t, portal.RouteLogin, url.Values{
		"email":    {email},
		"password": {memberPassword},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, portal.RouteDashboard, resp.Header.Get("Location"))
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHomeRendersForAnonymousVisitor(t *testing.T) {
	f := setupPortal(t)
	resp := f.get(t, portal.RouteHome)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Login")
}

func TestUnknownPathIs404(t *testing.T) {
	f := setupPortal(t)
	resp := f.get(t, "/no-such-page")
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProtectedRouteRedirectsAnonymous(t *testing.T) {
	f := setupPortal(t)
	for _, path := range []string{portal.RouteDashboard, portal.RouteProfile, portal.RouteAdminReview} {
		resp := f.get(t, path)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, portal.RouteLogin, resp.Header.Get("Location"), path)
	}
}

func TestLoginFlowReachesDashboard(t *testing.T) {
	f := setupPortal(t)
	f.login(t, memberEmail)

	resp := f.get(t, portal.RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	require.Contains(t, page, "John Doe")
	require.Contains(t, page, "ACTIVE")
}

func TestLoginValidationFailure(t *testing.T) {
	f := setupPortal(t)
	resp := f.postForm(t, portal.RouteLogin, url.Values{
		"email":    {memberEmail},
		"password": {""},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Password is required.")
}

func TestLoginRejectedByBackend(t *testing.T) {
	f := setupPortal(t)
	f.backend.loginStatus = http.StatusUnauthorized

	resp := f.postForm(t, portal.RouteLogin, url.Values{
		"email":    {memberEmail},
		"password": {"wrong-password"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Invalid email or password")

	// The failed attempt must not leave a usable session behind.
	after := f.get(t, portal.RouteDashboard)
	after.Body.Close()
	require.Equal(t, http.StatusSeeOther, after.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	f := setupPortal(t)
	f.login(t, memberEmail)

	resp := f.get(t, portal.RouteLogout)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, portal.RouteLogin, resp.Header.Get("Location"))

	after := f.get(t, portal.RouteDashboard)
	after.Body.Close()
	require.Equal(t, http.StatusSeeOther, after.StatusCode)
	require.Equal(t, portal.RouteLogin, after.Header.Get("Location"))
}

func TestProfilePageShowsFetchedProfile(t *testing.T) {
	f := setupPortal(t)
	f.login(t, memberEmail)

	resp := f.get(t, portal.RouteProfile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	require.Contains(t, page, "John Doe")
	require.Contains(t, page, `value="NSW"`)
}

func TestAdminPagesForbiddenForMembers(t *testing.T) {
	f := setupPortal(t)
	f.login(t, memberEmail)

	resp := f.get(t, portal.RouteAdminReview)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminReviewAndModeration(t *testing.T) {
	f := setupPortal(t)
	f.login(t, adminEmail)

	review := f.get(t, portal.RouteAdminReview)
	require.Equal(t, http.StatusOK, review.StatusCode)
	require.Contains(t, body(t, review), "pending@example.com")

	confirm := f.postForm(t, "/admin/members/pending@example.com/confirm", nil)
	confirm.Body.Close()
	require.Equal(t, http.StatusSeeOther, confirm.StatusCode)
	require.Equal(t, portal.RouteAdminReview, confirm.Header.Get("Location"))

	reject := f.postForm(t, "/admin/members/other@example.com/reject", nil)
	reject.Body.Close()
	require.Equal(t, http.StatusSeeOther, reject.StatusCode)

	confirmed, rejected := f.backend.moderated()
	require.Equal(t, []string{"pending@example.com"}, confirmed)
	require.Equal(t, []string{"other@example.com"}, rejected)
}

func TestRegistrationFlow(t *testing.T) {
	f := setupPortal(t)

	resp := f.postForm(t, portal.RouteRegister, url.Values{
		"name":        {"New Member"},
		"email":       {"new.member@example.com"},
		"password":    {memberPassword},
		"dateOfBirth": {"1990-04-02"},
		"state":       {"NSW"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Registration received.")
}

func TestRegistrationValidation(t *testing.T) {
	f := setupPortal(t)

	resp := f.postForm(t, portal.RouteRegister, url.Values{
		"email":       {"new.member@example.com"},
		"password":    {memberPassword},
		"dateOfBirth": {"1990-04-02"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body(t, resp), "Name is required.")
}
