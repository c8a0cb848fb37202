package memberapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/credentials/memstore"
	"github.com/orioz-inc/member-portal/memberapi"
	"github.com/orioz-inc/member-portal/members"
)

// recordedCall captures what the backend actually received.
type recordedCall struct {
	method      string
	escapedPath string
	authHeader  string
	body        []byte
}

type serviceFixture struct {
	server  *httptest.Server
	service *memberapi.Service

	mu       sync.Mutex
	calls    []recordedCall
	response string
	status   int
}

func setupService(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{response: "{}", status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{
			method:      r.Method,
			escapedPath: r.URL.EscapedPath(),
			authHeader:  r.Header.Get("Authorization"),
			body:        body,
		})
		response, status := f.response, f.status
		f.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(f.server.Close)

	store := memstore.New()
	claims := jwtlib.MapClaims{"sub": "member-1", "exp": time.Now().Add(time.Hour).Unix()}
	accessToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, store.Save(credentials.Bundle{AccessToken: accessToken, RefreshToken: "refresh-1"}, nil))

	f.service = memberapi.New(apiclient.New(f.server.URL, store))
	return f
}

func (f *serviceFixture) lastCall(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func TestRegisterIsAnonymous(t *testing.T) {
	f := setupService(t)
	f.response = `{"email":"new.member@example.com","status":"PENDING"}`

	created, err := f.service.Register(context.Background(), members.Registration{
		Name:     "New Member",
		Email:    "new.member@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, members.StatusPending, created.Status)

	call := f.lastCall(t)
	require.Equal(t, http.MethodPost, call.method)
	require.Equal(t, apiclient.RouteRegister, call.escapedPath)
	require.Empty(t, call.authHeader, "registration is a public call")
	require.Contains(t, string(call.body), `"name":"New Member"`)
}

func TestProfileEscapesEmailAndCarriesBearer(t *testing.T) {
	f := setupService(t)
	f.response = `{"email":"john.doe@example.com","name":"John Doe"}`

	profile, err := f.service.Profile(context.Background(), "john.doe@example.com")
	require.NoError(t, err)
	require.Equal(t, "John Doe", profile.Name)

	call := f.lastCall(t)
	require.Equal(t, http.MethodGet, call.method)
	require.Equal(t, apiclient.RouteMembers+"/john.doe%40example.com", call.escapedPath)
	require.Contains(t, call.authHeader, "Bearer ")
}

func TestUpdateProfileSendsPut(t *testing.T) {
	f := setupService(t)
	f.response = `{"email":"john.doe@example.com","state":"VIC"}`

	updated, err := f.service.UpdateProfile(context.Background(), "john.doe@example.com", members.Profile{
		Email: "john.doe@example.com",
		State: "VIC",
	})
	require.NoError(t, err)
	require.Equal(t, "VIC", updated.State)

	call := f.lastCall(t)
	require.Equal(t, http.MethodPut, call.method)
	require.Equal(t, apiclient.RouteMembers+"/john.doe%40example.com", call.escapedPath)
	require.Contains(t, string(call.body), `"state":"VIC"`)
}

func TestPendingMembers(t *testing.T) {
	f := setupService(t)
	f.response = `[{"email":"a@example.com","status":"PENDING"},{"email":"b@example.com","status":"PENDING"}]`

	pending, err := f.service.PendingMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "a@example.com", pending[0].Email)

	call := f.lastCall(t)
	require.Equal(t, http.MethodGet, call.method)
	require.Equal(t, apiclient.RouteAdminPending, call.escapedPath)
}

func TestModerationActions(t *testing.T) {
	f := setupService(t)

	require.NoError(t, f.service.ConfirmMember(context.Background(), "pending@example.com"))
	call := f.lastCall(t)
	require.Equal(t, http.MethodPatch, call.method)
	require.Equal(t, apiclient.RouteAdminMembers+"/pending%40example.com/confirm", call.escapedPath)

	require.NoError(t, f.service.RejectMember(context.Background(), "pending@example.com"))
	call = f.lastCall(t)
	require.Equal(t, http.MethodPatch, call.method)
	require.Equal(t, apiclient.RouteAdminMembers+"/pending%40example.com/reject", call.escapedPath)
}

func TestBackendErrorSurfaces(t *testing.T) {
	f := setupService(t)
	f.status = http.StatusConflict
	f.response = `{"message":"Email already registered"}`

	_, err := f.service.Register(context.Background(), members.Registration{
		Name:     "Duplicate",
		Email:    "dup@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Email already registered")
}
