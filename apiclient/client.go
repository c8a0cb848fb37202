// Package apiclient is the sole path through which the portal calls the
// backend, public or protected. It classifies endpoints, attaches bearer
// credentials, refreshes expired access tokens before dispatch, and performs
// exactly one refresh-and-retry cycle on a 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/token"
)

const defaultTimeout = 15 * time.Second

// Client wraps outbound calls to the backend for one session scope.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	store         credentials.Store
	refreshPath   string
	refreshGroup  singleflight.Group
	onAuthFailure func()
	nowFunc       func() time.Time
	log           zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNowFunc sets the now time function (primarily for testing).
func WithNowFunc(now func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = now
	}
}

// WithRefreshPath overrides the token refresh endpoint. Some backend
// deployments expose RouteAuthRefresh instead of RouteTokenRefresh.
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithAuthFailureHandler registers the callback invoked when credentials are
// terminally unusable: a failed refresh on the protected path or a 401 that
// survived the single retry. The session manager wires its logout here.
func WithAuthFailureHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthFailure = fn
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// New creates a Client bound to one credential store.
func New(baseURL string, store credentials.Store, options ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		store:       store,
		refreshPath: RouteTokenRefresh,
		nowFunc:     time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Do issues one backend call and decodes a 2xx response body into out when
// out is non-nil.
//
// Public endpoints are dispatched with no Authorization header regardless of
// any ambient session. Protected endpoints are only ever dispatched with a
// non-expired access token attached; if no such token can be obtained, the
// network call is not attempted and NoValidCredentialErr is returned.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return errors.Wrap(err, "[Client.Do] marshal body")
	}

	if IsPublic(path) {
		status, data, err := c.send(ctx, method, path, payload, "")
		if err != nil {
			return err
		}
		return finish(status, data, out)
	}

	accessToken, err := c.ensureAccessToken(ctx)
	if err != nil {
		c.failSession("no usable credential for protected call")
		return errors.Wrap(NoValidCredentialErr, err.Error())
	}

	status, data, err := c.send(ctx, method, path, payload, accessToken)
	if err != nil {
		return err
	}

	// One refresh-and-retry cycle on a 401; a second 401 is terminal.
	if status == http.StatusUnauthorized {
		c.log.Debug().Str("path", path).Msg("401 on protected call, refreshing once")
		accessToken, err = c.Refresh(ctx)
		if err != nil {
			c.failSession("refresh after 401 failed")
			return errors.Wrap(NoValidCredentialErr, err.Error())
		}
		status, data, err = c.send(ctx, method, path, payload, accessToken)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.failSession("401 after refreshed token")
			return errors.Wrap(AuthFailedErr, newAPIError(status, data).Error())
		}
	}

	return finish(status, data, out)
}

// Login authenticates against the backend and normalizes whatever shape the
// response takes into one canonical credential bundle. It does not persist
// anything; session ownership lives with the caller.
func (c *Client) Login(ctx context.Context, email, password string) (credentials.Bundle, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return credentials.Bundle{}, errors.Wrap(err, "[Client.Login] marshal")
	}

	status, data, err := c.send(ctx, http.MethodPost, RouteLogin, payload, "")
	if err != nil {
		return credentials.Bundle{}, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return credentials.Bundle{}, newAPIError(status, data)
	}

	var body struct {
		AccessToken  string `json:"accessToken"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return credentials.Bundle{}, errors.Wrap(err, "[Client.Login] unmarshal response")
	}
	if body.AccessToken == "" {
		return credentials.Bundle{}, errors.New("[Client.Login] response carried no access token")
	}

	return credentials.Bundle{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		IDToken:      body.IDToken,
	}, nil
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it before returning, so concurrent calls observe the result.
// Concurrent refreshers are collapsed into one flight: the second caller
// awaits the in-flight refresh instead of clobbering it with its own.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	v, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.log.Debug().Msg("joined in-flight token refresh")
	}
	return v.(string), nil
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	bundle, profile, err := c.store.Load()
	if err != nil {
		return "", errors.Wrap(RefreshFailedErr, err.Error())
	}
	if bundle.RefreshToken == "" {
		return "", errors.Wrap(RefreshFailedErr, "no refresh token stored")
	}

	payload, err := json.Marshal(map[string]string{"token": bundle.RefreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Client.doRefresh] marshal")
	}

	status, data, err := c.send(ctx, http.MethodPost, c.refreshPath, payload, "")
	if err != nil {
		return "", errors.Wrap(RefreshFailedErr, err.Error())
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", errors.Wrap(RefreshFailedErr, newAPIError(status, data).Error())
	}

	var body struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		IDToken      string `json:"idToken"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", errors.Wrap(RefreshFailedErr, err.Error())
	}
	if body.AccessToken == "" {
		return "", errors.Wrap(RefreshFailedErr, "response carried no access token")
	}

	// The access token is always replaced; refresh and identity tokens only
	// rotate when the backend returns new ones.
	bundle.AccessToken = body.AccessToken
	if body.RefreshToken != "" {
		bundle.RefreshToken = body.RefreshToken
	}
	if body.IDToken != "" {
		bundle.IDToken = body.IDToken
	}

	if err := c.store.Save(bundle, profile); err != nil {
		return "", errors.Wrap(err, "[Client.doRefresh] store.Save")
	}

	c.log.Debug().Msg("access token refreshed")
	return body.AccessToken, nil
}

// ensureAccessToken returns a non-expired access token, refreshing first when
// the stored one is expired, undecodable or absent.
func (c *Client) ensureAccessToken(ctx context.Context) (string, error) {
	bundle, _, err := c.store.Load()
	if err == nil && token.Usable(bundle.AccessToken, c.nowFunc()) {
		return bundle.AccessToken, nil
	}
	return c.Refresh(ctx)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, bearer string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] NewRequestWithContext")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] httpClient.Do")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] ReadAll")
	}
	return resp.StatusCode, data, nil
}

func (c *Client) failSession(reason string) {
	c.log.Debug().Str("reason", reason).Msg("credential terminally unusable")
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}

func finish(status int, data []byte, out any) error {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return newAPIError(status, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "[Client.Do] unmarshal response")
	}
	return nil
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}
