// Package memberapi is the typed surface over the backend's member and admin
// endpoints. Every call funnels through the session-aware API client, so
// credential attachment and refresh never leak into page handlers.
package memberapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/orioz-inc/member-portal/apiclient"
	"github.com/orioz-inc/member-portal/members"
)

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Register submits a new membership application. Public endpoint; the created
// member stays pending until an admin confirms it.
func (s *Service) Register(ctx context.Context, registration members.Registration) (*members.Profile, error) {
	var created members.Profile
	if err := s.client.Do(ctx, http.MethodPost, apiclient.RouteRegister, registration, &created); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Do")
	}
	return &created, nil
}

// Profile fetches the member profile for the given email.
func (s *Service) Profile(ctx context.Context, email string) (*members.Profile, error) {
	var profile members.Profile
	if err := s.client.Do(ctx, http.MethodGet, memberPath(email), nil, &profile); err != nil {
		return nil, errors.Wrap(err, "[Service.Profile] Do")
	}
	return &profile, nil
}

// UpdateProfile replaces the member's profile with the given one.
func (s *Service) UpdateProfile(ctx context.Context, email string, profile members.Profile) (*members.Profile, error) {
	var updated members.Profile
	if err := s.client.Do(ctx, http.MethodPut, memberPath(email), profile, &updated); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateProfile] Do")
	}
	return &updated, nil
}

// PendingMembers lists registrations awaiting moderation. Requires the ADMIN role.
func (s *Service) PendingMembers(ctx context.Context) ([]members.Profile, error) {
	var pending []members.Profile
	if err := s.client.Do(ctx, http.MethodGet, apiclient.RouteAdminPending, nil, &pending); err != nil {
		return nil, errors.Wrap(err, "[Service.PendingMembers] Do")
	}
	return pending, nil
}

// ConfirmMember approves a pending registration. Requires the ADMIN role.
func (s *Service) ConfirmMember(ctx context.Context, email string) error {
	path := adminMemberPath(email, apiclient.ActionConfirm)
	if err := s.client.Do(ctx, http.MethodPatch, path, nil, nil); err != nil {
		return errors.Wrap(err, "[Service.ConfirmMember] Do")
	}
	return nil
}

// RejectMember declines a pending registration. Requires the ADMIN role.
func (s *Service) RejectMember(ctx context.Context, email string) error {
	path := adminMemberPath(email, apiclient.ActionReject)
	if err := s.client.Do(ctx, http.MethodPatch, path, nil, nil); err != nil {
		return errors.Wrap(err, "[Service.RejectMember] Do")
	}
	return nil
}

func memberPath(email string) string {
	return apiclient.RouteMembers + "/" + url.PathEscape(email)
}

func adminMemberPath(email, action string) string {
	return apiclient.RouteAdminMembers + "/" + url.PathEscape(email) + "/" + action
}
