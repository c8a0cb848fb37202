// Package redisstore is a Redis-backed credential store for multi-instance
// portal deployments, where a browser session may be served by any replica.
//
// Each session scope maps to a single Redis hash so that Clear is one DEL -
// there is no key layout in which a stale refresh token can be left behind.
// Entries carry a TTL equal to the idle window, so abandoned sessions age out
// server-side without a sweeper.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/members"
)

const (
	keyPrefix = "portal:session:"

	fieldAccessToken  = "accessToken"
	fieldRefreshToken = "refreshToken"
	fieldIDToken      = "idToken"
	fieldProfile      = "profile"

	opTimeout = 3 * time.Second
)

var _ credentials.Store = (*Store)(nil)

type Store struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New creates a store scoped to one portal session. ttl should match the
// session idle window.
func New(client *redis.Client, scopeID string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		key:    keyPrefix + scopeID,
		ttl:    ttl,
	}
}

func (s *Store) Save(bundle credentials.Bundle, profile *members.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[redisstore.Save] marshal profile")
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	pipe.HSet(ctx, s.key, map[string]any{
		fieldAccessToken:  bundle.AccessToken,
		fieldRefreshToken: bundle.RefreshToken,
		fieldIDToken:      bundle.IDToken,
		fieldProfile:      string(profileJSON),
	})
	pipe.Expire(ctx, s.key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "[redisstore.Save] pipeline exec")
	}
	return nil
}

func (s *Store) Load() (credentials.Bundle, *members.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return credentials.Bundle{}, nil, errors.Wrap(err, "[redisstore.Load] HGetAll")
	}
	if len(fields) == 0 {
		return credentials.Bundle{}, nil, credentials.NotFoundErr
	}

	bundle := credentials.Bundle{
		AccessToken:  fields[fieldAccessToken],
		RefreshToken: fields[fieldRefreshToken],
		IDToken:      fields[fieldIDToken],
	}

	var profile *members.Profile
	if raw := fields[fieldProfile]; raw != "" && raw != "null" {
		profile = &members.Profile{}
		if err := json.Unmarshal([]byte(raw), profile); err != nil {
			return credentials.Bundle{}, nil, errors.Wrap(err, "[redisstore.Load] unmarshal profile")
		}
	}
	return bundle, profile, nil
}

func (s *Store) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "[redisstore.Clear] Del")
	}
	return nil
}
