package auth

import (
	"context"
	"time"

	"tourbase/internal/cache"
)

const deniedTokenKeyPrefix = "denylist:token:"

// TokenStoreInterface defines the interface for token revocation storage.
type TokenStoreInterface interface {
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps a redis denylist of bearer tokens revoked by logout. Entries
// expire together with the token itself, so the set stays small.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Deny marks a token ID as revoked until its natural expiry.
func (s *TokenStore) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := deniedTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsDenied checks whether a token ID has been revoked.
func (s *TokenStore) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	key := deniedTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil // fail open: the cache already swallows outages
	}
	return data != nil, nil
}
