// Package filters remembers the last search filter of each user.
package filters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "filters:last:"
	DefaultTTL = 24 * time.Hour
)

// SearchFilter narrows the public listing search. Zero values match everything.
type SearchFilter struct {
	Type     string   `json:"type,omitempty"`
	City     string   `json:"city,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Amenity  string   `json:"amenity,omitempty"`
}

// IsZero reports whether the filter matches every listing.
func (f SearchFilter) IsZero() bool {
	return f.Type == "" && f.City == "" && f.MinPrice == nil && f.MaxPrice == nil && f.Amenity == ""
}

// Store keeps filters in Redis with a sliding TTL.
type Store struct {
	Rdb *redis.Client
	TTL time.Duration
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (s *Store) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

// Save replaces the remembered filter of userID.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, f SearchFilter) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := s.Rdb.Set(ctx, key(userID), b, s.ttl()).Err(); err != nil {
		return fmt.Errorf("filters: save: %w", err)
	}
	return nil
}

// Last returns the remembered filter. ok is false when none is stored or the
// stored value cannot be decoded.
func (s *Store) Last(ctx context.Context, userID uuid.UUID) (SearchFilter, bool, error) {
	b, err := s.Rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SearchFilter{}, false, nil
	}
	if err != nil {
		return SearchFilter{}, false, fmt.Errorf("filters: load: %w", err)
	}
	var f SearchFilter
	if err := json.Unmarshal(b, &f); err != nil {
		return SearchFilter{}, false, nil
	}
	s.Rdb.Expire(ctx, key(userID), s.ttl())
	return f, true, nil
}

// Clear forgets the remembered filter.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.Rdb.Del(ctx, key(userID)).Err()
}
