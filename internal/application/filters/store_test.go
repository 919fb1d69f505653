package filters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Store{Rdb: rdb}, mr
}

func TestStore_SaveAndLast(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()
	user := uuid.New()
	maxPrice := 8000.0

	_, ok, err := s.Last(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	want := SearchFilter{Type: "room", City: "Pune", MaxPrice: &maxPrice, Amenity: "wifi"}
	require.NoError(t, s.Save(ctx, user, want))
	assert.Equal(t, DefaultTTL, mr.TTL("filters:last:"+user.String()))

	got, ok, err := s.Last(ctx, user)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, _ = s.Last(ctx, uuid.New())
	assert.False(t, ok, "filters are per user")
}

func TestStore_Expires(t *testing.T) {
	s, mr := setupStore(t)
	s.TTL = time.Hour
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, s.Save(ctx, user, SearchFilter{City: "Goa"}))
	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Last(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptValueReadsAsMissing(t *testing.T) {
	s, mr := setupStore(t)
	user := uuid.New()
	require.NoError(t, mr.Set("filters:last:"+user.String(), "{not json"))

	_, ok, err := s.Last(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	user := uuid.New()
	require.NoError(t, s.Save(ctx, user, SearchFilter{Type: "shop"}))
	require.NoError(t, s.Clear(ctx, user))
	_, ok, _ := s.Last(ctx, user)
	assert.False(t, ok)
}

func TestSearchFilter_IsZero(t *testing.T) {
	assert.True(t, SearchFilter{}.IsZero())
	assert.False(t, SearchFilter{City: "Pune"}.IsZero())
}
