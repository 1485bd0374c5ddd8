package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-forecaster/form"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	return newCappedStore(ttl, 100)
}

func newCappedStore(ttl time.Duration, max int) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, max, func() *form.Controller { return form.NewController(nil, nil) })
	s.now = clock.now
	return s, clock
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	id, c := s.Create()
	require.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetOrCreate(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	id, c, created := s.GetOrCreate("")
	assert.True(t, created)

	sameID, same, created := s.GetOrCreate(id)
	assert.False(t, created)
	assert.Equal(t, id, sameID)
	assert.Same(t, c, same)

	otherID, _, created := s.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", otherID)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Expiry(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)
	id, _ := s.Create()

	clock.t = clock.t.Add(9 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok, "Get продлевает сессию")

	clock.t = clock.t.Add(9 * time.Minute)
	_, ok = s.Get(id)
	require.True(t, ok)

	clock.t = clock.t.Add(11 * time.Minute)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Cleanup(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	old, _ := s.Create()

	clock.t = clock.t.Add(50 * time.Second)
	fresh, _ := s.Create()

	clock.t = clock.t.Add(30 * time.Second)
	assert.Equal(t, 1, s.Cleanup())

	_, ok := s.Get(old)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Create()
	s.Create()

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_CapEvictsLeastRecentlySeen(t *testing.T) {
	s, clock := newCappedStore(time.Hour, 2)

	first, _ := s.Create()
	clock.t = clock.t.Add(time.Second)
	second, _ := s.Create()
	clock.t = clock.t.Add(time.Second)

	// first снова активна, вытесняться должна second
	_, ok := s.Get(first)
	require.True(t, ok)
	clock.t = clock.t.Add(time.Second)

	third, _ := s.Create()

	assert.Equal(t, 2, s.Len())
	_, ok = s.Get(second)
	assert.False(t, ok)
	_, ok = s.Get(first)
	assert.True(t, ok)
	_, ok = s.Get(third)
	assert.True(t, ok)
}

func TestStore_CapNeverExceeded(t *testing.T) {
	s, clock := newCappedStore(time.Hour, 5)

	for i := 0; i < 50; i++ {
		s.GetOrCreate("")
		clock.t = clock.t.Add(time.Millisecond)
	}

	assert.Equal(t, 5, s.Len())
}

func TestStore_CapPrefersExpired(t *testing.T) {
	s, clock := newCappedStore(time.Minute, 2)

	stale, _ := s.Create()
	clock.t = clock.t.Add(2 * time.Minute)
	fresh, _ := s.Create()
	_, _ = s.Create()

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(stale)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}
