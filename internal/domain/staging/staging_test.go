package staging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
)

func newEntry(key, materialRef, name string) Entry {
	return Entry{
		Key:          key,
		MaterialRef:  materialRef,
		MaterialKind: material.KindRawMaterial,
		MaterialName: name,
		Quantity:     types.MustQuantity("1"),
		UnitPrice:    types.MustMoney("10"),
	}
}

func TestMemoryStore_SetGetRemove(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session-1", "k1", newEntry("k1", "RM-1", "Steel"), time.Minute))

	got, ok, err := s.Get(ctx, "session-1", "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "RM-1", got.MaterialRef)

	require.NoError(t, s.Remove(ctx, "session-1", "k1"))
	_, ok, err = s.Get(ctx, "session-1", "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, s.Remove(ctx, "session-1", "k1"))
}

func TestMemoryStore_ExpiredEntriesInvisibleBeforeSweep(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b", "gone", newEntry("gone", "RM-1", "Steel"), time.Nanosecond))
	require.NoError(t, s.Set(ctx, "b", "live", newEntry("live", "RM-2", "Copper"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := s.Get(ctx, "b", "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.ListLiveKeys(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, keys)
}

func TestMemoryStore_SweepRemovesExpired(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b", "k", newEntry("k", "RM-1", "Steel"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	s.sweep(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Empty(t, s.buffers)
}

func TestGuard_RejectsDuplicateMaterial(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	g := NewGuard(s, time.Hour)
	ctx := context.Background()

	require.NoError(t, g.TryStage(ctx, "session-1", newEntry("k1", "RM-1", "Steel")))

	err := g.TryStage(ctx, "session-1", newEntry("k2", "RM-1", "Steel (dup)"))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateItem(err))

	// The error names the conflicting entry.
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Steel", appErr.Details["conflictingItem"])

	// A different material in the same buffer is fine.
	require.NoError(t, g.TryStage(ctx, "session-1", newEntry("k3", "RM-2", "Copper")))

	// Same material in another session's buffer is fine too.
	require.NoError(t, g.TryStage(ctx, "session-2", newEntry("k1", "RM-1", "Steel")))
}

func TestGuard_ExpiredEntryDoesNotBlockRestage(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	g := NewGuard(s, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b", "k1", newEntry("k1", "RM-1", "Steel"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, g.TryStage(ctx, "b", newEntry("k2", "RM-1", "Steel")))
}

func TestGuard_Clear(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	g := NewGuard(s, time.Hour)
	ctx := context.Background()

	require.NoError(t, g.TryStage(ctx, "b", newEntry("k1", "RM-1", "Steel")))
	require.NoError(t, g.TryStage(ctx, "b", newEntry("k2", "RM-2", "Copper")))

	require.NoError(t, g.Clear(ctx, "b"))

	live, err := g.List(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, live)
}

// failStore always errors, standing in for an unreachable primary.
type failStore struct{}

func (failStore) Set(ctx context.Context, buffer, key string, e Entry, ttl time.Duration) error {
	return errors.New("primary down")
}
func (failStore) Get(ctx context.Context, buffer, key string) (Entry, bool, error) {
	return Entry{}, false, errors.New("primary down")
}
func (failStore) Remove(ctx context.Context, buffer, key string) error {
	return errors.New("primary down")
}
func (failStore) ListLiveKeys(ctx context.Context, buffer string) ([]string, error) {
	return nil, errors.New("primary down")
}
func (failStore) ListLive(ctx context.Context, buffer string) ([]Entry, error) {
	return nil, errors.New("primary down")
}

func TestTieredStore_FallsBackWhenPrimaryDown(t *testing.T) {
	fallback := NewMemoryStore(time.Hour)
	defer fallback.Close()
	tiered := NewTieredStore(failStore{}, fallback)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "b", "k1", newEntry("k1", "RM-1", "Steel"), time.Hour))

	got, ok, err := tiered.Get(ctx, "b", "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "RM-1", got.MaterialRef)

	keys, err := tiered.ListLiveKeys(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, keys)
}
