package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/game"
)

type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func TestMemoryStoreExpiresAndSweeps(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute).(*memory)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	old := game.New(10, zeroSource{})
	require.NoError(t, m.Save(ctx, old))
	_, err := m.Get(ctx, old.ID)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = m.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	fresh := game.New(10, zeroSource{})
	require.NoError(t, m.Save(ctx, fresh))
	assert.Len(t, m.sessions, 1)
	_, ok := m.sessions[old.ID]
	assert.False(t, ok)
}

func TestMemoryStoreSaveRefreshesTTL(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute).(*memory)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	s := game.New(10, zeroSource{})
	require.NoError(t, m.Save(ctx, s))
	clock = clock.Add(50 * time.Second)
	require.NoError(t, m.Save(ctx, s))
	clock = clock.Add(50 * time.Second)

	_, err := m.Get(ctx, s.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreWithoutTTLKeepsSessions(t *testing.T) {
	m := NewMemoryStore(0).(*memory)
	ctx := context.Background()
	s := game.New(10, zeroSource{})
	require.NoError(t, m.Save(ctx, s))

	m.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, err := m.Get(ctx, s.ID)
	assert.NoError(t, err)
}
