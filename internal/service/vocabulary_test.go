//go:build !integration && !e2e
// +build !integration,!e2e

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/repository"
	"github.com/user/mleague-analyst/internal/testutil"
	"go.uber.org/zap"
)

type fakeNames struct {
	mu      sync.Mutex
	teams   []string
	players []string
	err     error
	calls   atomic.Int32
}

func (f *fakeNames) DistinctTeams(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func (f *fakeNames) DistinctPlayers(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.players, nil
}

func (f *fakeNames) set(teams, players []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams, f.players, f.err = teams, players, err
}

func TestVocabularyCache_PerRequest(t *testing.T) {
	src := &fakeNames{teams: []string{"A"}, players: []string{"p1"}}
	cache := NewVocabularyCache(src, config.VocabularyConfig{RefreshPolicy: config.RefreshPerRequest}, nil, zap.NewNop())
	ctx := context.Background()

	assert.Nil(t, cache.Snapshot())
	v := cache.Get(ctx)
	assert.Equal(t, []string{"p1"}, v.Players)

	src.set([]string{"A", "B"}, []string{"p1", "p2"}, nil)
	v = cache.Get(ctx)
	assert.Equal(t, []string{"A", "B"}, v.Teams)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestVocabularyCache_KeepsPreviousOnFailure(t *testing.T) {
	src := &fakeNames{teams: []string{"A"}, players: []string{"p1"}}
	cache := NewVocabularyCache(src, config.VocabularyConfig{RefreshPolicy: config.RefreshPerRequest}, nil, zap.NewNop())
	ctx := context.Background()

	first := cache.Get(ctx)
	src.set(nil, nil, errors.New("database is locked"))

	_, err := cache.Refresh(ctx)
	require.Error(t, err)

	assert.Same(t, first, cache.Get(ctx))
}

func TestVocabularyCache_EmptyWhenNeverLoaded(t *testing.T) {
	src := &fakeNames{err: errors.New("no such table: stats")}
	cache := NewVocabularyCache(src, config.VocabularyConfig{}, nil, zap.NewNop())

	v := cache.Get(context.Background())
	require.NotNil(t, v)
	assert.True(t, v.IsEmpty())
}

func TestVocabularyCache_TTL(t *testing.T) {
	src := &fakeNames{teams: []string{"A"}, players: []string{"p1"}}
	cache := NewVocabularyCache(src, config.VocabularyConfig{RefreshPolicy: config.RefreshTTL, TTL: time.Minute}, nil, zap.NewNop())

	now := time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Get(ctx)
	cache.Get(ctx)
	assert.EqualValues(t, 1, src.calls.Load())

	src.set([]string{"B"}, []string{"p2"}, nil)
	now = now.Add(2 * time.Minute)
	v := cache.Get(ctx)
	assert.EqualValues(t, 2, src.calls.Load())
	assert.Equal(t, []string{"B"}, v.Teams)
}

func TestVocabularyCache_TTLRefreshInProgress(t *testing.T) {
	src := &fakeNames{teams: []string{"A"}, players: []string{"p1"}}
	cache := NewVocabularyCache(src, config.VocabularyConfig{RefreshPolicy: config.RefreshTTL, TTL: time.Minute}, nil, zap.NewNop())

	now := time.Now()
	cache.now = func() time.Time { return now }
	old := cache.Get(context.Background())

	now = now.Add(time.Hour)
	cache.refreshing.Store(true)

	assert.Same(t, old, cache.Get(context.Background()))
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestVocabularyCache_FromRepository(t *testing.T) {
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	m := metrics.NewManager()
	cache := NewVocabularyCache(repo, config.VocabularyConfig{RefreshPolicy: config.RefreshPerRequest}, m, zap.NewNop())

	v, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, v.Players, 6)
	assert.Contains(t, v.Teams, testutil.TeamRaiden)
	assert.False(t, v.LoadedAt.IsZero())
}
