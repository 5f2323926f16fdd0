package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

// NameSource lists the names present in the cache.
type NameSource interface {
	DistinctTeams(ctx context.Context) ([]string, error)
	DistinctPlayers(ctx context.Context) ([]string, error)
}

// VocabularyCache holds the current snapshot of team and player names.
// Snapshots are replaced atomically; concurrent refreshes race and the last
// writer wins. A failed refresh keeps the previous snapshot.
type VocabularyCache struct {
	source     NameSource
	policy     string
	ttl        time.Duration
	current    atomic.Pointer[models.Vocabulary]
	refreshing atomic.Bool
	metrics    *metrics.Manager
	logger     *zap.Logger
	now        func() time.Time
}

// NewVocabularyCache creates a cache with the configured refresh policy.
// Nothing is loaded until the first Get or Refresh.
func NewVocabularyCache(source NameSource, cfg config.VocabularyConfig, m *metrics.Manager, logger *zap.Logger) *VocabularyCache {
	policy := cfg.RefreshPolicy
	if policy == "" {
		policy = config.RefreshPerRequest
	}
	return &VocabularyCache{
		source:  source,
		policy:  policy,
		ttl:     cfg.TTL,
		metrics: m,
		logger:  logger.Named("vocabulary"),
		now:     time.Now,
	}
}

// Refresh reloads the names from the cache and publishes a new snapshot.
func (v *VocabularyCache) Refresh(ctx context.Context) (*models.Vocabulary, error) {
	teams, err := v.source.DistinctTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	players, err := v.source.DistinctPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}

	snap := &models.Vocabulary{Teams: teams, Players: players, LoadedAt: v.now()}
	v.current.Store(snap)
	v.metrics.SetVocabularySize(len(teams), len(players))

	v.logger.Debug("vocabulary refreshed",
		zap.Int("teams", len(teams)),
		zap.Int("players", len(players)))
	return snap, nil
}

// Get returns a snapshot according to the refresh policy. It never fails:
// on refresh errors the previous snapshot (or an empty one) is returned.
func (v *VocabularyCache) Get(ctx context.Context) *models.Vocabulary {
	cur := v.current.Load()

	if v.policy == config.RefreshTTL && cur != nil {
		if v.now().Sub(cur.LoadedAt) < v.ttl {
			return cur
		}
		// Only one caller refreshes; the rest keep reading the old snapshot.
		if !v.refreshing.CompareAndSwap(false, true) {
			return cur
		}
		defer v.refreshing.Store(false)
	}

	snap, err := v.Refresh(ctx)
	if err != nil {
		v.logger.Warn("vocabulary refresh failed, keeping previous snapshot", zap.Error(err))
		if cur == nil {
			return &models.Vocabulary{}
		}
		return cur
	}
	return snap
}

// Snapshot returns the current snapshot without refreshing; nil before the
// first load.
func (v *VocabularyCache) Snapshot() *models.Vocabulary {
	return v.current.Load()
}
