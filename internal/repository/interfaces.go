// Package repository defines data access interfaces and implementations.
package repository

import (
	"context"

	"github.com/user/mleague-analyst/internal/models"
)

// LeagueReader is the read-only view of the cache used by the chat pipeline.
type LeagueReader interface {
	DistinctTeams(ctx context.Context) ([]string, error)
	DistinctPlayers(ctx context.Context) ([]string, error)
	Query(ctx context.Context, query string, args ...any) (*models.ResultSet, error)
}

// CacheInspector backs the /debug endpoint.
type CacheInspector interface {
	Counts(ctx context.Context) (map[string]int64, error)
	LatestGameDate(ctx context.Context) (string, error)
	Sample(ctx context.Context, table string, limit int) (*models.ResultSet, error)
	LatestRun(ctx context.Context) (*models.IngestionRun, error)
}

// LeagueWriter replaces cache tables wholesale. Used by the ingestion job.
type LeagueWriter interface {
	ReplaceStats(ctx context.Context, rows []models.PlayerStat) error
	ReplaceGames(ctx context.Context, rows []models.GameResult) error
	ReplaceTeamRanking(ctx context.Context, rows []models.TeamRanking) error
	StartRun(ctx context.Context) (*models.IngestionRun, error)
	FinishRun(ctx context.Context, run *models.IngestionRun) error
}

var (
	_ LeagueReader   = (*LeagueRepository)(nil)
	_ CacheInspector = (*LeagueRepository)(nil)
	_ LeagueWriter   = (*IngestRepository)(nil)
)
