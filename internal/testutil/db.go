// Package testutil provides test utilities and fixtures for the analyst service.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/database"
	"go.uber.org/zap"
)

// NewTestDB creates a migrated SQLite cache in a temp dir.
// A file is used instead of :memory: so pooled connections share the data.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, _ := NewTestDBPath(t)
	return db
}

// NewTestDBPath is NewTestDB that also returns the file path, for tests
// that open a second (read-only) handle.
func NewTestDBPath(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "m_league.db")
	db, err := database.New(path)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		db.Close()
	})

	err = database.RunMigrations(context.Background(), db, zap.NewNop())
	require.NoError(t, err, "failed to create schema")

	return db, path
}

// NewSeededDB creates a test database filled with the sample league.
func NewSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	SeedLeague(t, db)
	return db
}

// SeedLeague inserts SampleStats, SampleGames and SampleRanking.
func SeedLeague(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	for _, s := range SampleStats() {
		_, err := db.ExecContext(ctx, `
			INSERT INTO stats (team, player, matches, total_hands, points, avg_rank,
				rank_1_count, rank_2_count, rank_3_count, rank_4_count,
				top_rate, rentai_rate, last_avoid_rate, best_score, avg_score,
				furo_rate, riichi_rate, agari_rate, hoju_rate, hoju_avg_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Team, s.Player, s.Matches, s.TotalHands, s.Points, s.AvgRank,
			s.Rank1Count, s.Rank2Count, s.Rank3Count, s.Rank4Count,
			s.TopRate, s.RentaiRate, s.LastAvoidRate, s.BestScore, s.AvgScore,
			s.FuroRate, s.RiichiRate, s.AgariRate, s.HojuRate, s.HojuAvgScore)
		require.NoError(t, err, "failed to seed stats")
	}

	for _, g := range SampleGames() {
		_, err := db.ExecContext(ctx,
			"INSERT INTO games (date, game_count, rank, player, point) VALUES (?, ?, ?, ?, ?)",
			g.Date, g.GameCount, g.Rank, g.Player, g.Point)
		require.NoError(t, err, "failed to seed games")
	}

	for _, r := range SampleRanking() {
		_, err := db.ExecContext(ctx,
			"INSERT INTO team_ranking (rank, team, point) VALUES (?, ?, ?)",
			r.Rank, r.Team, r.Point)
		require.NoError(t, err, "failed to seed team_ranking")
	}
}
