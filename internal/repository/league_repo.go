package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/user/mleague-analyst/internal/models"
)

// LeagueRepository reads the league cache.
type LeagueRepository struct {
	db *sql.DB
}

// NewLeagueRepository creates a new LeagueRepository.
func NewLeagueRepository(db *sql.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// DistinctTeams returns every team present in stats, sorted.
func (r *LeagueRepository) DistinctTeams(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT team FROM stats ORDER BY team")
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams, err := queryStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan teams: %w", err)
	}
	return teams, nil
}

// DistinctPlayers returns every player present in stats, sorted.
func (r *LeagueRepository) DistinctPlayers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT player FROM stats ORDER BY player")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players, err := queryStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan players: %w", err)
	}
	return players, nil
}

// Query runs one parameterized statement and returns all rows.
func (r *LeagueRepository) Query(ctx context.Context, query string, args ...any) (*models.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanResultSet(rows)
}

// Counts returns the row count of each cache table.
func (r *LeagueRepository) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(cacheTables))
	for _, table := range cacheTables {
		var n int64
		// table names come from cacheTables only
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// LatestGameDate returns the newest date in games, or "" when empty.
func (r *LeagueRepository) LatestGameDate(ctx context.Context) (string, error) {
	var date sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(date) FROM games").Scan(&date); err != nil {
		return "", fmt.Errorf("failed to get latest game date: %w", err)
	}
	return date.String, nil
}

// Sample returns the first rows of a cache table.
func (r *LeagueRepository) Sample(ctx context.Context, table string, limit int) (*models.ResultSet, error) {
	if !isCacheTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if limit <= 0 {
		limit = 3
	}
	order := ""
	if table == "games" {
		order = " ORDER BY date DESC, game_count DESC, rank ASC"
	} else if table == "team_ranking" {
		order = " ORDER BY rank"
	}
	return r.Query(ctx, "SELECT * FROM "+table+order+" LIMIT ?", limit)
}

// LatestRun returns the most recent ingestion run, or nil if none exists.
func (r *LeagueRepository) LatestRun(ctx context.Context) (*models.IngestionRun, error) {
	var (
		run      models.IngestionRun
		started  string
		finished sql.NullString
		errs     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, stats_rows, games_rows, ranking_rows, errors
		FROM ingestion_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &started, &finished, &run.StatsRows, &run.GamesRows, &run.RankingRows, &errs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ingestion run: %w", err)
	}

	run.StartedAt = parseTime(started)
	if finished.Valid && finished.String != "" {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	run.Errors = errs.String
	return &run, nil
}

// parseTime reads a stored run timestamp. The driver may hand TIMESTAMP
// columns back already formatted as RFC 3339.
func parseTime(s string) time.Time {
	for _, layout := range []string{runTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
