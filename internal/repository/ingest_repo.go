package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/mleague-analyst/internal/models"
)

// IngestRepository writes scraped snapshots into the cache.
// Each Replace* call swaps one table inside a single transaction, so readers
// see either the old or the new snapshot.
type IngestRepository struct {
	db *sql.DB
}

// NewIngestRepository creates a new IngestRepository on a read-write handle.
func NewIngestRepository(db *sql.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

// ReplaceStats replaces the stats table.
func (r *IngestRepository) ReplaceStats(ctx context.Context, rows []models.PlayerStat) error {
	return r.replace(ctx, "stats", `
		INSERT OR REPLACE INTO stats (team, player, matches, total_hands, points, avg_rank,
			rank_1_count, rank_2_count, rank_3_count, rank_4_count,
			top_rate, rentai_rate, last_avoid_rate, best_score, avg_score,
			furo_rate, riichi_rate, agari_rate, hoju_rate, hoju_avg_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(rows), func(stmt *sql.Stmt, i int) error {
			s := rows[i]
			_, err := stmt.ExecContext(ctx,
				s.Team, s.Player, s.Matches, s.TotalHands, s.Points, s.AvgRank,
				s.Rank1Count, s.Rank2Count, s.Rank3Count, s.Rank4Count,
				s.TopRate, s.RentaiRate, s.LastAvoidRate, s.BestScore, s.AvgScore,
				s.FuroRate, s.RiichiRate, s.AgariRate, s.HojuRate, s.HojuAvgScore)
			return err
		})
}

// ReplaceGames replaces the games table.
func (r *IngestRepository) ReplaceGames(ctx context.Context, rows []models.GameResult) error {
	return r.replace(ctx, "games",
		"INSERT OR REPLACE INTO games (date, game_count, rank, player, point) VALUES (?, ?, ?, ?, ?)",
		len(rows), func(stmt *sql.Stmt, i int) error {
			g := rows[i]
			_, err := stmt.ExecContext(ctx, g.Date, g.GameCount, g.Rank, g.Player, g.Point)
			return err
		})
}

// ReplaceTeamRanking replaces the team_ranking table.
func (r *IngestRepository) ReplaceTeamRanking(ctx context.Context, rows []models.TeamRanking) error {
	return r.replace(ctx, "team_ranking",
		"INSERT OR REPLACE INTO team_ranking (rank, team, point) VALUES (?, ?, ?)",
		len(rows), func(stmt *sql.Stmt, i int) error {
			t := rows[i]
			_, err := stmt.ExecContext(ctx, t.Rank, t.Team, t.Point)
			return err
		})
}

func (r *IngestRepository) replace(ctx context.Context, table, insert string, n int, exec func(*sql.Stmt, int) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to insert into %s (row %d): %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}

// runTimeLayout keeps run timestamps fixed width so they sort as text.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatRunTime(t time.Time) string {
	return t.UTC().Format(runTimeLayout)
}

// StartRun records the start of an ingestion run.
func (r *IngestRepository) StartRun(ctx context.Context) (*models.IngestionRun, error) {
	run := &models.IngestionRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ingestion_runs (id, started_at) VALUES (?, ?)",
		run.ID, formatRunTime(run.StartedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to record ingestion run: %w", err)
	}
	return run, nil
}

// FinishRun stores the row counts and errors of a run.
func (r *IngestRepository) FinishRun(ctx context.Context, run *models.IngestionRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	res, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_runs
		SET finished_at = ?, stats_rows = ?, games_rows = ?, ranking_rows = ?, errors = ?
		WHERE id = ?`,
		formatRunTime(now), run.StatsRows, run.GamesRows, run.RankingRows, run.Errors, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish ingestion run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ingestion run %s not found", run.ID)
	}
	return nil
}
