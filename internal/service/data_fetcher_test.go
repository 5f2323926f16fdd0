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

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"github.com/user/mleague-analyst/internal/repository"
	"github.com/user/mleague-analyst/internal/testutil"
	"go.uber.org/zap"
)

func TestDataFetcher_Fetch(t *testing.T) {
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	f := NewDataFetcher(repo, metrics.NewManager(), zap.NewNop())
	ctx := context.Background()

	res := f.Fetch(ctx, playerStatsQuery(testutil.PlayerTai))
	assert.Equal(t, models.FetchOK, res.Status)
	assert.NoError(t, res.Err)
	require.Equal(t, 1, res.Rows.Len())
	assert.InDelta(t, 0.32, res.Rows.Rows[0][res.Rows.ColumnIndex("riichi_rate")], 1e-9)

	res = f.Fetch(ctx, playerStatsQuery("伊達朱里紗"))
	assert.Equal(t, models.FetchNoData, res.Status)
	assert.True(t, res.Rows.IsEmpty())
}

func TestDataFetcher_RecentGamesOrder(t *testing.T) {
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	f := NewDataFetcher(repo, nil, zap.NewNop())

	res := f.Fetch(context.Background(), recentGamesQuery(8))
	require.Equal(t, models.FetchOK, res.Status)
	require.Equal(t, 8, res.Rows.Len())

	date, game, rank := res.Rows.ColumnIndex("date"), res.Rows.ColumnIndex("game_count"), res.Rows.ColumnIndex("rank")
	for i, row := range res.Rows.Rows {
		assert.Equal(t, "2025/10/07", row[date])
		wantGame := int64(2)
		if i >= 4 {
			wantGame = 1
		}
		assert.Equal(t, wantGame, row[game])
		assert.Equal(t, int64(i%4+1), row[rank])
	}
}

func TestDataFetcher_HeadToHead(t *testing.T) {
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	f := NewDataFetcher(repo, nil, zap.NewNop())

	res := f.Fetch(context.Background(), headToHeadQuery(testutil.PlayerTai, testutil.PlayerSasaki))
	require.Equal(t, models.FetchOK, res.Status)
	require.Equal(t, 3, res.Rows.Len())
	assert.Equal(t, []string{"date", "game_count", "rank_a", "point_a", "rank_b", "point_b"}, res.Rows.Columns)
	// newest first: 10/07 game 2, Tai 3rd vs Sasaki 4th
	assert.Equal(t, []any{"2025/10/07", int64(2), int64(3), -14.0, int64(4), -44.9}, res.Rows.Rows[0])
}

func TestDataFetcher_QueryErrorFailsSoft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("no such table: stats"))

	m := metrics.NewManager()
	f := NewDataFetcher(repository.NewLeagueRepository(db), m, zap.NewNop())

	res := f.Fetch(context.Background(), playerStatsQuery("多井隆晴"))
	assert.Equal(t, models.FetchQueryError, res.Status)
	assert.Error(t, res.Err)
	require.NotNil(t, res.Rows)
	assert.True(t, res.Rows.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDataFetcher_FetchAllKeepsOrder(t *testing.T) {
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	f := NewDataFetcher(repo, nil, zap.NewNop())

	queries := []models.Query{
		statsByPlayersQuery([]string{testutil.PlayerTai, testutil.PlayerSasaki}),
		recentByPlayerQuery(testutil.PlayerTai, 5),
		recentByPlayerQuery("nobody", 5),
		{Template: "broken", SQL: "SELECT nope FROM nowhere"},
		teamRankingQuery(),
	}

	results := f.FetchAll(context.Background(), queries)
	require.Len(t, results, len(queries))
	for i, r := range results {
		assert.Equal(t, queries[i].Template, r.Query.Template)
	}
	assert.Equal(t, models.FetchOK, results[0].Status)
	assert.Equal(t, 2, results[0].Rows.Len())
	assert.Equal(t, 4, results[1].Rows.Len())
	assert.Equal(t, models.FetchNoData, results[2].Status)
	assert.Equal(t, models.FetchQueryError, results[3].Status)
	assert.Equal(t, models.FetchOK, results[4].Status)
}

// countingRunner records how many statements are open at once.
type countingRunner struct {
	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	order []string
}

func (r *countingRunner) Query(ctx context.Context, query string, args ...any) (*models.ResultSet, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	r.mu.Lock()
	r.order = append(r.order, query)
	r.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	return &models.ResultSet{Columns: []string{"n"}, Rows: [][]any{{int64(1)}}}, nil
}

func TestDataFetcher_FetchAllOneStatementAtATime(t *testing.T) {
	runner := &countingRunner{}
	f := NewDataFetcher(runner, nil, zap.NewNop())

	queries := []models.Query{
		statsByPlayersQuery([]string{testutil.PlayerTai, testutil.PlayerSasaki}),
		recentByPlayerQuery(testutil.PlayerTai, 5),
		recentByPlayerQuery(testutil.PlayerSasaki, 5),
		headToHeadQuery(testutil.PlayerTai, testutil.PlayerSasaki),
	}

	results := f.FetchAll(context.Background(), queries)
	require.Len(t, results, len(queries))
	assert.Equal(t, int32(1), runner.peak.Load())

	require.Len(t, runner.order, len(queries))
	for i, q := range queries {
		assert.Equal(t, q.SQL, runner.order[i])
		assert.Equal(t, q.Template, results[i].Query.Template)
		assert.Equal(t, models.FetchOK, results[i].Status)
	}
}
