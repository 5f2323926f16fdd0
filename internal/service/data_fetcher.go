package service

import (
	"context"
	"time"

	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

const defaultFetchTimeout = 5 * time.Second

// QueryRunner executes one read-only statement.
type QueryRunner interface {
	Query(ctx context.Context, query string, args ...any) (*models.ResultSet, error)
}

// DataFetcher runs plan queries against the read-only cache. It fails soft:
// errors become an empty result with status query_error.
type DataFetcher struct {
	runner  QueryRunner
	timeout time.Duration
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewDataFetcher creates a fetcher.
func NewDataFetcher(runner QueryRunner, m *metrics.Manager, logger *zap.Logger) *DataFetcher {
	return &DataFetcher{
		runner:  runner,
		timeout: defaultFetchTimeout,
		metrics: m,
		logger:  logger.Named("fetcher"),
	}
}

// Fetch runs a single query.
func (f *DataFetcher) Fetch(ctx context.Context, q models.Query) models.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result := models.FetchResult{Query: &q}
	rs, err := f.runner.Query(ctx, q.SQL, q.Args...)
	switch {
	case err != nil:
		result.Rows = &models.ResultSet{Rows: [][]any{}}
		result.Status = models.FetchQueryError
		result.Err = err
		f.logger.Warn("query_error",
			zap.String("template", q.Template),
			zap.Error(err))
	case rs.IsEmpty():
		result.Rows = rs
		result.Status = models.FetchNoData
	default:
		result.Rows = rs
		result.Status = models.FetchOK
	}

	f.metrics.RecordFetch(q.Template, string(result.Status))
	return result
}

// FetchAll runs the queries one after another and returns results in query
// order. A request never holds more than one statement open on the cache.
func (f *DataFetcher) FetchAll(ctx context.Context, queries []models.Query) []models.FetchResult {
	results := make([]models.FetchResult, len(queries))
	for i, q := range queries {
		results[i] = f.Fetch(ctx, q)
	}
	return results
}
