package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"github.com/user/mleague-analyst/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Section names, matching the cache tables they replace.
const (
	SectionRanking = "team_ranking"
	SectionGames   = "games"
	SectionStats   = "stats"
)

// PageFetcher downloads a page by path.
type PageFetcher interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// SectionResult is the outcome of one section of an ingestion run.
type SectionResult struct {
	Name    string
	Rows    int
	Written bool
	Err     error
}

// Report summarizes an ingestion run.
type Report struct {
	Run      *models.IngestionRun
	Sections []SectionResult
}

// Failed reports whether no section could be written.
func (r *Report) Failed() bool {
	for _, s := range r.Sections {
		if s.Written {
			return false
		}
	}
	return true
}

// Ingester scrapes every section and replaces the matching cache tables.
// Sections are independent: a section that fails to fetch, parse or write
// leaves its table untouched and the others still proceed.
type Ingester struct {
	pages      PageFetcher
	writer     repository.LeagueWriter
	seasonYear int
	metrics    *metrics.Manager
	logger     *zap.Logger
}

// NewIngester creates an ingester.
func NewIngester(pages PageFetcher, writer repository.LeagueWriter, seasonYear int, m *metrics.Manager, logger *zap.Logger) *Ingester {
	return &Ingester{
		pages:      pages,
		writer:     writer,
		seasonYear: seasonYear,
		metrics:    m,
		logger:     logger.Named("ingester"),
	}
}

// errNoRows marks a section whose pages parsed but held no rows.
var errNoRows = errors.New("no rows found")

// Run performs one ingestion. Pages are fetched concurrently; tables are
// written one after another since SQLite has a single writer.
func (in *Ingester) Run(ctx context.Context) (*Report, error) {
	run, err := in.writer.StartRun(ctx)
	if err != nil {
		return nil, err
	}

	var (
		ranking []models.TeamRanking
		games   []models.GameResult
		stats   []models.PlayerStat
		errs    [3]error
	)

	var g errgroup.Group
	g.Go(func() error {
		ranking, errs[0] = in.scrapeRanking(ctx)
		return nil
	})
	g.Go(func() error {
		games, errs[1] = in.scrapeGames(ctx)
		return nil
	})
	g.Go(func() error {
		stats, errs[2] = in.scrapeStats(ctx)
		return nil
	})
	_ = g.Wait()

	report := &Report{Run: run}
	report.Sections = []SectionResult{
		in.write(ctx, SectionRanking, len(ranking), errs[0], func() error { return in.writer.ReplaceTeamRanking(ctx, ranking) }),
		in.write(ctx, SectionGames, len(games), errs[1], func() error { return in.writer.ReplaceGames(ctx, games) }),
		in.write(ctx, SectionStats, len(stats), errs[2], func() error { return in.writer.ReplaceStats(ctx, stats) }),
	}

	var messages []string
	for _, s := range report.Sections {
		if s.Err != nil {
			messages = append(messages, s.Name+": "+s.Err.Error())
		}
		if !s.Written {
			continue
		}
		switch s.Name {
		case SectionRanking:
			run.RankingRows = s.Rows
		case SectionGames:
			run.GamesRows = s.Rows
		case SectionStats:
			run.StatsRows = s.Rows
		}
	}
	run.Errors = strings.Join(messages, "; ")

	if err := in.writer.FinishRun(ctx, run); err != nil {
		return report, err
	}
	return report, nil
}

func (in *Ingester) write(ctx context.Context, name string, rows int, scrapeErr error, replace func() error) SectionResult {
	res := SectionResult{Name: name, Rows: rows, Err: scrapeErr}
	if res.Err == nil && rows == 0 {
		res.Err = errNoRows
	}
	if res.Err != nil {
		in.logger.Warn("section skipped, previous snapshot kept", zap.String("section", name), zap.Error(res.Err))
		return res
	}
	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}

	if err := replace(); err != nil {
		res.Err = err
		in.logger.Error("section write failed", zap.String("section", name), zap.Error(err))
		return res
	}
	res.Written = true
	in.metrics.AddIngestedRows(name, rows)
	in.logger.Info("section replaced", zap.String("section", name), zap.Int("rows", rows))
	return res
}

func (in *Ingester) scrapeRanking(ctx context.Context) ([]models.TeamRanking, error) {
	var pointsErr error
	body, err := in.pages.Get(ctx, PathPoints)
	if err == nil {
		rows, perr := ParsePoints(bytes.NewReader(body))
		if perr == nil && len(rows) > 0 {
			return rows, nil
		}
		pointsErr = perr
	} else {
		pointsErr = err
	}
	in.logger.Info("points page gave no standings, trying top page", zap.NamedError("cause", pointsErr))

	body, err = in.pages.Get(ctx, PathTop)
	if err != nil {
		if pointsErr != nil {
			return nil, fmt.Errorf("%w (points page: %v)", err, pointsErr)
		}
		return nil, err
	}
	return ParseTopRanking(bytes.NewReader(body))
}

func (in *Ingester) scrapeGames(ctx context.Context) ([]models.GameResult, error) {
	body, err := in.pages.Get(ctx, PathGames)
	if err != nil {
		return nil, err
	}
	return ParseGames(bytes.NewReader(body), in.seasonYear)
}

func (in *Ingester) scrapeStats(ctx context.Context) ([]models.PlayerStat, error) {
	body, err := in.pages.Get(ctx, PathStats)
	if err != nil {
		return nil, err
	}
	return ParseStats(bytes.NewReader(body))
}
