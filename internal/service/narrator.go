package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/llm"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

// ErrNoTrendPoints means the trend rows had no usable dates.
var ErrNoTrendPoints = errors.New("no dated rows for trend")

// Narrator writes the reply from fetched rows. Numbers are pre-formatted
// before they reach the model.
type Narrator struct {
	llm                   llm.Client
	narrationTemperature  float64
	predictionTemperature float64
	trendTailRows         int
	logger                *zap.Logger
}

// NewNarrator creates a narrator.
func NewNarrator(client llm.Client, llmCfg config.LLMConfig, pipeline config.PipelineConfig, logger *zap.Logger) *Narrator {
	return &Narrator{
		llm:                   client,
		narrationTemperature:  llmCfg.NarrationTemperature,
		predictionTemperature: llmCfg.PredictionTemperature,
		trendTailRows:         pipeline.TrendTailRows,
		logger:                logger.Named("narrator"),
	}
}

// Narrate builds the narration prompt for plan and returns the reply.
// results must be parallel to plan.Queries.
func (n *Narrator) Narrate(ctx context.Context, plan *QueryPlan, question string, results []models.FetchResult) (*models.ChatResponse, error) {
	var (
		prompt      string
		graph       *models.ChartPayload
		temperature = n.narrationTemperature
	)

	switch plan.Intent {
	case models.IntentTrend:
		points := AggregateTrend(results[0].Rows)
		if len(points) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoTrendPoints, plan.Subject)
		}
		graph = BuildChart(points, plan.Subject+"の推移")
		prompt = trendNarrationPrompt(question, plan.Subject, RenderTable(trendTable(points, n.trendTailRows)))
	case models.IntentPrediction:
		temperature = n.predictionTemperature
		prompt = predictionNarrationPrompt(question, dataSections(results))
	case models.IntentStandings:
		prompt = standingsNarrationPrompt(question, dataSections(results))
	default:
		prompt = generalNarrationPrompt(question, dataSections(results))
	}

	out, err := n.llm.Complete(ctx, llm.Request{
		Stage:       StageNarration,
		System:      narrationSystemPrompt(plan.Intent),
		Prompt:      prompt,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageNarration, err)
	}

	return &models.ChatResponse{Reply: strings.TrimSpace(out), Graph: graph}, nil
}

// dataSections renders each fetched set under a heading.
func dataSections(results []models.FetchResult) []string {
	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, fmt.Sprintf("【%s】\n%s", sectionTitle(r.Query, r.Rows.Len()), RenderTable(r.Rows)))
	}
	return sections
}

func sectionTitle(q *models.Query, rows int) string {
	if q == nil {
		return "データ"
	}
	switch q.Template {
	case TemplateStatsByPlayers:
		return "対象選手の今期スタッツ"
	case TemplateRecentByPlayer:
		return fmt.Sprintf("%sの直近%d戦", q.Label, rows)
	case TemplateHeadToHead:
		players := strings.SplitN(q.Label, " vs ", 2)
		if len(players) == 2 {
			return fmt.Sprintf("%sの直接対決（A: %s / B: %s）", q.Label, players[0], players[1])
		}
		return q.Label + "の直接対決"
	case TemplatePlayerStats, TemplateTeamStats:
		return q.Label + "の今期スタッツ"
	case TemplatePlayerGames:
		return q.Label + "の試合結果"
	default:
		return q.Label
	}
}
