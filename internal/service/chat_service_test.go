//go:build !integration && !e2e
// +build !integration,!e2e

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/llm"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"github.com/user/mleague-analyst/internal/repository"
	"github.com/user/mleague-analyst/internal/testutil"
	"go.uber.org/zap"
)

// stageScript answers each pipeline stage with a fixed reply.
type stageScript map[string]struct {
	reply string
	err   error
}

func (s stageScript) client() *llm.MockClient {
	return llm.NewMockClient(func(ctx context.Context, req llm.Request) (string, error) {
		r, ok := s[req.Stage]
		if !ok {
			return "", errors.New("unexpected stage " + req.Stage)
		}
		return r.reply, r.err
	})
}

type chatFixture struct {
	service *ChatService
	mock    *llm.MockClient
	metrics *metrics.Manager
}

func newChatFixture(t *testing.T, script stageScript, mutate func(*config.Config)) *chatFixture {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	m := metrics.NewManager()
	f := &chatFixture{metrics: m}

	var client llm.Client
	if script != nil {
		f.mock = script.client()
		client = f.mock
	}

	f.service = NewChatService(ChatServiceDeps{
		Vocabulary: NewVocabularyCache(repo, cfg.Vocabulary, m, zap.NewNop()),
		Fetcher:    NewDataFetcher(repo, m, zap.NewNop()),
		LLM:        client,
		LLMConfig:  cfg.LLM,
		Pipeline:   cfg.Pipeline,
		Metrics:    m,
		Logger:     zap.NewNop(),
	})
	return f
}

func (f *chatFixture) stages() []string {
	var stages []string
	for _, c := range f.mock.Calls() {
		stages = append(stages, c.Stage)
	}
	return stages
}

// chatCount reads chat_requests_total for one label pair.
func (f *chatFixture) chatCount(t *testing.T, intent, outcome string) float64 {
	t.Helper()
	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "mleague_analyst_chat_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["intent"] == intent && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestChatService_MissingCredential(t *testing.T) {
	f := newChatFixture(t, nil, nil)

	resp := f.service.Answer(context.Background(), "多井隆晴のリーチ率は？")

	assert.Equal(t, ReplyMissingCredential, resp.Reply)
	assert.Nil(t, resp.Graph)
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentGeneral), OutcomeNoKey))
}

func TestChatService_EmptyQuestion(t *testing.T) {
	f := newChatFixture(t, stageScript{}, nil)

	resp := f.service.Answer(context.Background(), " 　\n")

	assert.Equal(t, ReplyEmptyQuestion, resp.Reply)
	assert.Empty(t, f.mock.Calls())
}

func TestChatService_PlayerStats(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageSynthesis: {reply: "```json\n{\"subject\": \"player\", \"name\": \"多井 隆晴\", \"focus\": \"stats\"}\n```"},
		StageNarration: {reply: "多井隆晴: リーチ率 32%"},
	}, nil)

	resp := f.service.Answer(context.Background(), "多井隆晴のリーチ率は？")

	assert.Equal(t, "多井隆晴: リーチ率 32%", resp.Reply)
	assert.Nil(t, resp.Graph)
	assert.Equal(t, []string{StageSynthesis, StageNarration}, f.stages())

	synthesis := f.mock.Calls()[0]
	assert.Contains(t, synthesis.Prompt, testutil.PlayerTai)
	assert.Contains(t, synthesis.Prompt, testutil.TeamKONAMI)
	assert.Equal(t, 0.0, synthesis.Temperature)

	narration := f.mock.Calls()[1].Prompt
	assert.Contains(t, narration, "32%")
	assert.NotContains(t, narration, "0.32")
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentGeneral), OutcomeOK))
}

func TestChatService_StandingsSkipsSynthesis(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageNarration: {reply: "🥇 **KONAMI麻雀格闘倶楽部**"},
	}, nil)

	resp := f.service.Answer(context.Background(), "直近の試合結果を教えて")

	assert.Equal(t, "🥇 **KONAMI麻雀格闘倶楽部**", resp.Reply)
	assert.Equal(t, []string{StageNarration}, f.stages())

	prompt := f.mock.Calls()[0].Prompt
	recent := strings.Index(prompt, "【直近の試合結果】")
	ranking := strings.Index(prompt, "【現在のチーム順位】")
	require.True(t, recent >= 0 && ranking > recent)

	// game 2 of the latest day (won by Takizawa) precedes game 1 (won by Sonoda)
	games := prompt[recent:ranking]
	assert.Less(t, strings.Index(games, testutil.PlayerTakizawa), strings.Index(games, testutil.PlayerSonoda))
	assert.NotContains(t, games, "2025/10/06")
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentStandings), OutcomeOK))
}

func TestChatService_Trend(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageSynthesis: {reply: `{"subject": "player", "name": "多井隆晴"}`},
		StageNarration: {reply: "初日に大きく浮きました。グラフをご覧ください"},
	}, nil)

	resp := f.service.Answer(context.Background(), "多井隆晴のポイント推移を見せて")

	require.NotNil(t, resp.Graph)
	assert.Equal(t, "多井隆晴の推移", resp.Graph.Label)
	assert.Equal(t, []string{"2025/10/06", "2025/10/07"}, resp.Graph.Labels)
	assert.InDeltaSlice(t, []float64{7.2, 3.7}, resp.Graph.Data, 1e-9)
	assert.Contains(t, resp.Reply, "グラフをご覧ください")
}

func TestChatService_TeamTrend(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageSynthesis: {reply: `{"subject": "team", "name": "KONAMI"}`},
		StageNarration: {reply: "好調です"},
	}, nil)

	resp := f.service.Answer(context.Background(), "KONAMIのポイント推移")

	require.NotNil(t, resp.Graph)
	assert.Equal(t, "KONAMI麻雀格闘倶楽部の推移", resp.Graph.Label)
	// Sasaki and Takizawa: 10/06 = 8.1+60.2-20.1, 10/07 = 55.5-44.9
	assert.InDeltaSlice(t, []float64{48.2, 58.8}, resp.Graph.Data, 1e-9)
}

func TestChatService_Prediction(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageExtraction: {reply: `{"players": ["多井隆晴", "佐々木寿人"]}`},
		StageNarration:  {reply: "佐々木選手がやや優勢です。\n" + PredictionDisclaimer},
	}, nil)

	resp := f.service.Answer(context.Background(), "多井と佐々木、どっちが勝つ？")

	assert.Nil(t, resp.Graph)
	assert.True(t, strings.HasSuffix(resp.Reply, PredictionDisclaimer))
	assert.Equal(t, []string{StageExtraction, StageNarration}, f.stages())

	narration := f.mock.Calls()[1]
	assert.Equal(t, 0.7, narration.Temperature)
	assert.Contains(t, narration.Prompt, "直接対決")
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentPrediction), OutcomeOK))
}

func TestChatService_NoData(t *testing.T) {
	script := stageScript{
		StageSynthesis: {reply: `{"subject": "player", "name": "伊達朱里紗", "focus": "stats"}`},
	}

	t.Run("debug replies name the template", func(t *testing.T) {
		f := newChatFixture(t, script, nil)
		resp := f.service.Answer(context.Background(), "伊達朱里紗のスタッツを教えて")

		assert.Equal(t, ReplyNotFound+"\n(テンプレート: player_stats)", resp.Reply)
		assert.Nil(t, resp.Graph)
		assert.Equal(t, []string{StageSynthesis}, f.stages())
		assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentGeneral), OutcomeNoData))
	})

	t.Run("plain reply", func(t *testing.T) {
		f := newChatFixture(t, script, func(c *config.Config) { c.Pipeline.DebugReplies = false })
		resp := f.service.Answer(context.Background(), "伊達朱里紗のスタッツを教えて")
		assert.Equal(t, ReplyNotFound, resp.Reply)
	})
}

func TestChatService_SlotError(t *testing.T) {
	f := newChatFixture(t, stageScript{
		StageSynthesis: {reply: "すみません、わかりません"},
	}, nil)

	resp := f.service.Answer(context.Background(), "あの人のポイント推移")

	assert.Equal(t, ReplySubjectUnknown, resp.Reply)
	assert.Nil(t, resp.Graph)
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentTrend), OutcomeSlotError))
}

func TestChatService_UpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		script stageScript
	}{
		{"synthesis fails", stageScript{
			StageSynthesis: {err: llm.NewError(llm.ErrorTypeRateLimit, "slow down", nil)},
		}},
		{"narration fails", stageScript{
			StageSynthesis: {reply: `{"subject": "ranking", "name": ""}`},
			StageNarration: {err: context.DeadlineExceeded},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture(t, tt.script, nil)
			resp := f.service.Answer(context.Background(), "多井隆晴について")

			assert.Equal(t, ReplyUpstreamError, resp.Reply)
			assert.Nil(t, resp.Graph)
			assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentGeneral), OutcomeLLMError))
		})
	}
}

func TestChatService_PanicBecomesReply(t *testing.T) {
	cfg := config.DefaultConfig()
	m := metrics.NewManager()
	repo := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	client := llm.NewMockClient(func(ctx context.Context, req llm.Request) (string, error) {
		panic("provider adapter bug")
	})

	svc := NewChatService(ChatServiceDeps{
		Vocabulary: NewVocabularyCache(repo, cfg.Vocabulary, m, zap.NewNop()),
		Fetcher:    NewDataFetcher(repo, m, zap.NewNop()),
		LLM:        client,
		LLMConfig:  cfg.LLM,
		Pipeline:   cfg.Pipeline,
		Metrics:    m,
		Logger:     zap.NewNop(),
	})
	f := &chatFixture{service: svc, mock: client, metrics: m}

	var resp *models.ChatResponse
	require.NotPanics(t, func() {
		resp = svc.Answer(context.Background(), "多井隆晴について")
	})
	require.NotNil(t, resp)
	assert.Equal(t, ReplyUpstreamError, resp.Reply)
	assert.Nil(t, resp.Graph)
	assert.Equal(t, 1.0, f.chatCount(t, string(models.IntentGeneral), OutcomePanic))
}

func TestChatService_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("FROM games").WillReturnError(errors.New("database is locked"))
	mock.ExpectQuery("FROM team_ranking").WillReturnError(errors.New("database is locked"))

	cfg := config.DefaultConfig()
	m := metrics.NewManager()
	names := repository.NewLeagueRepository(testutil.NewSeededDB(t))
	client := stageScript{StageNarration: {reply: "unused"}}.client()

	svc := NewChatService(ChatServiceDeps{
		Vocabulary: NewVocabularyCache(names, cfg.Vocabulary, m, zap.NewNop()),
		Fetcher:    NewDataFetcher(repository.NewLeagueRepository(db), m, zap.NewNop()),
		LLM:        client,
		LLMConfig:  cfg.LLM,
		Pipeline:   cfg.Pipeline,
		Metrics:    m,
		Logger:     zap.NewNop(),
	})

	resp := svc.Answer(context.Background(), "最新の順位は？")

	assert.True(t, strings.HasPrefix(resp.Reply, ReplyNotFound))
	assert.Empty(t, client.Calls())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyOutcome(t *testing.T) {
	ok := models.FetchResult{Status: models.FetchOK}
	none := models.FetchResult{Status: models.FetchNoData}
	bad := models.FetchResult{Status: models.FetchQueryError, Err: errors.New("boom")}

	_, empty := emptyOutcome([]models.FetchResult{none, ok})
	assert.False(t, empty)

	outcome, empty := emptyOutcome([]models.FetchResult{none, none})
	assert.True(t, empty)
	assert.Equal(t, OutcomeNoData, outcome)

	outcome, empty = emptyOutcome([]models.FetchResult{none, bad})
	assert.True(t, empty)
	assert.Equal(t, OutcomeQueryError, outcome)
	assert.EqualError(t, firstError([]models.FetchResult{none, bad}), "boom")
}
