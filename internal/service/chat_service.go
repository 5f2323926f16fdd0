package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/llm"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

// User-facing replies.
const (
	ReplyMissingCredential = "【エラー】APIキーが設定されていません。"
	ReplyEmptyQuestion     = "質問を入力してください。"
	ReplyNotFound          = "該当データが見当たりませんでした。"
	ReplySubjectUnknown    = "質問の対象（選手名・チーム名）を特定できませんでした。名前を入れて質問してください。"
	ReplyUpstreamError     = "エラーが発生しました。しばらくしてから再度お試しください。"
)

// Outcomes logged and counted per question.
const (
	OutcomeOK         = "ok"
	OutcomeNoData     = "no_data"
	OutcomeQueryError = "query_error"
	OutcomeSlotError  = "slot_error"
	OutcomeLLMError   = "llm_error"
	OutcomeNoKey      = "missing_credential"
	OutcomeEmpty      = "empty_question"
	OutcomePanic      = "panic"
)

// ChatService answers one question end to end:
// vocabulary -> route -> synthesize -> fetch -> narrate.
type ChatService struct {
	vocabulary   *VocabularyCache
	router       *IntentRouter
	synthesizer  *QuerySynthesizer
	fetcher      *DataFetcher
	narrator     *Narrator
	hasLLM       bool
	debugReplies bool
	metrics      *metrics.Manager
	logger       *zap.Logger
}

// ChatServiceDeps holds the collaborators of ChatService.
// LLM may be nil when no API key is configured.
type ChatServiceDeps struct {
	Vocabulary *VocabularyCache
	Router     *IntentRouter
	Fetcher    *DataFetcher
	LLM        llm.Client
	LLMConfig  config.LLMConfig
	Pipeline   config.PipelineConfig
	Metrics    *metrics.Manager
	Logger     *zap.Logger
}

// NewChatService wires the pipeline.
func NewChatService(deps ChatServiceDeps) *ChatService {
	logger := deps.Logger.Named("chat")
	router := deps.Router
	if router == nil {
		router = NewIntentRouter(nil)
	}
	client := llm.Instrument(deps.LLM, deps.Metrics)

	return &ChatService{
		vocabulary:   deps.Vocabulary,
		router:       router,
		synthesizer:  NewQuerySynthesizer(client, deps.LLMConfig, deps.Pipeline, deps.Logger),
		fetcher:      deps.Fetcher,
		narrator:     NewNarrator(client, deps.LLMConfig, deps.Pipeline, deps.Logger),
		hasLLM:       deps.LLM != nil,
		debugReplies: deps.Pipeline.DebugReplies,
		metrics:      deps.Metrics,
		logger:       logger,
	}
}

// Answer always returns a response; failures become reply text.
func (s *ChatService) Answer(ctx context.Context, message string) (resp *models.ChatResponse) {
	intent := models.IntentGeneral
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while answering",
				zap.String("intent", string(intent)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			s.finish(intent, OutcomePanic)
			resp = &models.ChatResponse{Reply: ReplyUpstreamError}
		}
	}()

	if !s.hasLLM {
		s.finish(models.IntentGeneral, OutcomeNoKey)
		return &models.ChatResponse{Reply: ReplyMissingCredential}
	}

	question := strings.TrimSpace(message)
	if question == "" {
		s.finish(models.IntentGeneral, OutcomeEmpty)
		return &models.ChatResponse{Reply: ReplyEmptyQuestion}
	}

	vocab := s.vocabulary.Get(ctx)
	route := s.router.Classify(question)
	intent = route.Intent
	log := s.logger.With(
		zap.String("intent", string(route.Intent)),
		zap.String("rule", route.Rule))
	log.Debug("question routed", zap.String("reason", route.Reason), zap.Int("matches", len(route.Matches)))

	plan, err := s.synthesizer.Plan(ctx, route.Intent, question, vocab)
	if err != nil {
		return s.fail(route.Intent, err, log)
	}
	log = log.With(zap.Strings("templates", plan.Templates()), zap.String("subject", plan.Subject))

	results := s.fetcher.FetchAll(ctx, plan.Queries)
	if outcome, ok := emptyOutcome(results); ok {
		if outcome == OutcomeQueryError {
			log.Warn(OutcomeQueryError, zap.Error(firstError(results)))
		} else {
			log.Info(OutcomeNoData)
		}
		s.finish(route.Intent, outcome)
		return &models.ChatResponse{Reply: s.notFoundReply(plan)}
	}

	resp, err = s.narrator.Narrate(ctx, plan, question, results)
	if errors.Is(err, ErrNoTrendPoints) {
		log.Info(OutcomeNoData, zap.Error(err))
		s.finish(route.Intent, OutcomeNoData)
		return &models.ChatResponse{Reply: s.notFoundReply(plan)}
	}
	if err != nil {
		return s.fail(route.Intent, err, log)
	}

	log.Info("question answered", zap.Bool("graph", resp.Graph != nil))
	s.finish(route.Intent, OutcomeOK)
	return resp
}

func (s *ChatService) fail(intent models.Intent, err error, log *zap.Logger) *models.ChatResponse {
	if errors.Is(err, ErrSlotExtraction) {
		log.Warn(OutcomeSlotError, zap.Error(err))
		s.finish(intent, OutcomeSlotError)
		return &models.ChatResponse{Reply: ReplySubjectUnknown}
	}
	if errors.Is(err, llm.ErrMissingCredential) {
		s.finish(intent, OutcomeNoKey)
		return &models.ChatResponse{Reply: ReplyMissingCredential}
	}

	log.Error(OutcomeLLMError,
		zap.String("error_type", string(llm.GetErrorType(err))),
		zap.Error(err))
	s.finish(intent, OutcomeLLMError)
	return &models.ChatResponse{Reply: ReplyUpstreamError}
}

func (s *ChatService) finish(intent models.Intent, outcome string) {
	s.metrics.RecordChat(string(intent), outcome)
}

func (s *ChatService) notFoundReply(plan *QueryPlan) string {
	if !s.debugReplies {
		return ReplyNotFound
	}
	return ReplyNotFound + "\n(テンプレート: " + strings.Join(plan.Templates(), ", ") + ")"
}

// emptyOutcome reports whether no query returned rows, and why.
func emptyOutcome(results []models.FetchResult) (string, bool) {
	outcome := OutcomeNoData
	for _, r := range results {
		switch r.Status {
		case models.FetchOK:
			return "", false
		case models.FetchQueryError:
			outcome = OutcomeQueryError
		}
	}
	return outcome, true
}

func firstError(results []models.FetchResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
