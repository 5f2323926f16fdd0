package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corazawaf/libinjection-go"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/llm"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

// ErrSlotExtraction means the subject of the question could not be
// identified from the model's answer.
var ErrSlotExtraction = errors.New("could not identify the subject")

// Subject kinds.
const (
	SubjectPlayer  = "player"
	SubjectTeam    = "team"
	SubjectRanking = "ranking"
	SubjectRecent  = "recent"
)

// LLM stages.
const (
	StageSynthesis  = "synthesis"
	StageExtraction = "extraction"
	StageNarration  = "narration"
)

// QueryPlan is the set of queries answering one question.
// Queries[0] is the primary query.
type QueryPlan struct {
	Intent      models.Intent
	Subject     string
	SubjectKind string
	Queries     []models.Query
}

// Templates returns the template names of the plan, in order.
func (p *QueryPlan) Templates() []string {
	out := make([]string, len(p.Queries))
	for i, q := range p.Queries {
		out[i] = q.Template
	}
	return out
}

// QuerySynthesizer turns a question into a QueryPlan. The model only fills
// slots; SQL comes from the fixed templates.
type QuerySynthesizer struct {
	llm         llm.Client
	temperature float64
	pipeline    config.PipelineConfig
	logger      *zap.Logger
}

// NewQuerySynthesizer creates a synthesizer.
func NewQuerySynthesizer(client llm.Client, llmCfg config.LLMConfig, pipeline config.PipelineConfig, logger *zap.Logger) *QuerySynthesizer {
	return &QuerySynthesizer{
		llm:         client,
		temperature: llmCfg.SynthesisTemperature,
		pipeline:    pipeline,
		logger:      logger.Named("synthesizer"),
	}
}

type trendSlots struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

type generalSlots struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Focus   string `json:"focus"`
}

type predictionSlots struct {
	Players []string `json:"players"`
}

// Plan builds the queries for the question.
func (s *QuerySynthesizer) Plan(ctx context.Context, intent models.Intent, question string, vocab *models.Vocabulary) (*QueryPlan, error) {
	if vocab == nil {
		vocab = &models.Vocabulary{}
	}

	switch intent {
	case models.IntentStandings:
		return &QueryPlan{
			Intent:      intent,
			Subject:     "直近の試合結果とチーム順位",
			SubjectKind: SubjectRecent,
			Queries: []models.Query{
				recentGamesQuery(s.pipeline.RecentGamesLimit),
				teamRankingQuery(),
			},
		}, nil
	case models.IntentTrend:
		return s.planTrend(ctx, question, vocab)
	case models.IntentPrediction:
		return s.planPrediction(ctx, question, vocab)
	default:
		return s.planGeneral(ctx, question, vocab)
	}
}

func (s *QuerySynthesizer) planTrend(ctx context.Context, question string, vocab *models.Vocabulary) (*QueryPlan, error) {
	raw, err := s.complete(ctx, StageSynthesis, trendSlotPrompt(question, vocab))
	if err != nil {
		return nil, err
	}

	var slots trendSlots
	if err := parseSlots(raw, &slots); err != nil {
		return nil, err
	}

	name, kind, err := resolveSlotName(slots.Name, slots.Subject, vocab)
	if err != nil {
		return nil, err
	}

	q := trendPlayerQuery(name)
	if kind == SubjectTeam {
		q = trendTeamQuery(name)
	}
	return &QueryPlan{Intent: models.IntentTrend, Subject: name, SubjectKind: kind, Queries: []models.Query{q}}, nil
}

func (s *QuerySynthesizer) planPrediction(ctx context.Context, question string, vocab *models.Vocabulary) (*QueryPlan, error) {
	raw, err := s.complete(ctx, StageExtraction, predictionSlotPrompt(question, vocab))
	if err != nil {
		return nil, err
	}

	var slots predictionSlots
	if err := parseSlots(raw, &slots); err != nil {
		// Plain "A, B" answers are accepted too.
		slots.Players = splitNames(StripCodeFences(raw))
	}

	resolver := newNameResolver(vocab)
	seen := make(map[string]bool)
	var players []string
	for _, candidate := range slots.Players {
		if err := checkSlotValue(candidate); err != nil {
			return nil, err
		}
		name, kind, ok := resolver.resolve(candidate, SubjectPlayer)
		if !ok || kind != SubjectPlayer || seen[name] {
			continue
		}
		seen[name] = true
		players = append(players, name)
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: no known player in %q", ErrSlotExtraction, raw)
	}

	queries := []models.Query{statsByPlayersQuery(players)}
	for _, p := range players {
		queries = append(queries, recentByPlayerQuery(p, s.pipeline.RecentFormLimit))
	}
	if len(players) == 2 {
		queries = append(queries, headToHeadQuery(players[0], players[1]))
	}

	return &QueryPlan{
		Intent:      models.IntentPrediction,
		Subject:     strings.Join(players, "・"),
		SubjectKind: SubjectPlayer,
		Queries:     queries,
	}, nil
}

func (s *QuerySynthesizer) planGeneral(ctx context.Context, question string, vocab *models.Vocabulary) (*QueryPlan, error) {
	raw, err := s.complete(ctx, StageSynthesis, generalSlotPrompt(question, vocab))
	if err != nil {
		return nil, err
	}

	var slots generalSlots
	if err := parseSlots(raw, &slots); err != nil {
		return nil, err
	}

	plan := &QueryPlan{Intent: models.IntentGeneral}
	switch strings.ToLower(strings.TrimSpace(slots.Subject)) {
	case SubjectRanking:
		plan.Subject, plan.SubjectKind = "チーム順位", SubjectRanking
		plan.Queries = []models.Query{teamRankingQuery()}
	case SubjectRecent:
		plan.Subject, plan.SubjectKind = "直近の試合結果", SubjectRecent
		plan.Queries = []models.Query{recentGamesQuery(s.pipeline.RecentGamesLimit)}
	case SubjectPlayer, SubjectTeam:
		name, kind, err := resolveSlotName(slots.Name, slots.Subject, vocab)
		if err != nil {
			return nil, err
		}
		plan.Subject, plan.SubjectKind = name, kind
		switch {
		case kind == SubjectTeam:
			plan.Queries = []models.Query{teamStatsQuery(name)}
		case strings.EqualFold(slots.Focus, "games"):
			plan.Queries = []models.Query{playerGamesQuery(name, s.pipeline.PlayerGamesLimit)}
		default:
			plan.Queries = []models.Query{playerStatsQuery(name)}
		}
	default:
		return nil, fmt.Errorf("%w: unknown subject %q", ErrSlotExtraction, slots.Subject)
	}
	return plan, nil
}

func (s *QuerySynthesizer) complete(ctx context.Context, stage, prompt string) (string, error) {
	out, err := s.llm.Complete(ctx, llm.Request{
		Stage:       stage,
		System:      synthesisSystemPrompt,
		Prompt:      prompt,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", stage, err)
	}
	s.logger.Debug("slots received", zap.String("stage", stage), zap.String("raw", out))
	return out, nil
}

// resolveSlotName validates a name slot and resolves it against the
// vocabulary. Unknown names are kept (normalized) so the LIKE search can
// still find partial matches.
func resolveSlotName(candidate, declaredKind string, vocab *models.Vocabulary) (string, string, error) {
	if err := checkSlotValue(candidate); err != nil {
		return "", "", err
	}
	kind := strings.ToLower(strings.TrimSpace(declaredKind))
	if kind != SubjectTeam {
		kind = SubjectPlayer
	}

	key := normalizeName(candidate)
	if key == "" {
		return "", "", fmt.Errorf("%w: empty name", ErrSlotExtraction)
	}

	if name, resolvedKind, ok := newNameResolver(vocab).resolve(candidate, kind); ok {
		return name, resolvedKind, nil
	}
	return key, kind, nil
}

// checkSlotValue rejects values libinjection recognizes as SQL.
func checkSlotValue(v string) error {
	if v == "" {
		return nil
	}
	if isSQLi, fingerprint := libinjection.IsSQLi(v); isSQLi {
		return fmt.Errorf("%w: rejected value %q (fingerprint %s)", ErrSlotExtraction, v, fingerprint)
	}
	return nil
}

// parseSlots decodes the JSON object in a model answer.
func parseSlots(raw string, v any) error {
	text := StripCodeFences(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no JSON object in %q", ErrSlotExtraction, raw)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotExtraction, err)
	}
	return nil
}

// StripCodeFences removes markdown code fences (```json, ```sql, ```)
// around a model answer.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func splitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == '，' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type vocabEntry struct {
	name string
	key  string
	kind string
}

// nameResolver matches a candidate against known names: exact first, then
// substring either way. Names are compared after normalizeName.
type nameResolver struct {
	entries []vocabEntry
}

func newNameResolver(vocab *models.Vocabulary) *nameResolver {
	r := &nameResolver{}
	for _, p := range vocab.Players {
		r.entries = append(r.entries, vocabEntry{name: p, key: normalizeName(p), kind: SubjectPlayer})
	}
	for _, t := range vocab.Teams {
		r.entries = append(r.entries, vocabEntry{name: t, key: normalizeName(t), kind: SubjectTeam})
	}
	return r
}

func (r *nameResolver) resolve(candidate, preferKind string) (string, string, bool) {
	key := normalizeName(candidate)
	if key == "" {
		return "", "", false
	}

	ordered := r.ordered(preferKind)
	for _, e := range ordered {
		if e.key == key {
			return e.name, e.kind, true
		}
	}
	if utf8.RuneCountInString(key) < 2 {
		return "", "", false
	}
	for _, e := range ordered {
		if e.key == "" {
			continue
		}
		if strings.Contains(e.key, key) || strings.Contains(key, e.key) {
			return e.name, e.kind, true
		}
	}
	return "", "", false
}

func (r *nameResolver) ordered(preferKind string) []vocabEntry {
	out := make([]vocabEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.kind == preferKind {
			out = append(out, e)
		}
	}
	for _, e := range r.entries {
		if e.kind != preferKind {
			out = append(out, e)
		}
	}
	return out
}
