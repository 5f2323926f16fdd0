package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/user/mleague-analyst/internal/models"
)

// IntentRule is one row of the routing table.
// A rule matches when any keyword occurs in the question or the pattern
// matches it. Keywords are compared case-insensitively.
type IntentRule struct {
	Name     string
	Intent   models.Intent
	Keywords []string
	Pattern  string
}

// RuleHit describes one matching rule.
type RuleHit struct {
	Name   string        `json:"name"`
	Intent models.Intent `json:"intent"`
	Reason string        `json:"reason"`
}

// RouteResult holds the outcome of classification.
type RouteResult struct {
	Intent  models.Intent `json:"intent"`
	Rule    string        `json:"rule"`
	Matches []RuleHit     `json:"matches"`
	Reason  string        `json:"reason"`
}

// IntentRouter classifies questions with an ordered rule table.
// Rules are evaluated in table order; the first match wins and General is
// the fallback, so classification never fails.
type IntentRouter struct {
	rules    []IntentRule
	patterns []*regexp.Regexp // parallel to rules, nil when no pattern
}

// DefaultIntentRules is the routing table, highest precedence first.
// 対戦 belongs to Prediction: head-to-head records are part of the analysis.
var DefaultIntentRules = []IntentRule{
	{
		Name:     "trend",
		Intent:   models.IntentTrend,
		Keywords: []string{"推移", "グラフ", "trend", "graph"},
	},
	{
		Name:     "prediction",
		Intent:   models.IntentPrediction,
		Keywords: []string{"予想", "対戦", "相性", "勝つ", "predict", "matchup"},
		// A vs B / A対B / AとBの比較 / AとBどっち
		Pattern: `\S\s*vs\.?\s*\S|[^\s対]{2,}対[^\s対戦]{2,}|[^\s、。と]{2,}と[^\s、。と]{2,}(?:の(?:比較|勝負|直接対決)|は?どっち|は?どちら)`,
	},
	{
		Name:     "standings",
		Intent:   models.IntentStandings,
		Keywords: []string{"順位", "ランキング", "最新", "試合結果", "直近", "ranking", "latest", "results"},
	},
}

// NewIntentRouter creates a router over rules; nil means DefaultIntentRules.
// Rules with invalid patterns fall back to keyword matching only.
func NewIntentRouter(rules []IntentRule) *IntentRouter {
	if rules == nil {
		rules = DefaultIntentRules
	}

	r := &IntentRouter{
		rules:    make([]IntentRule, len(rules)),
		patterns: make([]*regexp.Regexp, len(rules)),
	}
	for i, rule := range rules {
		keywords := make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		rule.Keywords = keywords
		r.rules[i] = rule

		if rule.Pattern != "" {
			if re, err := regexp.Compile(rule.Pattern); err == nil {
				r.patterns[i] = re
			}
		}
	}
	return r
}

// Rules returns the routing table in evaluation order.
func (r *IntentRouter) Rules() []IntentRule {
	return r.rules
}

// Classify returns the intent of the question and every rule that matched.
func (r *IntentRouter) Classify(message string) *RouteResult {
	text := strings.ToLower(normalizeText(message))
	if strings.TrimSpace(text) == "" {
		return &RouteResult{Intent: models.IntentGeneral, Rule: "general", Reason: "empty message"}
	}

	var hits []RuleHit
	for i, rule := range r.rules {
		if reason, ok := r.match(i, text); ok {
			hits = append(hits, RuleHit{Name: rule.Name, Intent: rule.Intent, Reason: reason})
		}
	}

	if len(hits) == 0 {
		return &RouteResult{
			Intent: models.IntentGeneral,
			Rule:   "general",
			Reason: "no rule matched, using general",
		}
	}

	best := hits[0]
	reason := "matched rule: " + best.Name
	if len(hits) > 1 {
		reason += " (" + strconv.Itoa(len(hits)) + " total matches)"
	}
	return &RouteResult{
		Intent:  best.Intent,
		Rule:    best.Name,
		Matches: hits,
		Reason:  reason,
	}
}

func (r *IntentRouter) match(i int, text string) (string, bool) {
	for _, kw := range r.rules[i].Keywords {
		if strings.Contains(text, kw) {
			return "keyword: " + kw, true
		}
	}
	if re := r.patterns[i]; re != nil {
		if m := re.FindString(text); m != "" {
			return "pattern: " + m, true
		}
	}
	return "", false
}
