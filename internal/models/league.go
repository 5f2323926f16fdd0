// Package models defines the domain models for the league analyst.
package models

import "time"

// PlayerStat is one row of the stats table: a player's season aggregates.
// Rate fields are fractions of 1.
type PlayerStat struct {
	Team          string  `json:"team"`
	Player        string  `json:"player"`
	Matches       int     `json:"matches"`
	TotalHands    int     `json:"total_hands"`
	Points        float64 `json:"points"`
	AvgRank       float64 `json:"avg_rank"`
	Rank1Count    int     `json:"rank_1_count"`
	Rank2Count    int     `json:"rank_2_count"`
	Rank3Count    int     `json:"rank_3_count"`
	Rank4Count    int     `json:"rank_4_count"`
	TopRate       float64 `json:"top_rate"`
	RentaiRate    float64 `json:"rentai_rate"`
	LastAvoidRate float64 `json:"last_avoid_rate"`
	BestScore     int     `json:"best_score"`
	AvgScore      int     `json:"avg_score"`
	FuroRate      float64 `json:"furo_rate"`
	RiichiRate    float64 `json:"riichi_rate"`
	AgariRate     float64 `json:"agari_rate"`
	HojuRate      float64 `json:"hoju_rate"`
	HojuAvgScore  int     `json:"hoju_avg_score"`
}

// GameResult is one seat of one match.
type GameResult struct {
	Date      string  `json:"date"` // YYYY/MM/DD
	GameCount int     `json:"game_count"`
	Rank      int     `json:"rank"`
	Player    string  `json:"player"`
	Point     float64 `json:"point"`
}

// TeamRanking is one row of the current standings.
type TeamRanking struct {
	Rank  int     `json:"rank"`
	Team  string  `json:"team"`
	Point float64 `json:"point"`
}

// Vocabulary is the set of names currently present in the stats table.
type Vocabulary struct {
	Teams    []string  `json:"teams"`
	Players  []string  `json:"players"`
	LoadedAt time.Time `json:"loaded_at"`
}

// IsEmpty reports whether no names are known.
func (v *Vocabulary) IsEmpty() bool {
	return v == nil || (len(v.Teams) == 0 && len(v.Players) == 0)
}

// IngestionRun records one scraper execution.
type IngestionRun struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	StatsRows   int        `json:"stats_rows"`
	GamesRows   int        `json:"games_rows"`
	RankingRows int        `json:"ranking_rows"`
	Errors      string     `json:"errors,omitempty"`
}

// StatColumn maps a stats table header on the league site to a column.
type StatColumn struct {
	Header string
	Column string
}

// StatColumns lists the stats columns in site order.
var StatColumns = []StatColumn{
	{"試合数", "matches"},
	{"総局数", "total_hands"},
	{"ポイント", "points"},
	{"平着", "avg_rank"},
	{"1位", "rank_1_count"},
	{"2位", "rank_2_count"},
	{"3位", "rank_3_count"},
	{"4位", "rank_4_count"},
	{"トップ率", "top_rate"},
	{"連対率", "rentai_rate"},
	{"ラス回避率", "last_avoid_rate"},
	{"ベストスコア", "best_score"},
	{"平均打点", "avg_score"},
	{"副露率", "furo_rate"},
	{"リーチ率", "riichi_rate"},
	{"アガリ率", "agari_rate"},
	{"放銃率", "hoju_rate"},
	{"放銃平均打点", "hoju_avg_score"},
}
