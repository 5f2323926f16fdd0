package scraper

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/user/mleague-analyst/internal/models"
	"golang.org/x/net/html"
)

// Seasons start in autumn; match days before seasonStartMonth belong to the
// calendar year after the configured season year.
const seasonStartMonth = 7

var (
	digitsRe      = regexp.MustCompile(`\d+`)
	nameSpaces    = strings.NewReplacer(" ", "", "　", "")
	pointReplacer = strings.NewReplacer("pt", "", "▲", "-", ",", "", " ", "")
	statReplacer  = strings.NewReplacer("pt", "", "▲", "-", ",", "", " ", "", "点", "")
)

// ParsePoints reads team standings from the points page. Rows are either
// decorated (rank-number / team-name / point classes) or plain three-cell
// table rows.
func ParsePoints(r io.Reader) ([]models.TeamRanking, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse points page: %w", err)
	}

	var out []models.TeamRanking
	for _, tr := range findAll(doc, byTag("tr")) {
		if row, ok := decoratedRankingRow(tr); ok {
			out = append(out, row)
			continue
		}
		if row, ok := plainRankingRow(tr); ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func decoratedRankingRow(tr *html.Node) (models.TeamRanking, bool) {
	rankNode := findFirst(tr, byClassContains("rank-number"))
	if rankNode == nil {
		rankNode = findFirst(tr, byClassContains("ranking-no"))
	}
	return rankingFrom(rankNode, findFirst(tr, byClass("team-name")), findFirst(tr, byClass("point")))
}

func plainRankingRow(tr *html.Node) (models.TeamRanking, bool) {
	cells := children(tr, "td")
	if len(cells) < 3 {
		return models.TeamRanking{}, false
	}
	return rankingFrom(cells[0], cells[1], cells[2])
}

func rankingFrom(rankNode, teamNode, pointNode *html.Node) (models.TeamRanking, bool) {
	if rankNode == nil || teamNode == nil || pointNode == nil {
		return models.TeamRanking{}, false
	}
	rank, err := parseInt(nodeText(rankNode))
	if err != nil {
		return models.TeamRanking{}, false
	}
	team := nodeText(teamNode)
	if team == "" {
		return models.TeamRanking{}, false
	}
	point, err := ParsePoint(nodeText(pointNode))
	if err != nil {
		return models.TeamRanking{}, false
	}
	return models.TeamRanking{Rank: rank, Team: team, Point: point}, true
}

// ParseTopRanking reads the standings widget of the top page. Used when the
// points page yields nothing.
func ParseTopRanking(r io.Reader) ([]models.TeamRanking, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse top page: %w", err)
	}

	var out []models.TeamRanking
	for _, item := range findAll(doc, byTagClass("div", "p-ranking__team-item")) {
		row, ok := rankingFrom(
			findFirst(item, byClassContains("p-ranking__rank-number")),
			findFirst(item, byClass("p-ranking__team-name")),
			findFirst(item, byClass("p-ranking__current-point")),
		)
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// ParseGames reads per-game results from the games page. Each c-modal2
// block is one match day holding one column per game. Dates are shown as
// M/D(曜) and are expanded with seasonYear. Rows come back sorted by
// (date, game_count, rank).
func ParseGames(r io.Reader, seasonYear int) ([]models.GameResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse games page: %w", err)
	}

	var out []models.GameResult
	for _, modal := range findAll(doc, byTagClass("div", "c-modal2")) {
		date, ok := ParseGameDate(nodeText(findFirst(modal, byTagClass("div", "p-gamesResult__date"))), seasonYear)
		if !ok {
			continue
		}

		for _, col := range findAll(modal, byTagClass("div", "p-gamesResult__column")) {
			game, err := parseInt(nodeText(findFirst(col, byTagClass("div", "p-gamesResult__number"))))
			if err != nil {
				continue
			}
			for _, item := range findAll(col, byTagClass("div", "p-gamesResult__rank-item")) {
				rank, err := parseInt(nodeText(findFirst(item, byTagClass("div", "p-gamesResult__rank-badge"))))
				if err != nil {
					continue
				}
				player := NormalizePlayerName(nodeText(findFirst(item, byTagClass("div", "p-gamesResult__name"))))
				if player == "" {
					continue
				}
				point, err := ParsePoint(nodeText(findFirst(item, byTagClass("div", "p-gamesResult__point"))))
				if err != nil {
					continue
				}
				out = append(out, models.GameResult{Date: date, GameCount: game, Rank: rank, Player: player, Point: point})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].GameCount != out[j].GameCount {
			return out[i].GameCount < out[j].GameCount
		}
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

// ParseStats reads the per-team stats tables. The first row of each table
// lists the players; every other row is one metric with a th label and one
// td per player.
func ParseStats(r io.Reader) ([]models.PlayerStat, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse stats page: %w", err)
	}

	columns := make(map[string]string, len(models.StatColumns))
	for _, c := range models.StatColumns {
		columns[c.Header] = c.Column
	}

	var out []models.PlayerStat
	for _, section := range findAll(doc, byTagClass("section", "p-stats__team")) {
		team := nodeText(findFirst(section, byTagClass("h2", "p-stats__teamName")))
		table := findFirst(section, byTagClass("table", "p-stats__table"))
		if team == "" || table == nil {
			continue
		}

		rows := findAll(table, byTag("tr"))
		if len(rows) == 0 {
			continue
		}
		heads := children(rows[0], "th")
		if len(heads) < 2 {
			continue
		}

		stats := make([]models.PlayerStat, 0, len(heads)-1)
		for _, th := range heads[1:] {
			stats = append(stats, models.PlayerStat{Team: team, Player: NormalizePlayerName(nodeText(th))})
		}

		for _, row := range rows[1:] {
			column, ok := columns[nodeText(findFirst(row, byTag("th")))]
			if !ok {
				continue
			}
			for i, td := range children(row, "td") {
				if i >= len(stats) {
					break
				}
				v, err := ParseStatValue(column, nodeText(td))
				if err != nil {
					continue
				}
				setStat(&stats[i], column, v)
			}
		}

		for _, s := range stats {
			if s.Player != "" {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// ParsePoint parses a point value such as "▲12.3pt" or "1,234.5".
func ParsePoint(s string) (float64, error) {
	v, err := strconv.ParseFloat(pointReplacer.Replace(strings.TrimSpace(s)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return v, nil
}

// ParseStatValue parses one stats cell. Rate columns are stored as
// fractions; "32.0%" and "32.0" both become 0.32, "0.320" stays.
func ParseStatValue(column, raw string) (float64, error) {
	s := statReplacer.Replace(strings.TrimSpace(raw))
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", column, raw, err)
	}
	if strings.HasSuffix(column, "_rate") && (percent || v > 1) {
		v /= 100
	}
	return v, nil
}

// ParseGameDate expands "10/7(火)" to "2025/10/07" for season 2025, and
// "1/14(火)" to "2026/01/14".
func ParseGameDate(s string, seasonYear int) (string, bool) {
	md, _, _ := strings.Cut(strings.TrimSpace(s), "(")
	md, _, _ = strings.Cut(md, "（")
	parts := strings.Split(strings.TrimSpace(md), "/")
	if len(parts) != 2 {
		return "", false
	}
	month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	year := seasonYear
	if month < seasonStartMonth {
		year++
	}
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day), true
}

// NormalizePlayerName strips ASCII and full-width spaces.
func NormalizePlayerName(s string) string {
	return nameSpaces.Replace(strings.TrimSpace(s))
}

// parseInt takes the first run of digits, so "第2試合" and "1位" work.
func parseInt(s string) (int, error) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	return strconv.Atoi(m)
}

func setStat(p *models.PlayerStat, column string, v float64) {
	n := int(math.Round(v))
	switch column {
	case "matches":
		p.Matches = n
	case "total_hands":
		p.TotalHands = n
	case "points":
		p.Points = v
	case "avg_rank":
		p.AvgRank = v
	case "rank_1_count":
		p.Rank1Count = n
	case "rank_2_count":
		p.Rank2Count = n
	case "rank_3_count":
		p.Rank3Count = n
	case "rank_4_count":
		p.Rank4Count = n
	case "top_rate":
		p.TopRate = v
	case "rentai_rate":
		p.RentaiRate = v
	case "last_avoid_rate":
		p.LastAvoidRate = v
	case "best_score":
		p.BestScore = n
	case "avg_score":
		p.AvgScore = n
	case "furo_rate":
		p.FuroRate = v
	case "riichi_rate":
		p.RiichiRate = v
	case "agari_rate":
		p.AgariRate = v
	case "hoju_rate":
		p.HojuRate = v
	case "hoju_avg_score":
		p.HojuAvgScore = n
	}
}
