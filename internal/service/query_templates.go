package service

import (
	"strings"

	"github.com/user/mleague-analyst/internal/models"
)

// Template names.
const (
	TemplateTrendPlayer    = "trend_player"
	TemplateTrendTeam      = "trend_team"
	TemplatePlayerStats    = "player_stats"
	TemplateTeamStats      = "team_stats"
	TemplatePlayerGames    = "player_games"
	TemplateTeamRanking    = "team_ranking"
	TemplateRecentGames    = "recent_games"
	TemplateStatsByPlayers = "stats_by_players"
	TemplateRecentByPlayer = "recent_by_player"
	TemplateHeadToHead     = "head_to_head"
)

// The only SQL the pipeline ever runs. Values are always bound.
const (
	sqlTrendPlayer    = `SELECT date, point, player FROM games WHERE player LIKE ? ORDER BY date`
	sqlTrendTeam      = `SELECT date, point, player FROM games WHERE player IN (SELECT player FROM stats WHERE team LIKE ?) ORDER BY date`
	sqlPlayerStats    = `SELECT * FROM stats WHERE player LIKE ?`
	sqlTeamStats      = `SELECT * FROM stats WHERE team LIKE ?`
	sqlPlayerGames    = `SELECT date, game_count, rank, player, point FROM games WHERE player LIKE ? ORDER BY date DESC, game_count DESC LIMIT ?`
	sqlTeamRanking    = `SELECT rank, team, point FROM team_ranking ORDER BY rank`
	sqlRecentGames    = `SELECT date, game_count, rank, player, point FROM games ORDER BY date DESC, game_count DESC, rank ASC LIMIT ?`
	sqlRecentByPlayer = `SELECT date, rank, point FROM games WHERE player = ? ORDER BY date DESC, game_count DESC LIMIT ?`
	sqlHeadToHead     = `SELECT a.date, a.game_count, a.rank AS rank_a, a.point AS point_a, b.rank AS rank_b, b.point AS point_b
FROM games a JOIN games b ON a.date = b.date AND a.game_count = b.game_count
WHERE a.player = ? AND b.player = ?
ORDER BY a.date DESC, a.game_count DESC`
)

func likeArg(name string) string {
	return "%" + name + "%"
}

func trendPlayerQuery(player string) models.Query {
	return models.Query{Template: TemplateTrendPlayer, Label: player, SQL: sqlTrendPlayer, Args: []any{likeArg(player)}}
}

func trendTeamQuery(team string) models.Query {
	return models.Query{Template: TemplateTrendTeam, Label: team, SQL: sqlTrendTeam, Args: []any{likeArg(team)}}
}

func playerStatsQuery(player string) models.Query {
	return models.Query{Template: TemplatePlayerStats, Label: player, SQL: sqlPlayerStats, Args: []any{likeArg(player)}}
}

func teamStatsQuery(team string) models.Query {
	return models.Query{Template: TemplateTeamStats, Label: team, SQL: sqlTeamStats, Args: []any{likeArg(team)}}
}

func playerGamesQuery(player string, limit int) models.Query {
	return models.Query{Template: TemplatePlayerGames, Label: player, SQL: sqlPlayerGames, Args: []any{likeArg(player), limit}}
}

func teamRankingQuery() models.Query {
	return models.Query{Template: TemplateTeamRanking, Label: "現在のチーム順位", SQL: sqlTeamRanking}
}

func recentGamesQuery(limit int) models.Query {
	return models.Query{Template: TemplateRecentGames, Label: "直近の試合結果", SQL: sqlRecentGames, Args: []any{limit}}
}

func statsByPlayersQuery(players []string) models.Query {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(players)), ", ")
	args := make([]any, len(players))
	for i, p := range players {
		args[i] = p
	}
	return models.Query{
		Template: TemplateStatsByPlayers,
		Label:    strings.Join(players, "・"),
		SQL:      "SELECT * FROM stats WHERE player IN (" + placeholders + ")",
		Args:     args,
	}
}

func recentByPlayerQuery(player string, limit int) models.Query {
	return models.Query{Template: TemplateRecentByPlayer, Label: player, SQL: sqlRecentByPlayer, Args: []any{player, limit}}
}

func headToHeadQuery(a, b string) models.Query {
	return models.Query{Template: TemplateHeadToHead, Label: a + " vs " + b, SQL: sqlHeadToHead, Args: []any{a, b}}
}
