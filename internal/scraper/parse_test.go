//go:build !integration && !e2e
// +build !integration,!e2e

package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/models"
)

func TestParsePoints(t *testing.T) {
	rows, err := ParsePoints(strings.NewReader(pointsPage))
	require.NoError(t, err)

	assert.Equal(t, []models.TeamRanking{
		{Rank: 1, Team: "KONAMI麻雀格闘倶楽部", Point: 58.8},
		{Rank: 2, Team: "赤坂ドリブンズ", Point: 32.6},
		{Rank: 3, Team: "渋谷ABEMAS", Point: -9.6},
		{Rank: 4, Team: "TEAM RAIDEN / 雷電", Point: -1081.8},
	}, rows)
}

func TestParsePoints_Empty(t *testing.T) {
	rows, err := ParsePoints(strings.NewReader(emptyPointsPage))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseTopRanking(t *testing.T) {
	rows, err := ParseTopRanking(strings.NewReader(topPage))
	require.NoError(t, err)

	assert.Equal(t, []models.TeamRanking{
		{Rank: 1, Team: "KONAMI麻雀格闘倶楽部", Point: 58.8},
		{Rank: 2, Team: "赤坂ドリブンズ", Point: -32.6},
	}, rows)
}

func TestParseGames(t *testing.T) {
	rows, err := ParseGames(strings.NewReader(gamesPage), 2025)
	require.NoError(t, err)

	assert.Equal(t, []models.GameResult{
		{Date: "2025/10/07", GameCount: 1, Rank: 1, Player: "多井隆晴", Point: 52.3},
		{Date: "2025/10/07", GameCount: 1, Rank: 2, Player: "園田賢", Point: 8.1},
		{Date: "2025/10/07", GameCount: 2, Rank: 1, Player: "佐々木寿人", Point: 60.2},
		{Date: "2025/10/07", GameCount: 2, Rank: 2, Player: "白鳥翔", Point: 5.0},
		{Date: "2026/01/14", GameCount: 1, Rank: 1, Player: "滝沢和典", Point: 55.5},
		{Date: "2026/01/14", GameCount: 1, Rank: 2, Player: "瀬戸熊直樹", Point: 3.4},
		{Date: "2026/01/14", GameCount: 1, Rank: 3, Player: "多井隆晴", Point: -14.0},
		{Date: "2026/01/14", GameCount: 1, Rank: 4, Player: "佐々木寿人", Point: -44.9},
	}, rows)
}

func TestParseStats(t *testing.T) {
	rows, err := ParseStats(strings.NewReader(statsPage))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	tai := rows[0]
	assert.Equal(t, "渋谷ABEMAS", tai.Team)
	assert.Equal(t, "多井隆晴", tai.Player)
	assert.Equal(t, 4, tai.Matches)
	assert.InDelta(t, 3.7, tai.Points, 1e-9)
	assert.InDelta(t, 2.5, tai.AvgRank, 1e-9)
	assert.InDelta(t, 0.25, tai.TopRate, 1e-9)
	assert.InDelta(t, 0.32, tai.RiichiRate, 1e-9)
	assert.Equal(t, 62300, tai.BestScore)
	assert.Equal(t, 5400, tai.HojuAvgScore)

	shiratori := rows[1]
	assert.Equal(t, "白鳥翔", shiratori.Player)
	assert.InDelta(t, -13.3, shiratori.Points, 1e-9)
	assert.InDelta(t, 0.2, shiratori.RiichiRate, 1e-9)
	assert.Zero(t, shiratori.TopRate)
	assert.Zero(t, shiratori.HojuAvgScore)

	sasaki := rows[2]
	assert.Equal(t, "KONAMI麻雀格闘倶楽部", sasaki.Team)
	assert.Equal(t, "佐々木寿人", sasaki.Player)
	assert.Equal(t, 3, sasaki.Matches)
	assert.Equal(t, 1, sasaki.Rank1Count)
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"58.8pt", 58.8, false},
		{"▲12.3pt", -12.3, false},
		{"1,234.5", 1234.5, false},
		{" +5.0pt ", 5.0, false},
		{"-", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseStatValue(t *testing.T) {
	tests := []struct {
		column string
		in     string
		want   float64
	}{
		{"riichi_rate", "32.0%", 0.32},
		{"riichi_rate", "32.0", 0.32},
		{"riichi_rate", "0.320", 0.32},
		{"top_rate", "100.0%", 1},
		{"top_rate", "1.000", 1},
		{"points", "▲45.1pt", -45.1},
		{"best_score", "62,300", 62300},
		{"avg_score", "7,400点", 7400},
		{"matches", "12", 12},
	}
	for _, tt := range tests {
		t.Run(tt.column+"/"+tt.in, func(t *testing.T) {
			got, err := ParseStatValue(tt.column, tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := ParseStatValue("matches", "-")
	assert.Error(t, err)
}

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"10/7(火)", "2025/10/07", true},
		{"9/15（月）", "2025/09/15", true},
		{"12/31", "2025/12/31", true},
		{"1/14(火)", "2026/01/14", true},
		{"5/20(火)", "2026/05/20", true},
		{"未定", "", false},
		{"13/1(月)", "", false},
		{"2025/10/07", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGameDate(tt.in, 2025)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePlayerName(t *testing.T) {
	assert.Equal(t, "多井隆晴", NormalizePlayerName(" 多井 隆晴 "))
	assert.Equal(t, "瀬戸熊直樹", NormalizePlayerName("瀬戸熊　直樹"))
	assert.Equal(t, "", NormalizePlayerName("　"))
}
