package testutil

import "github.com/user/mleague-analyst/internal/models"

// Sample team and player names used across tests.
const (
	TeamABEMAS  = "渋谷ABEMAS"
	TeamKONAMI  = "KONAMI麻雀格闘倶楽部"
	TeamDrivens = "赤坂ドリブンズ"
	TeamRaiden  = "TEAM RAIDEN / 雷電"

	PlayerTai       = "多井隆晴"
	PlayerShiratori = "白鳥翔"
	PlayerSasaki    = "佐々木寿人"
	PlayerTakizawa  = "滝沢和典"
	PlayerSonoda    = "園田賢"
	PlayerSetoguma  = "瀬戸熊直樹"
)

// SampleStats returns one stats row per sample player.
func SampleStats() []models.PlayerStat {
	return []models.PlayerStat{
		{Team: TeamABEMAS, Player: PlayerTai, Matches: 4, TotalHands: 48, Points: 3.7, AvgRank: 2.5,
			Rank1Count: 1, Rank2Count: 1, Rank3Count: 1, Rank4Count: 1,
			TopRate: 0.25, RentaiRate: 0.5, LastAvoidRate: 0.75, BestScore: 62300, AvgScore: 6200,
			FuroRate: 0.18, RiichiRate: 0.32, AgariRate: 0.24, HojuRate: 0.1, HojuAvgScore: 5400},
		{Team: TeamABEMAS, Player: PlayerShiratori, Matches: 2, TotalHands: 24, Points: -13.3, AvgRank: 2.5,
			Rank2Count: 1, Rank3Count: 1,
			RentaiRate: 0.5, LastAvoidRate: 1, BestScore: 35000, AvgScore: 5800,
			FuroRate: 0.3, RiichiRate: 0.2, AgariRate: 0.21, HojuRate: 0.12, HojuAvgScore: 6100},
		{Team: TeamKONAMI, Player: PlayerSasaki, Matches: 3, TotalHands: 36, Points: 23.4, AvgRank: 2.33,
			Rank1Count: 1, Rank2Count: 1, Rank4Count: 1,
			TopRate: 0.333, RentaiRate: 0.667, LastAvoidRate: 0.667, BestScore: 70200, AvgScore: 7400,
			FuroRate: 0.12, RiichiRate: 0.28, AgariRate: 0.26, HojuRate: 0.15, HojuAvgScore: 6600},
		{Team: TeamKONAMI, Player: PlayerTakizawa, Matches: 2, TotalHands: 24, Points: 35.4, AvgRank: 2,
			Rank1Count: 1, Rank3Count: 1,
			TopRate: 0.5, RentaiRate: 0.5, LastAvoidRate: 1, BestScore: 65500, AvgScore: 6900,
			FuroRate: 0.25, RiichiRate: 0.22, AgariRate: 0.23, HojuRate: 0.09, HojuAvgScore: 5000},
		{Team: TeamDrivens, Player: PlayerSonoda, Matches: 2, TotalHands: 24, Points: 32.6, AvgRank: 2,
			Rank1Count: 1, Rank3Count: 1,
			TopRate: 0.5, RentaiRate: 0.5, LastAvoidRate: 1, BestScore: 58000, AvgScore: 7000,
			FuroRate: 0.35, RiichiRate: 0.19, AgariRate: 0.25, HojuRate: 0.11, HojuAvgScore: 5200},
		{Team: TeamRaiden, Player: PlayerSetoguma, Matches: 3, TotalHands: 36, Points: -81.8, AvgRank: 3.33,
			Rank2Count: 1, Rank4Count: 2,
			RentaiRate: 0.333, LastAvoidRate: 0.333, BestScore: 33400, AvgScore: 7800,
			FuroRate: 0.1, RiichiRate: 0.3, AgariRate: 0.2, HojuRate: 0.16, HojuAvgScore: 7000},
	}
}

// SampleGames returns two match days of two games each.
func SampleGames() []models.GameResult {
	return []models.GameResult{
		{Date: "2025/10/06", GameCount: 1, Rank: 1, Player: PlayerTai, Point: 52.3},
		{Date: "2025/10/06", GameCount: 1, Rank: 2, Player: PlayerSasaki, Point: 8.1},
		{Date: "2025/10/06", GameCount: 1, Rank: 3, Player: PlayerSonoda, Point: -15.4},
		{Date: "2025/10/06", GameCount: 1, Rank: 4, Player: PlayerSetoguma, Point: -45.0},

		{Date: "2025/10/06", GameCount: 2, Rank: 1, Player: PlayerSasaki, Point: 60.2},
		{Date: "2025/10/06", GameCount: 2, Rank: 2, Player: PlayerShiratori, Point: 5.0},
		{Date: "2025/10/06", GameCount: 2, Rank: 3, Player: PlayerTakizawa, Point: -20.1},
		{Date: "2025/10/06", GameCount: 2, Rank: 4, Player: PlayerTai, Point: -45.1},

		{Date: "2025/10/07", GameCount: 1, Rank: 1, Player: PlayerSonoda, Point: 48.0},
		{Date: "2025/10/07", GameCount: 1, Rank: 2, Player: PlayerTai, Point: 10.5},
		{Date: "2025/10/07", GameCount: 1, Rank: 3, Player: PlayerShiratori, Point: -18.3},
		{Date: "2025/10/07", GameCount: 1, Rank: 4, Player: PlayerSetoguma, Point: -40.2},

		{Date: "2025/10/07", GameCount: 2, Rank: 1, Player: PlayerTakizawa, Point: 55.5},
		{Date: "2025/10/07", GameCount: 2, Rank: 2, Player: PlayerSetoguma, Point: 3.4},
		{Date: "2025/10/07", GameCount: 2, Rank: 3, Player: PlayerTai, Point: -14.0},
		{Date: "2025/10/07", GameCount: 2, Rank: 4, Player: PlayerSasaki, Point: -44.9},
	}
}

// SampleRanking returns the current team standings.
func SampleRanking() []models.TeamRanking {
	return []models.TeamRanking{
		{Rank: 1, Team: TeamKONAMI, Point: 58.8},
		{Rank: 2, Team: TeamDrivens, Point: 32.6},
		{Rank: 3, Team: TeamABEMAS, Point: -9.6},
		{Rank: 4, Team: TeamRaiden, Point: -81.8},
	}
}
