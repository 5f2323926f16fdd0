package service

import (
	"fmt"
	"strings"

	"github.com/user/mleague-analyst/internal/models"
)

const synthesisSystemPrompt = `あなたはMリーグのデータエンジニアです。質問から検索条件を抽出し、指定されたJSONだけを返してください。説明文やコードブロックは不要です。`

const tableGuide = `テーブル:
1. stats (通算): player, team, matches, points, avg_rank, top_rate, rentai_rate, last_avoid_rate, furo_rate, riichi_rate, agari_rate, hoju_rate ...
2. games (日別): date, game_count, rank, player, point
3. team_ranking (順位): rank, team, point`

func vocabularyBlock(vocab *models.Vocabulary) string {
	return fmt.Sprintf("【正しい名前】\nチーム: %s\n選手: %s",
		strings.Join(vocab.Teams, ", "), strings.Join(vocab.Players, ", "))
}

func trendSlotPrompt(question string, vocab *models.Vocabulary) string {
	return fmt.Sprintf(`ユーザーは「ポイント推移」を知りたいです。質問: "%s"
%s

【指示】
- 質問の対象がチームか選手かを判定し、上の一覧にある正しい名前を1つ選んでください。
- 名前にスペースを入れないでください（例: '伊達朱里紗'）。

回答形式: {"subject": "player" または "team", "name": "名前"}`,
		question, vocabularyBlock(vocab))
}

func predictionSlotPrompt(question string, vocab *models.Vocabulary) string {
	return fmt.Sprintf(`ユーザーの質問から、分析対象となる「選手名」を全て抽出してください。
質問: "%s"
【選手名簿】%s

- 選手名は名簿の表記どおりに、スペースを入れずに書いてください。
- もしチーム名が書かれていたら、そのチームの代表的な選手を1名選んでください。

回答形式: {"players": ["多井隆晴", "伊達朱里紗"]}`,
		question, strings.Join(vocab.Players, ", "))
}

func generalSlotPrompt(question string, vocab *models.Vocabulary) string {
	return fmt.Sprintf(`質問「%s」に答えるために必要なデータを選んでください。
%s

%s

【重要】
- DB内の名前に「スペース」は含まれません（例: '伊達朱里紗'）。'伊達 朱里紗' のようなスペース入りは禁止です。
- subject は次のいずれか:
  "player" 選手のスタッツや成績 / "team" チームのスタッツ / "ranking" チーム順位 / "recent" 直近の試合結果
- focus は "stats"（通算スタッツ）または "games"（日別の成績）。
- ranking と recent の場合 name は空文字にしてください。

回答形式: {"subject": "player", "name": "名前", "focus": "stats"}`,
		question, vocabularyBlock(vocab), tableGuide)
}
