package service

import (
	"fmt"
	"strings"

	"github.com/user/mleague-analyst/internal/models"
)

// PredictionDisclaimer closes every prediction answer.
const PredictionDisclaimer = "※データに基づく予想であり、結果を保証するものではありません"

const baseFormattingRules = `【重要：表示ルールの厳守】
1. データ内の率はすでにパーセント表記です（例: 32%）。小数（例: 0.32）に戻したり、丸めて「0%」と書いたりしないでください。
2. マイナスのポイントは「▲」を数字の直前につけてください（例: ▲12.3pt）。
3. ハイフン「-」を区切り文字に使わないでください。一覧は「項目: 値」の形式で書いてください。`

const standingsFormattingRules = `4. チーム順位は次の形式で書いてください：
   1位: **チーム名** (540.0pt)
5. 順位に応じた絵文字(🥇,🥈,🥉,4️⃣)を使ってください。
6. チーム名や選手名は **太字** にしてください。
7. 試合結果は日付の新しい順、同じ日は試合番号の大きい順、各試合は着順どおりに並べてください。`

func narrationSystemPrompt(intent models.Intent) string {
	switch intent {
	case models.IntentTrend:
		return "あなたはMリーグの実況者です。"
	case models.IntentPrediction:
		return "あなたはMリーグのプロアナリストです。"
	case models.IntentStandings:
		return "あなたはMリーグの公式リポーターです。"
	default:
		return "あなたはMリーグの解説者です。"
	}
}

func trendNarrationPrompt(question, subject, data string) string {
	return fmt.Sprintf(`Mリーグ実況者として %s のポイント推移を解説してください。
質問: %s

【日別ポイントと累計（直近）】
%s

%s
最後に「グラフをご覧ください」と添えてください。`,
		subject, question, data, baseFormattingRules)
}

func predictionNarrationPrompt(question string, sections []string) string {
	return fmt.Sprintf(`ユーザーの質問: "%s"

以下の「客観的なデータ」を元に、論理的な分析・予想を行ってください。

%s

【指示】
- 「勝敗予想」の場合は、スタッツ（平均着順やポイント）と直近の勢いを総合して、最も勝率が高そうな選手を1名挙げ、理由を解説してください。
- 「対戦成績・相性」の場合は、直接対決の結果と、それぞれのデータの強み（攻撃型か守備型かなど）を比較してください。

%s
4. 最後に必ず「%s」と注釈を入れてください。`,
		question, strings.Join(sections, "\n\n"), baseFormattingRules, PredictionDisclaimer)
}

func standingsNarrationPrompt(question string, sections []string) string {
	return fmt.Sprintf(`質問「%s」に対し、以下のデータを元に見やすく報告してください。

%s

%s
%s`,
		question, strings.Join(sections, "\n\n"), baseFormattingRules, standingsFormattingRules)
}

func generalNarrationPrompt(question string, sections []string) string {
	return fmt.Sprintf(`Mリーグ解説者として質問に答えてください。
質問: %s

%s

%s`,
		question, strings.Join(sections, "\n\n"), baseFormattingRules)
}
