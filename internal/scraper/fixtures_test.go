//go:build !integration && !e2e
// +build !integration,!e2e

package scraper

const pointsPage = `<!DOCTYPE html>
<html><body>
<table class="p-points__table">
  <tr><th>順位</th><th>チーム</th><th>ポイント</th></tr>
  <tr>
    <td class="p-points__ranking-no rank-number--1"><span>1</span></td>
    <td class="team-name">KONAMI麻雀格闘倶楽部</td>
    <td class="point">58.8pt</td>
  </tr>
  <tr>
    <td class="rank-number">2</td>
    <td class="team-name">赤坂ドリブンズ</td>
    <td class="point">32.6pt</td>
  </tr>
  <tr><td>3</td><td>渋谷ABEMAS</td><td>▲9.6</td></tr>
  <tr><td>4</td><td>TEAM RAIDEN / 雷電</td><td>▲1,081.8pt</td></tr>
  <tr><td>-</td><td>集計中</td><td>-</td></tr>
</table>
</body></html>`

const emptyPointsPage = `<html><body><p>準備中</p></body></html>`

const topPage = `<html><body>
<div class="p-ranking">
  <div class="p-ranking__team-item">
    <span class="p-ranking__rank-number p-ranking__rank-number--1">1</span>
    <span class="p-ranking__team-name">KONAMI麻雀格闘倶楽部</span>
    <span class="p-ranking__current-point">58.8pt</span>
  </div>
  <div class="p-ranking__team-item">
    <span class="p-ranking__rank-number">2</span>
    <span class="p-ranking__team-name">赤坂ドリブンズ</span>
    <span class="p-ranking__current-point">▲32.6pt</span>
  </div>
  <div class="p-ranking__team-item">
    <span class="p-ranking__team-name">no rank</span>
  </div>
</div>
</body></html>`

const gamesPage = `<html><body>
<div class="c-modal2" id="modal-20260114">
  <div class="p-gamesResult__date">1/14(火)</div>
  <div class="p-gamesResult__column">
    <div class="p-gamesResult__number">第1試合</div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">1</div><div class="p-gamesResult__name">滝沢 和典</div><div class="p-gamesResult__point">55.5pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">2</div><div class="p-gamesResult__name">瀬戸熊　直樹</div><div class="p-gamesResult__point">3.4pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">3</div><div class="p-gamesResult__name">多井 隆晴</div><div class="p-gamesResult__point">▲14.0pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">4</div><div class="p-gamesResult__name">佐々木 寿人</div><div class="p-gamesResult__point">▲44.9pt</div></div>
  </div>
</div>
<div class="c-modal2" id="modal-20251007">
  <div class="p-gamesResult__date">10/7(火)</div>
  <div class="p-gamesResult__column">
    <div class="p-gamesResult__number">第2試合</div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">1</div><div class="p-gamesResult__name">佐々木 寿人</div><div class="p-gamesResult__point">60.2pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">2</div><div class="p-gamesResult__name">白鳥 翔</div><div class="p-gamesResult__point">5.0pt</div></div>
  </div>
  <div class="p-gamesResult__column">
    <div class="p-gamesResult__number">第1試合</div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">1</div><div class="p-gamesResult__name">多井 隆晴</div><div class="p-gamesResult__point">52.3pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">2</div><div class="p-gamesResult__name">園田 賢</div><div class="p-gamesResult__point">8.1pt</div></div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">3</div><div class="p-gamesResult__name">中止</div><div class="p-gamesResult__point">-</div></div>
  </div>
</div>
<div class="c-modal2" id="modal-tbd">
  <div class="p-gamesResult__date">未定</div>
  <div class="p-gamesResult__column">
    <div class="p-gamesResult__number">第1試合</div>
    <div class="p-gamesResult__rank-item"><div class="p-gamesResult__rank-badge">1</div><div class="p-gamesResult__name">誰か</div><div class="p-gamesResult__point">1.0pt</div></div>
  </div>
</div>
</body></html>`

const statsPage = `<html><body>
<section class="p-stats__team">
  <h2 class="p-stats__teamName">渋谷ABEMAS</h2>
  <table class="p-stats__table">
    <tbody>
      <tr><th></th><th>多井 隆晴</th><th>白鳥　翔</th></tr>
      <tr><th>試合数</th><td>4</td><td>2</td></tr>
      <tr><th>ポイント</th><td>3.7</td><td>▲13.3</td></tr>
      <tr><th>平着</th><td>2.50</td><td>2.50</td></tr>
      <tr><th>トップ率</th><td>25.0%</td><td>0.0%</td></tr>
      <tr><th>リーチ率</th><td>32.0%</td><td>0.200</td></tr>
      <tr><th>ベストスコア</th><td>62,300</td><td>35,000</td></tr>
      <tr><th>放銃平均打点</th><td>5,400</td><td>-</td></tr>
      <tr><th>未知の指標</th><td>99</td><td>99</td></tr>
    </tbody>
  </table>
</section>
<section class="p-stats__team">
  <h2 class="p-stats__teamName">準備中</h2>
</section>
<section class="p-stats__team">
  <h2 class="p-stats__teamName">KONAMI麻雀格闘倶楽部</h2>
  <table class="p-stats__table">
    <tr><th>選手</th><th>佐々木寿人</th></tr>
    <tr><th>試合数</th><td>3</td><td>extra</td></tr>
    <tr><th>1位</th><td>1</td></tr>
  </table>
</section>
</body></html>`
