package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/user/mleague-analyst/internal/models"
)

var columnLabels = func() map[string]string {
	labels := map[string]string{
		"team":        "チーム",
		"player":      "選手",
		"date":        "日付",
		"game_count":  "試合",
		"rank":        "順位",
		"point":       "ポイント",
		"total_point": "累計ポイント",
		"rank_a":      "着順A",
		"point_a":     "ポイントA",
		"rank_b":      "着順B",
		"point_b":     "ポイントB",
	}
	for _, c := range models.StatColumns {
		labels[c.Column] = c.Header
	}
	return labels
}()

// ColumnLabel returns the display header of a column.
func ColumnLabel(column string) string {
	if l, ok := columnLabels[column]; ok {
		return l
	}
	return column
}

// FormatRate renders a fraction as a whole percentage: 0.325 -> "33%".
func FormatRate(v float64) string {
	return strconv.Itoa(int(math.Round(v*100))) + "%"
}

// FormatPoint renders a point total with one decimal, negatives with ▲:
// -12.3 -> "▲12.3". The sign is taken before rounding, so -0.04 is "▲0.0".
func FormatPoint(v float64) string {
	if v < 0 {
		return "▲" + strconv.FormatFloat(math.Round(-v*10)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

func isRateColumn(col string) bool {
	return strings.HasSuffix(col, "_rate")
}

func isPointColumn(col string) bool {
	return col == "point" || col == "points" || col == "total_point" || strings.HasPrefix(col, "point_")
}

// FormatValue renders one cell under the display rules of its column.
func FormatValue(column string, v any) string {
	if v == nil {
		return ""
	}
	f, numeric := toFloat(v)
	switch {
	case !numeric:
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	case isRateColumn(column):
		return FormatRate(f)
	case isPointColumn(column):
		return FormatPoint(f)
	case column == "avg_rank":
		return strconv.FormatFloat(f, 'f', 2, 64)
	default:
		return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
	}
}

// RenderTable renders a result set as a text table with display headers
// and formatted values.
func RenderTable(rs *models.ResultSet) string {
	if rs.IsEmpty() {
		return "（データなし）"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(rs.Columns))
	for i, c := range rs.Columns {
		header[i] = ColumnLabel(c)
	}
	t.AppendHeader(header)

	for _, row := range rs.Rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			out[i] = FormatValue(rs.Columns[i], v)
		}
		t.AppendRow(out)
	}
	return t.Render()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
