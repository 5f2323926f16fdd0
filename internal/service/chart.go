package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/user/mleague-analyst/internal/models"
)

// TrendPoint is one match day of a trend series.
type TrendPoint struct {
	Date  string  // YYYY/MM/DD
	Point float64 // sum of the day
	Total float64 // running sum up to and including Date
}

// AggregateTrend groups game rows by date, sums points per day, sorts
// ascending and accumulates. Rows with unparseable dates are dropped.
func AggregateTrend(rs *models.ResultSet) []TrendPoint {
	di, pi := rs.ColumnIndex("date"), rs.ColumnIndex("point")
	if di < 0 || pi < 0 {
		return nil
	}

	sums := make(map[string]float64)
	for _, row := range rs.Rows {
		date, ok := NormalizeDate(row[di])
		if !ok {
			continue
		}
		p, ok := toFloat(row[pi])
		if !ok {
			continue
		}
		sums[date] += p
	}

	dates := make([]string, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]TrendPoint, len(dates))
	var total float64
	for i, d := range dates {
		total += sums[d]
		points[i] = TrendPoint{Date: d, Point: round1(sums[d]), Total: round1(total)}
	}
	return points
}

// BuildChart converts a trend series into the chart payload.
func BuildChart(points []TrendPoint, label string) *models.ChartPayload {
	if len(points) == 0 {
		return nil
	}
	chart := &models.ChartPayload{
		Labels: make([]string, len(points)),
		Data:   make([]float64, len(points)),
		Label:  label,
	}
	for i, p := range points {
		chart.Labels[i] = p.Date
		chart.Data[i] = p.Total
	}
	return chart
}

// trendTable renders the last n points for the narration prompt.
func trendTable(points []TrendPoint, n int) *models.ResultSet {
	if n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	rs := &models.ResultSet{Columns: []string{"date", "point", "total_point"}}
	for _, p := range points {
		rs.Rows = append(rs.Rows, []any{p.Date, p.Point, p.Total})
	}
	return rs
}

var dateLayouts = []string{"2006/1/2", "2006-1-2", "2006.1.2", "20060102"}

// NormalizeDate renders a date value as YYYY/MM/DD. Time parts after a
// space or "T" are ignored.
func NormalizeDate(v any) (string, bool) {
	var s string
	switch d := v.(type) {
	case string:
		s = d
	case time.Time:
		return d.Format("2006/01/02"), true
	case []byte:
		s = string(d)
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%04d/%02d/%02d", t.Year(), int(t.Month()), t.Day()), true
		}
	}
	return "", false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
