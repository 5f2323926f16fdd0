//go:build !integration && !e2e
// +build !integration,!e2e

package service

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/mleague-analyst/internal/models"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.32, "32%"},
		{0.25, "25%"},
		{0.08, "8%"},
		{0.333, "33%"},
		{0.325, "33%"},
		{0.2345, "23%"},
		{0.006, "1%"},
		{1, "100%"},
		{0, "0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRate(tt.in), "FormatRate(%v)", tt.in)
	}
}

func TestFormatRate_WholePercent(t *testing.T) {
	for _, r := range []float64{0.0, 0.014, 0.125, 0.2345, 0.325, 0.333, 0.4999, 0.875, 0.995, 1.0} {
		want := strconv.Itoa(int(math.Round(100*r))) + "%"
		got := FormatRate(r)
		assert.Contains(t, got, want, "FormatRate(%v)", r)
		assert.NotContains(t, got, ".", "FormatRate(%v)", r)
	}
}

func TestFormatPoint(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{52.3, "52.3"},
		{-12.3, "▲12.3"},
		{540, "540.0"},
		{7.199999999999996, "7.2"},
		{-0.04, "▲0.0"},
		{0.04, "0.0"},
		{0, "0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPoint(tt.in), "FormatPoint(%v)", tt.in)
	}
}

func TestFormatPoint_MarkerOnlyForNegatives(t *testing.T) {
	for _, p := range []float64{-120.55, -12.3, -0.05, -0.04, -0.0001, 0, 0.0001, 0.04, 12.3, 540} {
		got := FormatPoint(p)
		assert.Equal(t, p < 0, strings.HasPrefix(got, "▲"), "FormatPoint(%v) = %q", p, got)
		assert.NotContains(t, got, "-", "FormatPoint(%v)", p)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "32%", FormatValue("riichi_rate", 0.32))
	assert.Equal(t, "▲45.1", FormatValue("point", -45.1))
	assert.Equal(t, "▲81.8", FormatValue("points", -81.8))
	assert.Equal(t, "▲14.0", FormatValue("point_b", -14.0))
	assert.Equal(t, "2.50", FormatValue("avg_rank", 2.5))
	assert.Equal(t, "4", FormatValue("matches", int64(4)))
	assert.Equal(t, "多井隆晴", FormatValue("player", "多井隆晴"))
	assert.Equal(t, "", FormatValue("team", nil))
}

func TestRenderTable(t *testing.T) {
	rs := &models.ResultSet{
		Columns: []string{"player", "riichi_rate", "points"},
		Rows:    [][]any{{"多井隆晴", 0.32, -13.3}},
	}

	out := RenderTable(rs)
	assert.Contains(t, out, "リーチ率")
	assert.Contains(t, out, "32%")
	assert.Contains(t, out, "▲13.3")
	assert.NotContains(t, out, "0.32")
	assert.False(t, strings.Contains(out, "-"), "table borders must not use hyphens")

	assert.Equal(t, "（データなし）", RenderTable(&models.ResultSet{}))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "放銃平均打点", ColumnLabel("hoju_avg_score"))
	assert.Equal(t, "日付", ColumnLabel("date"))
	assert.Equal(t, "unknown_col", ColumnLabel("unknown_col"))
}
