package repository

import (
	"database/sql"
	"fmt"

	"github.com/user/mleague-analyst/internal/models"
)

// cacheTables lists the tables exposed by /debug, in display order.
var cacheTables = []string{"stats", "games", "team_ranking"}

func isCacheTable(name string) bool {
	for _, t := range cacheTables {
		if t == name {
			return true
		}
	}
	return false
}

// scanResultSet drains rows into a ResultSet.
func scanResultSet(rows *sql.Rows) (*models.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	rs := &models.ResultSet{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			// Convert []byte to string for SQLite text fields
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return rs, nil
}

// queryStrings runs a single-column query.
func queryStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s.Valid && s.String != "" {
			out = append(out, s.String)
		}
	}
	return out, rows.Err()
}
