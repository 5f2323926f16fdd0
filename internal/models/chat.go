package models

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentTrend      Intent = "trend"
	IntentPrediction Intent = "prediction"
	IntentStandings  Intent = "standings"
	IntentGeneral    Intent = "general"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChartPayload is the line-chart series returned with trend answers.
// Data[i] is the cumulative point total up to Labels[i].
type ChartPayload struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Label  string    `json:"label"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply string        `json:"reply"`
	Graph *ChartPayload `json:"graph"`
}

// Query is a parameterized read-only statement built from a fixed template.
// Label names the subject of the rows (a player or team) for display.
type Query struct {
	Template string
	Label    string
	SQL      string
	Args     []any
}

// ResultSet is a fetched table.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// IsEmpty reports whether the set has no rows.
func (r *ResultSet) IsEmpty() bool {
	return r.Len() == 0
}

// ColumnIndex returns the position of a column, or -1.
func (r *ResultSet) ColumnIndex(name string) int {
	if r == nil {
		return -1
	}
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FetchStatus distinguishes the outcomes of a fetch.
type FetchStatus string

const (
	FetchOK         FetchStatus = "ok"
	FetchNoData     FetchStatus = "no_data"
	FetchQueryError FetchStatus = "query_error"
)

// FetchResult is what the data fetcher hands to the narrator. Rows is never
// nil; on a query error it is empty and Err holds the cause.
type FetchResult struct {
	Query  *Query
	Rows   *ResultSet
	Status FetchStatus
	Err    error
}
