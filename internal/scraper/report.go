package scraper

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderReport renders the per-section outcome of a run as a text table.
func RenderReport(r *Report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"section", "rows", "status"})

	for _, s := range r.Sections {
		status := "replaced"
		if !s.Written {
			status = "kept previous"
			if s.Err != nil {
				status += ": " + s.Err.Error()
			}
		}
		t.AppendRow(table.Row{s.Name, s.Rows, status})
	}

	if r.Run != nil {
		t.AppendFooter(table.Row{"run", r.Run.ID, r.Run.StartedAt.Format("2006-01-02 15:04:05")})
	}
	return t.Render()
}
