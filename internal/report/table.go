package report

import (
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"jpaudio/internal/model"
	"jpaudio/internal/util/format"
)

// SummaryTable renders one row per file result. It returns "" when there
// are no results.
func SummaryTable(results []model.FileResult) string {
	if len(results) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Status", "Track", "Output", "Size", "Detail"})

	for _, r := range results {
		size, detail := "", r.Reason
		switch r.Status {
		case model.StatusExtracted:
			size = format.HumanizeBytes(r.Bytes)
		case model.StatusFailed:
			if r.Err != nil {
				detail = firstLine(r.Err.Error())
			}
		}
		tw.AppendRow(table.Row{
			filepath.Base(r.File.InputPath),
			string(r.Status),
			r.Track,
			filepath.Base(r.File.OutputPath),
			size,
			detail,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, WidthMax: 60},
	})
	return tw.Render()
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
