package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quangtb/nextimg/internal/batch"
	"github.com/quangtb/nextimg/internal/history"
)

func renderSummaryTable(summary batch.Summary, elapsed time.Duration) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Converted", fmt.Sprintf("%d/%d", summary.Converted, summary.Total)},
		{"Skipped (exists)", summary.Skipped},
		{"Failed", summary.Failed},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func renderHistoryTable(entries []history.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Started", "Origin", "Format", "Quality", "Workers", "Converted", "Skipped", "Failed"})
	for _, entry := range entries {
		tw.AppendRow(table.Row{
			entry.StartedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Origin,
			entry.Format,
			entry.Quality,
			entry.Workers,
			fmt.Sprintf("%d/%d", entry.Converted, entry.Total),
			entry.Skipped,
			entry.Failed,
		})
	}

	return tw.Render()
}
