package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/strategy"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func recommendationTable(items []strategy.Recommendation) string {
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(it.ItemID, 10),
			it.Title,
			strings.Join(it.Genres, ", "),
			strconv.FormatFloat(it.Score, 'f', 3, 64),
			it.Source,
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Genres", "Score", "Source"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func movieTable(movies []*core.Movie) string {
	rows := make([][]string, 0, len(movies))
	for i, m := range movies {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.ReleaseDate,
			strconv.FormatFloat(m.VoteAverage, 'f', 1, 64),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Released", "Rating"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
	)
}
