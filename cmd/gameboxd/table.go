package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one listing column. Numeric columns (ids, ratings, review
// counts) render right-aligned; text columns render left-aligned.
type column struct {
	title   string
	numeric bool
}

func textCol(title string) column { return column{title: title} }
func numCol(title string) column  { return column{title: title, numeric: true} }

// catalogTable accumulates rows for one CLI listing. All listings share the
// rounded style; only the column set differs per command.
type catalogTable struct {
	columns []column
	rows    []table.Row
}

func newCatalogTable(columns ...column) *catalogTable {
	return &catalogTable{columns: columns}
}

// addRow pads or truncates the cells to the column count.
func (ct *catalogTable) addRow(cells ...string) {
	row := make(table.Row, len(ct.columns))
	for i := range ct.columns {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	ct.rows = append(ct.rows, row)
}

func (ct *catalogTable) render() string {
	if len(ct.columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(ct.columns))
	configs := make([]table.ColumnConfig, len(ct.columns))
	for i, col := range ct.columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range ct.rows {
		tw.AppendRow(row)
	}
	return tw.Render()
}
