package tables

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/richtext"
)

// RowType is the node type of table rows.
const RowType = "table_row"

// Column is one declared table column.
type Column struct {
	ID    string `json:"id"`
	Width int    `json:"width,omitempty"`
	Color string `json:"color,omitempty"`
}

// Cell holds the runs stored under one column of one row. Inline is filled
// by callers that decorate cells; extraction leaves it empty.
type Cell struct {
	Runs   []richtext.Run    `json:"-"`
	Inline []richtext.Inline `json:"inline,omitempty"`
}

// Empty reports whether the cell carries no text.
func (c Cell) Empty() bool {
	return len(c.Runs) == 0 && len(c.Inline) == 0
}

// Row is one grid row. Header marks the first row of a table with a
// column header.
type Row struct {
	ID     string `json:"id"`
	Cells  []Cell `json:"cells"`
	Header bool   `json:"header,omitempty"`
}

// Issue reports a row child that could not be used.
type Issue struct {
	NodeID string
	Detail string
}

// Table is the rectangular grid of a table node.
type Table struct {
	Columns      []Column `json:"columns"`
	Rows         []Row    `json:"rows"`
	HasHeader    bool     `json:"has_header,omitempty"`
	HasRowHeader bool     `json:"has_row_header,omitempty"`
}

// ColumnOrder returns the declared column ids.
func (t Table) ColumnOrder() []string {
	ids := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		ids[i] = col.ID
	}
	return ids
}

// HeaderRow returns the header row when the table has one.
func (t Table) HeaderRow() (Row, bool) {
	if !t.HasHeader || len(t.Rows) == 0 {
		return Row{}, false
	}
	return t.Rows[0], true
}

// Body returns the rows excluding the header row.
func (t Table) Body() []Row {
	if t.HasHeader && len(t.Rows) > 0 {
		return t.Rows[1:]
	}
	return t.Rows
}

// Extract builds the grid for tableNode from its row children in content
// order. Every row gets one cell per declared column; columns missing from
// a row become empty cells. Children that are nil or not table rows are
// skipped and reported.
func Extract(tableNode *graph.Node, rowChildren []*graph.Node) (Table, []Issue) {
	var table Table
	var issues []Issue
	if tableNode == nil {
		return table, issues
	}

	format := tableNode.Format
	table.HasHeader = format.ColumnHeader
	table.HasRowHeader = format.RowHeader
	for _, id := range format.ColumnOrder {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		col := Column{ID: id}
		if spec, ok := format.ColumnFormat[id]; ok {
			col.Width = spec.Width
			col.Color = spec.Color
		}
		table.Columns = append(table.Columns, col)
	}

	for _, child := range rowChildren {
		if child == nil {
			continue
		}
		if child.Type != RowType {
			issues = append(issues, Issue{NodeID: child.ID, Detail: "unexpected row type " + child.Type})
			continue
		}
		row := Row{ID: child.ID, Cells: make([]Cell, len(table.Columns))}
		for i, col := range table.Columns {
			runs := child.Property(col.ID)
			if len(runs) > 0 {
				row.Cells[i] = Cell{Runs: runs}
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if table.HasHeader && len(table.Rows) > 0 {
		table.Rows[0].Header = true
	}
	return table, issues
}
