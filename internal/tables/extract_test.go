package tables_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/tables"
)

func row(id string, cells map[string]string) *graph.Node {
	props := make(map[string][]richtext.Run, len(cells))
	for col, text := range cells {
		props[col] = []richtext.Run{richtext.Plain(text)}
	}
	return &graph.Node{ID: id, Type: tables.RowType, Properties: props, Alive: true}
}

func tableNode(header bool) *graph.Node {
	return &graph.Node{
		ID:   "table",
		Type: "table",
		Format: graph.Format{
			ColumnOrder:  []string{"A", "B", "C"},
			ColumnHeader: header,
			ColumnFormat: map[string]graph.ColumnFormat{
				"B": {Width: 240, Color: "blue"},
			},
		},
		Alive: true,
	}
}

func TestExtractRectangularGridWithHeader(t *testing.T) {
	rows := []*graph.Node{
		row("r0", map[string]string{"A": "Name", "B": "Kind", "C": "Notes"}),
		row("r1", map[string]string{"A": "alpha", "B": "x", "C": "first"}),
		row("r2", map[string]string{"A": "beta", "B": "y"}),
	}

	table, issues := tables.Extract(tableNode(true), rows)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if !reflect.DeepEqual(table.ColumnOrder(), []string{"A", "B", "C"}) {
		t.Fatalf("unexpected column order %v", table.ColumnOrder())
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	for i, r := range table.Rows {
		if len(r.Cells) != 3 {
			t.Fatalf("row %d: expected 3 cells, got %d", i, len(r.Cells))
		}
	}
	if !table.Rows[0].Header || table.Rows[1].Header {
		t.Fatalf("expected only row 0 flagged as header")
	}
	if got := len(table.Body()); got != 2 {
		t.Fatalf("expected 2 body rows, got %d", got)
	}
	if header, ok := table.HeaderRow(); !ok || header.ID != "r0" {
		t.Fatalf("expected r0 as header row")
	}
	if !table.Rows[2].Cells[2].Empty() {
		t.Fatalf("expected missing column C to yield an empty cell")
	}
	if got := richtext.PlainText(table.Rows[2].Cells[0].Runs); got != "beta" {
		t.Fatalf("expected beta, got %q", got)
	}
	if col := table.Columns[1]; col.Width != 240 || col.Color != "blue" {
		t.Fatalf("expected column format for B, got %+v", col)
	}
}

func TestExtractWithoutHeader(t *testing.T) {
	rows := []*graph.Node{row("r0", map[string]string{"A": "1"})}
	table, _ := tables.Extract(tableNode(false), rows)
	if _, ok := table.HeaderRow(); ok {
		t.Fatalf("expected no header row")
	}
	if len(table.Body()) != 1 || table.Rows[0].Header {
		t.Fatalf("expected the only row in the body")
	}
}

func TestExtractSkipsUnexpectedChildren(t *testing.T) {
	stray := &graph.Node{ID: "stray", Type: "text", Alive: true}
	rows := []*graph.Node{stray, nil, row("r0", map[string]string{"A": "1"})}

	table, issues := tables.Extract(tableNode(true), rows)
	if len(issues) != 1 || issues[0].NodeID != "stray" {
		t.Fatalf("expected one issue for the stray child, got %v", issues)
	}
	if len(table.Rows) != 1 || !table.Rows[0].Header {
		t.Fatalf("expected the first real row to become the header, got %+v", table.Rows)
	}
}

func TestExtractNoColumns(t *testing.T) {
	node := &graph.Node{ID: "t", Type: "table", Alive: true}
	table, _ := tables.Extract(node, []*graph.Node{row("r0", map[string]string{"A": "x"})})
	if len(table.Rows) != 1 || len(table.Rows[0].Cells) != 0 {
		t.Fatalf("expected a row with no cells, got %+v", table.Rows)
	}
}
