package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"id, revenue ,won,channel",
		"1,100,yes,A",
		"2,0,no,B",
		"3,50,TRUE,A",
	}, "\n")
	tbl, err := ReadCSV(writeTemp(t, "leads.csv", csv), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	wantCols := []string{"id", "revenue", "won", "channel"}
	if len(tbl.Columns) != len(wantCols) {
		t.Fatalf("columns = %#v, want %#v", tbl.Columns, wantCols)
	}
	for i, c := range wantCols {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d = %q, want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.NumRows())
	}
	if got := tbl.Cell(2, 2); got != "TRUE" {
		t.Fatalf("cell(2,2) = %q, want TRUE", got)
	}
	col := tbl.Column("revenue")
	if len(col) != 3 || col[0] != "100" || col[2] != "50" {
		t.Fatalf("revenue column = %#v", col)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	csv := "id,revenue,won\n1,100\n2,0,no,extra\n"
	tbl, err := ReadCSV(writeTemp(t, "ragged.csv", csv), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	// short row padded, long row preserved
	if got := tbl.Cell(0, 2); got != "" {
		t.Fatalf("padded cell = %q, want empty", got)
	}
	if got := tbl.Cell(1, 2); got != "no" {
		t.Fatalf("cell(1,2) = %q, want no", got)
	}
}

func TestReadCSVTabDelimiterSniff(t *testing.T) {
	tsv := "id\trevenue\n1\t10\n"
	tbl, err := ReadCSV(writeTemp(t, "leads.tsv", tsv), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Columns[1] != "revenue" {
		t.Fatalf("columns = %#v", tbl.Columns)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	tbl, err := ReadCSV(writeTemp(t, "empty.csv", ""), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Columns) != 0 || tbl.NumRows() != 0 {
		t.Fatalf("want empty table, got %#v", tbl)
	}
}

func TestColumnIndexMissing(t *testing.T) {
	tbl := &Table{Columns: []string{"id"}}
	if idx := tbl.ColumnIndex("revenue"); idx != -1 {
		t.Fatalf("index = %d, want -1", idx)
	}
	if col := tbl.Column("revenue"); col != nil {
		t.Fatalf("column = %#v, want nil", col)
	}
}
