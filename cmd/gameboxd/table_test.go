package main

import (
	"strings"
	"testing"
)

func TestCatalogTableRendersColumns(t *testing.T) {
	tbl := newCatalogTable(numCol("ID"), textCol("Game"), textCol("Comment"))
	tbl.addRow("1", "celeste", "tight platforming")
	tbl.addRow("2", "hades")

	out := tbl.render()
	for _, want := range []string{"ID", "Game", "Comment", "celeste", "hades"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table output:\n%s", want, out)
		}
	}
}

func TestCatalogTableWithoutColumns(t *testing.T) {
	if out := newCatalogTable().render(); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
