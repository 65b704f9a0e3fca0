package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/seq"
)

func TestWriteSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.db")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	query := seq.FromString("AKT")
	db := []align.Entry{
		{Name: "exact", Seq: seq.FromString("AKT")},
		{Name: "close", Seq: seq.FromString("AKG")},
	}
	opts := align.DefaultOptions()
	hits, err := align.Search(context.Background(), query, db, opts, 0, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if err := w.WriteSearch(query, opts, len(db), hits); err != nil {
		t.Fatalf("WriteSearch() error = %v", err)
	}
	searchID := w.LastSearchID()
	if searchID == 0 {
		t.Error("LastSearchID() = 0, want assigned id")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Read the file back with a fresh connection.
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var gotQuery, topology, mode string
	var size int
	err = conn.QueryRow(
		"SELECT Query, Topology, Mode, DatabaseSize FROM SearchTable WHERE SearchId = ?", searchID,
	).Scan(&gotQuery, &topology, &mode, &size)
	if err != nil {
		t.Fatalf("reading search row: %v", err)
	}
	if gotQuery != "AKT" || topology != "global" || mode != "mass" || size != 2 {
		t.Errorf("search row = (%q, %q, %q, %d)", gotQuery, topology, mode, size)
	}

	rows, err := conn.Query(
		"SELECT Rank, Name, Score FROM HitTable WHERE SearchId = ? ORDER BY Rank", searchID,
	)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type row struct {
		rank  int
		name  string
		score int
	}
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.rank, &r.name, &r.score); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d hit rows, want 2", len(got))
	}
	if got[0].name != "exact" || got[0].rank != 1 {
		t.Errorf("first hit = %+v", got[0])
	}
	if got[1].name != "close" || got[1].score >= got[0].score {
		t.Errorf("second hit = %+v", got[1])
	}
}

func TestMultipleSearchesSameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.db")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	opts := align.DefaultOptions()
	for _, q := range []string{"AK", "GG"} {
		query := seq.FromString(q)
		hits, err := align.Search(context.Background(), query, []align.Entry{{Name: "n", Seq: seq.FromString("NK")}}, opts, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.WriteSearch(query, opts, 1, hits); err != nil {
			t.Fatalf("WriteSearch(%q) error = %v", q, err)
		}
	}
	if w.LastSearchID() != 2 {
		t.Errorf("LastSearchID() = %d, want 2", w.LastSearchID())
	}
}
