// Package sqlite persists search results to SQLite database files so large
// database searches can be inspected after the run.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/seq"
)

const creationDateFormat = "2006-01-02 15:04:05"

// Writer handles writing ranked search results to a SQLite file. One file
// may hold several searches; each gets its own SearchTable row and its hits
// reference it by SearchId.
type Writer struct {
	db         *sql.DB
	outputPath string
	searchStmt *sql.Stmt
	hitStmt    *sql.Stmt
	searchID   int64
}

// NewWriter creates a new SQLite writer.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema.
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS SearchTable (
		SearchId INTEGER PRIMARY KEY AUTOINCREMENT,
		Query TEXT NOT NULL,
		Topology TEXT NOT NULL,
		Mode TEXT NOT NULL,
		Tolerance TEXT,
		DatabaseSize INTEGER,
		CreationDate TEXT
	);

	CREATE TABLE IF NOT EXISTS HitTable (
		HitId INTEGER PRIMARY KEY AUTOINCREMENT,
		SearchId INTEGER REFERENCES SearchTable(SearchId),
		Rank INTEGER NOT NULL,
		Name TEXT NOT NULL,
		Score INTEGER NOT NULL,
		Identity DOUBLE,
		MassMatched DOUBLE,
		Gaps DOUBLE,
		StartA INTEGER,
		StartB INTEGER,
		Path TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion.
func (w *Writer) prepareStatements() error {
	var err error

	w.searchStmt, err = w.db.Prepare(`
		INSERT INTO SearchTable (Query, Topology, Mode, Tolerance, DatabaseSize, CreationDate)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare search statement: %w", err)
	}

	w.hitStmt, err = w.db.Prepare(`
		INSERT INTO HitTable (SearchId, Rank, Name, Score, Identity, MassMatched, Gaps, StartA, StartB, Path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare hit statement: %w", err)
	}

	return nil
}

// WriteSearch records one search: the query metadata plus its ranked hits,
// in a single transaction.
func (w *Writer) WriteSearch(query *seq.Sequence, opts align.Options, databaseSize int, hits []align.Hit) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Stmt(w.searchStmt).Exec(
		query.String(),
		opts.Topology.String(),
		opts.Mode.String(),
		opts.Scoring.Tolerance.String(),
		databaseSize,
		time.Now().Format(creationDateFormat),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert search: %w", err)
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read search id: %w", err)
	}

	hitStmt := tx.Stmt(w.hitStmt)
	for rank, h := range hits {
		st := h.Alignment.Stats()
		identity, massMatched, gaps := 0.0, 0.0, 0.0
		if st.Length > 0 {
			identity = float64(st.Identical) / float64(st.Length)
			massMatched = float64(st.MassMatched) / float64(st.Length)
			gaps = float64(st.Gaps) / float64(st.Length)
		}
		_, err := hitStmt.Exec(
			searchID,
			rank+1,
			h.Name,
			h.Alignment.Score,
			identity,
			massMatched,
			gaps,
			h.Alignment.StartA,
			h.Alignment.StartB,
			h.Alignment.Path(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert hit %d: %w", rank+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit search: %w", err)
	}
	w.searchID = searchID
	return nil
}

// LastSearchID returns the id of the most recently written search.
func (w *Writer) LastSearchID() int64 {
	return w.searchID
}

// Close releases the prepared statements and closes the database.
func (w *Writer) Close() error {
	if w.searchStmt != nil {
		w.searchStmt.Close()
	}
	if w.hitStmt != nil {
		w.hitStmt.Close()
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
