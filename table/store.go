package table

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"

	"github.com/logngine/rstree/rstree"
)

// indexFanout is the node capacity of the in-memory lookup tree.
const indexFanout = 16

// SQLiteStore keeps rows durably in a SQLite samples table and answers
// nearest lookups through an R*-tree built lazily from the stored rows. Any
// mutation invalidates the tree; the next lookup rebuilds it. A built tree
// is never mutated afterwards, so concurrent lookups may share it.
type SQLiteStore struct {
	db   *sql.DB
	dims int

	mu          sync.Mutex
	tree        *rstree.Tree[Row] // nil when stale
	tracking    bool
	treeVersion int64
}

// NewSQLiteStore creates a SQLite-backed Store for dims-dimensional
// coordinates. It ensures the samples schema exists in the provided
// database.
func NewSQLiteStore(db *sql.DB, dims int) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("table: db is nil")
	}
	if dims < 1 {
		return nil, fmt.Errorf("table: dims must be at least 1, got %d", dims)
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, dims: dims}, nil
}

// EnableChangeTracking installs the version counter and triggers from
// ChangeTrackingDDL and makes the store rebuild its index whenever the
// counter moves, picking up rows written by other connections or processes.
func (s *SQLiteStore) EnableChangeTracking(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, stmt := range ChangeTrackingDDL() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.tracking = true
	s.tree = nil
	s.mu.Unlock()
	return nil
}

// AddRows inserts rows into the samples table in a single transaction and
// invalidates the in-memory index.
func (s *SQLiteStore) AddRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples(id, coords, payload) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if r.ID == "" {
			return fmt.Errorf("table: Row.ID must be set in AddRows")
		}
		if len(r.Coords) != s.dims {
			return fmt.Errorf("table: row %s has %d coordinates, store indexes %d dimensions", r.ID, len(r.Coords), s.dims)
		}
		blob, err := EncodeCoords(r.Coords)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.ID, blob, r.Payload); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Nearest returns up to k rows closest to coords, nearest first.
func (s *SQLiteStore) Nearest(ctx context.Context, coords []float64, k int) ([]Match, error) {
	return s.NearestWhere(ctx, coords, k, nil)
}

// NearestWhere behaves like Nearest but skips rows rejected by accept
// without consuming the k budget.
func (s *SQLiteStore) NearestWhere(ctx context.Context, coords []float64, k int, accept func(Row) bool) ([]Match, error) {
	if len(coords) != s.dims {
		return nil, fmt.Errorf("table: query has %d coordinates, store indexes %d dimensions", len(coords), s.dims)
	}
	if k <= 0 {
		return nil, nil
	}
	tree, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}

	rows := tree.QueryWithFilter(coords, k, accept)
	out := make([]Match, 0, len(rows))
	for _, r := range rows {
		out = append(out, Match{Row: r, Distance: euclidean(coords, r.Coords)})
	}
	return out, nil
}

// Remove deletes a row by ID and invalidates the in-memory index.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("table: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *SQLiteStore) invalidate() {
	s.mu.Lock()
	s.tree = nil
	s.mu.Unlock()
}

// index returns the current lookup tree, rebuilding it from the samples
// table when stale. A nil tree with nil error means the table is empty.
func (s *SQLiteStore) index(ctx context.Context) (*rstree.Tree[Row], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	version := int64(-1)
	if s.tracking {
		row := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM `+VersionTable)
		if err := row.Scan(&version); err != nil {
			return nil, err
		}
	}
	if s.tree != nil && (!s.tracking || version == s.treeVersion) {
		return s.tree, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, coords, payload FROM samples ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tree *rstree.Tree[Row]
	for rows.Next() {
		var r Row
		var blob []byte
		if err := rows.Scan(&r.ID, &blob, &r.Payload); err != nil {
			return nil, err
		}
		coords, err := DecodeCoords(blob)
		if err != nil {
			return nil, err
		}
		if len(coords) != s.dims {
			return nil, fmt.Errorf("table: stored row %s has %d coordinates, store indexes %d dimensions", r.ID, len(coords), s.dims)
		}
		r.Coords = coords
		if tree == nil {
			tree, err = rstree.NewDefault[Row](s.dims, indexFanout)
			if err != nil {
				return nil, err
			}
		}
		tree.Insert(r.Coords, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.tree = tree
	s.treeVersion = version
	return tree, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
