// Package capturedb maintains a sqlite catalog of completed capture
// sessions: where each capture file lives, what it contains, and when it was
// taken. The catalog is bookkeeping only; capture files themselves remain
// the source of truth for replay.
package capturedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/plateworks/wiretap/internal/capture"
)

// DB wraps the catalog database connection.
type DB struct {
	*sql.DB
}

// Record is one catalogued capture session.
type Record struct {
	ID        string
	Path      string
	Version   string
	Encoding  string
	Entries   int
	Devices   int
	Note      string
	CreatedAt time.Time
}

// Open opens (creating if necessary) the catalog at path and applies any
// pending schema migrations.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	db := &DB{conn}
	if err := db.MigrateUp(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// NewRecord builds a catalog record for a loaded capture file, assigning it
// a fresh id and counting its entries and distinct devices.
func NewRecord(path string, f *capture.File, note string) Record {
	devices := make(map[string]struct{})
	for _, e := range f.Commands {
		devices[e.DeviceID] = struct{}{}
	}
	return Record{
		ID:        uuid.NewString(),
		Path:      path,
		Version:   f.Version,
		Encoding:  f.Encoding,
		Entries:   len(f.Commands),
		Devices:   len(devices),
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
}

// Register inserts a capture record into the catalog.
func (db *DB) Register(r Record) error {
	_, err := db.Exec(`
		INSERT INTO captures (id, path, version, encoding, entries, devices, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Path, r.Version, r.Encoding, r.Entries, r.Devices, r.Note,
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to register capture %s: %w", r.Path, err)
	}
	return nil
}

// List returns all catalogued captures, newest first.
func (db *DB) List() ([]Record, error) {
	rows, err := db.Query(`
		SELECT id, path, version, encoding, entries, devices, note, created_at
		FROM captures ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the catalogued capture with the given id.
func (db *DB) Get(id string) (Record, error) {
	row := db.QueryRow(`
		SELECT id, path, version, encoding, entries, devices, note, created_at
		FROM captures WHERE id = ?`, id)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var r Record
	var created string
	if err := row.Scan(&r.ID, &r.Path, &r.Version, &r.Encoding, &r.Entries, &r.Devices, &r.Note, &created); err != nil {
		return Record{}, fmt.Errorf("failed to scan capture record: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return r, nil
}
