package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// timeLayout is a fixed-width RFC3339 encoding. created_at is TEXT and
// the recent listing orders by it lexicographically, so the fractional
// second must never be trimmed: "10:00:00.5Z" would sort after
// "10:00:00.52Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists reservations and orders in SQLite. A successful insert
// is durably visible to subsequent reads on the same handle; the
// orchestrator uses the returned id immediately to compose a spoken
// confirmation.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if necessary) the database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Concurrent turns share this handle; every write is a single-row
	// insert serialized by SQLite itself.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	var current int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		name TEXT,
		phone TEXT,
		date TEXT,
		time TEXT,
		party_size INTEGER,
		notes TEXT,
		created_at TEXT
	);
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		name TEXT,
		phone TEXT,
		items TEXT,
		pickup_time TEXT,
		total REAL,
		created_at TEXT
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertReservation writes one row and returns the generated id. The id
// and created_at are assigned here, never by the caller.
func (s *Store) InsertReservation(ctx context.Context, r Reservation) (string, error) {
	id := uuid.New().String()
	createdAt := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (id,name,phone,date,time,party_size,notes,created_at) VALUES (?,?,?,?,?,?,?,?)`,
		id, r.Name, r.Phone, r.Date, r.Time, r.PartySize, r.Notes, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert reservation: %w", err)
	}
	return id, nil
}

// InsertOrder writes one row and returns the generated id.
func (s *Store) InsertOrder(ctx context.Context, o Order) (string, error) {
	id := uuid.New().String()
	createdAt := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id,name,phone,items,pickup_time,total,created_at) VALUES (?,?,?,?,?,?,?)`,
		id, o.Name, o.Phone, o.Items, o.PickupTime, o.Total, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// ListRecentReservations returns up to limit reservations, newest first.
func (s *Store) ListRecentReservations(ctx context.Context, limit int) ([]Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,phone,date,time,party_size,notes,created_at FROM reservations ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Reservation
	for rows.Next() {
		var r Reservation
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &r.Phone, &r.Date, &r.Time, &r.PartySize, &r.Notes, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ErrAmbiguousRef is returned when an order reference prefix matches
// more than one order.
var ErrAmbiguousRef = errors.New("order reference matches more than one order")

// GetOrder resolves a full order id or an id prefix, such as the
// 8-character reference spoken to the caller. Returns nil when nothing
// matches and ErrAmbiguousRef when the prefix is not unique.
func (s *Store) GetOrder(ctx context.Context, ref string) (*Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,phone,items,pickup_time,total,created_at FROM orders WHERE id LIKE ? || '%' LIMIT 2`, ref,
	)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Order
	for rows.Next() {
		var o Order
		var created string
		if err := rows.Scan(&o.ID, &o.Name, &o.Phone, &o.Items, &o.PickupTime, &o.Total, &created); err != nil {
			return nil, err
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		matches = append(matches, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguousRef
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
