//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"latticegpm/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveMap(ctx context.Context, record model.MapRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeMap(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO maps (id, payload)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload
	`, record.ID, payload)
	return err
}

func (s *SQLiteStore) GetMap(ctx context.Context, id string) (model.MapRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.MapRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM maps WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MapRecord{}, false, nil
		}
		return model.MapRecord{}, false, err
	}

	record, err := DecodeMap(payload)
	if err != nil {
		return model.MapRecord{}, false, fmt.Errorf("decode map %s: %w", id, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, record model.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at_utc, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			payload = excluded.payload
	`, record.ID, record.CreatedAtUTC, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}

	record, err := DecodeRun(payload)
	if err != nil {
		return model.RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	query := `SELECT payload FROM runs ORDER BY created_at_utc DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		record, err := DecodeRun(payload)
		if err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveFold(ctx context.Context, record model.FoldRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeFold(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO folds (sequence, temp_key, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(sequence, temp_key) DO UPDATE SET
			payload = excluded.payload
	`, record.Sequence, record.TempKey, payload)
	return err
}

func (s *SQLiteStore) GetFold(ctx context.Context, sequence, tempKey string) (model.FoldRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.FoldRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM folds WHERE sequence = ? AND temp_key = ?`,
		sequence, tempKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FoldRecord{}, false, nil
		}
		return model.FoldRecord{}, false, err
	}

	record, err := DecodeFold(payload)
	if err != nil {
		return model.FoldRecord{}, false, fmt.Errorf("decode fold %s: %w", sequence, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) SaveConformations(ctx context.Context, set model.ConformationSet) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeConformations(set)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO conformations (length, payload)
		VALUES (?, ?)
		ON CONFLICT(length) DO UPDATE SET
			payload = excluded.payload
	`, set.Length, payload)
	return err
}

func (s *SQLiteStore) GetConformations(ctx context.Context, length int) (model.ConformationSet, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ConformationSet{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM conformations WHERE length = ?`, length).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ConformationSet{}, false, nil
		}
		return model.ConformationSet{}, false, err
	}

	set, err := DecodeConformations(payload)
	if err != nil {
		return model.ConformationSet{}, false, fmt.Errorf("decode conformations for length %d: %w", length, err)
	}
	return set, true, nil
}

func (s *SQLiteStore) SaveEnergies(ctx context.Context, record model.EnergyTableRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeEnergies(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO energies (name, payload)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload
	`, record.Name, payload)
	return err
}

func (s *SQLiteStore) GetEnergies(ctx context.Context, name string) (model.EnergyTableRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.EnergyTableRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM energies WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EnergyTableRecord{}, false, nil
		}
		return model.EnergyTableRecord{}, false, err
	}

	record, err := DecodeEnergies(payload)
	if err != nil {
		return model.EnergyTableRecord{}, false, fmt.Errorf("decode energies %s: %w", name, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS folds (
			sequence TEXT NOT NULL,
			temp_key TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (sequence, temp_key)
		);
		CREATE TABLE IF NOT EXISTS conformations (
			length INTEGER PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS energies (
			name TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

// DefaultStoreKind is sqlite when the backend is compiled in.
func DefaultStoreKind() string {
	return "sqlite"
}
