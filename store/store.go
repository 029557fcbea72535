// Package store archives generation runs in SQLite so a planet can be
// reproduced and its determinism checked later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	_ "modernc.org/sqlite"

	"tectonicfield/core"
	"tectonicfield/generator"
	"tectonicfield/simulation"
)

// RunRecord is one archived generation run
type RunRecord struct {
	RunID        string
	Seed         int32
	Params       core.ParameterSet
	Archetype    string
	HasTectonics bool
	PlateCount   int
	Digest       string
	CreatedAt    time.Time
}

// Store is a SQLite run archive
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (and if needed creates) the archive at path
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, log: logger}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			seed          INTEGER NOT NULL,
			params        TEXT NOT NULL,
			archetype     TEXT NOT NULL,
			has_tectonics INTEGER NOT NULL,
			plate_count   INTEGER NOT NULL,
			digest        TEXT NOT NULL,
			created_at    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS plates (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			id     INTEGER NOT NULL,
			u      REAL NOT NULL,
			v      REAL NOT NULL,
			cx     REAL NOT NULL,
			cy     REAL NOT NULL,
			cz     REAL NOT NULL,
			crust  INTEGER NOT NULL,
			mx     REAL NOT NULL,
			my     REAL NOT NULL,
			mz     REAL NOT NULL,
			speed  REAL NOT NULL,
			PRIMARY KEY (run_id, id)
		);
	`)
	return err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun archives a bundle's parameters, profile, plates and digest
func (s *Store) SaveRun(ctx context.Context, b *generator.FieldBundle) error {
	if b.Released() {
		return generator.ErrReleased
	}
	params, err := json.Marshal(b.Params)
	if err != nil {
		return err
	}
	plates := b.Plates()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, seed, params, archetype, has_tectonics, plate_count, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.RunID.String(), b.Seed, string(params), b.Profile.Archetype.String(),
		b.Profile.HasTectonics, plates.Len(), b.Digest(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert run %s: %w", b.RunID, err)
	}

	if plates != nil {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO plates (run_id, id, u, v, cx, cy, cz, crust, mx, my, mz, speed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range plates.Plates {
			_, err := stmt.ExecContext(ctx, b.RunID.String(), p.ID, p.U, p.V,
				p.Center[0], p.Center[1], p.Center[2], int(p.Crust),
				p.Movement[0], p.Movement[1], p.Movement[2], p.Speed)
			if err != nil {
				return fmt.Errorf("insert plate %d of run %s: %w", p.ID, b.RunID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("run archived", "run", b.RunID.String(), "plates", plates.Len())
	return nil
}

// GetRun returns the archived run with the given id
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, seed, params, archetype, has_tectonics, plate_count, digest, created_at
		FROM runs WHERE run_id = ?
	`, runID)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}
	return rec, true, nil
}

// ListRuns returns the most recent runs first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seed, params, archetype, has_tectonics, plate_count, digest, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LoadPlates returns the archived plate set of a run in id order
func (s *Store) LoadPlates(ctx context.Context, runID string) (*simulation.PlateSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, u, v, cx, cy, cz, crust, mx, my, mz, speed
		FROM plates WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := &simulation.PlateSet{}
	for rows.Next() {
		var (
			p     simulation.Plate
			crust int
			c, m  mgl64.Vec3
		)
		if err := rows.Scan(&p.ID, &p.U, &p.V, &c[0], &c[1], &c[2], &crust, &m[0], &m[1], &m[2], &p.Speed); err != nil {
			return nil, err
		}
		p.Center, p.Movement, p.Crust = c, m, simulation.CrustType(crust)
		ps.Plates = append(ps.Plates, p)
	}
	return ps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (RunRecord, error) {
	var (
		rec     RunRecord
		params  string
		created int64
	)
	if err := r.Scan(&rec.RunID, &rec.Seed, &params, &rec.Archetype, &rec.HasTectonics,
		&rec.PlateCount, &rec.Digest, &created); err != nil {
		return RunRecord{}, err
	}
	if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
		return RunRecord{}, fmt.Errorf("decode params of run %s: %w", rec.RunID, err)
	}
	rec.CreatedAt = time.Unix(created, 0)
	return rec, nil
}
