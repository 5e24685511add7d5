// Package registry persists executed circuits in Postgres: a named catalog
// with run counters, usable both for provenance and for sharing
// circuits between clients.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"qubitengine/api"
)

// Record is one row of the circuits table.
type Record struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NumQubits     int32     `json:"num_qubits"`
	NumOperations int32     `json:"num_operations"`
	CircuitJSON   string    `json:"circuit_json"`
	RunCount      int32     `json:"run_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store is a Postgres-backed circuit registry.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping registry: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS circuits (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		num_qubits INTEGER NOT NULL,
		num_operations INTEGER NOT NULL,
		circuit_json TEXT NOT NULL,
		run_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS circuits_name_idx ON circuits (name);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save stores a circuit under a name and returns its generated id.
func (s *Store) Save(ctx context.Context, name string, req *api.CircuitRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("serialize circuit: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO circuits (id, name, num_qubits, num_operations, circuit_json)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, name, req.NumQubits, len(req.Operations), string(payload))
	if err != nil {
		return "", fmt.Errorf("save circuit: %w", err)
	}
	return id, nil
}

// Get loads a circuit row and its deserialized request.
func (s *Store) Get(ctx context.Context, id string) (*Record, *api.CircuitRequest, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, num_qubits, num_operations, circuit_json, run_count, created_at, updated_at
		 FROM circuits WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Name, &rec.NumQubits, &rec.NumOperations, &rec.CircuitJSON,
			&rec.RunCount, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("load circuit %s: %w", id, err)
	}
	var req api.CircuitRequest
	if err := json.Unmarshal([]byte(rec.CircuitJSON), &req); err != nil {
		return nil, nil, fmt.Errorf("deserialize circuit %s: %w", id, err)
	}
	return &rec, &req, nil
}

// List returns the most recently updated circuits, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, num_qubits, num_operations, circuit_json, run_count, created_at, updated_at
		 FROM circuits ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list circuits: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.NumQubits, &rec.NumOperations,
			&rec.CircuitJSON, &rec.RunCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordRun saves an executed request under a synthetic name and bumps
// nothing else; the daemon calls it best-effort after each RunCircuit.
func (s *Store) RecordRun(ctx context.Context, req *api.CircuitRequest) (string, error) {
	name := fmt.Sprintf("run-%dq-%dops", req.NumQubits, len(req.Operations))
	return s.Save(ctx, name, req)
}

// IncrementRunCount bumps a stored circuit's execution counter.
func (s *Store) IncrementRunCount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE circuits SET run_count = run_count + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("bump run count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("circuit %s not found", id)
	}
	return nil
}

// Delete removes a stored circuit.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM circuits WHERE id = $1`, id)
	return err
}
