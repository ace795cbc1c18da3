package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/tlower/internal/bufferize"
)

// ErrRunNotFound is returned when a run id does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run record with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, module_name, options, status, error, copies
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by id. Run ids are UUIDv7, so this is
// creation order. Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, module_name, options, status, error, copies
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadVerdicts returns the verdicts for a run in seq order.
// Returns an empty slice (not nil) if the run has no verdicts.
func (s *Store) ReadVerdicts(ctx context.Context, runID string) ([]bufferize.Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT func_name, op_name, position, operand_index, value, out_of_place
		FROM verdicts
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read verdicts: %w", err)
	}
	defer rows.Close()

	verdicts := []bufferize.Verdict{}
	for rows.Next() {
		var v bufferize.Verdict
		if err := rows.Scan(&v.Func, &v.Op, &v.Position, &v.Operand, &v.Value, &v.OutOfPlace); err != nil {
			return nil, fmt.Errorf("read verdicts: %w", err)
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read verdicts: %w", err)
	}
	return verdicts, nil
}

// ReadCopies returns the copy records for a run in seq order.
// Returns an empty slice (not nil) if the run inserted no copies.
func (s *Store) ReadCopies(ctx context.Context, runID string) ([]CopyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT func_name, source, result
		FROM copies
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read copies: %w", err)
	}
	defer rows.Close()

	copies := []CopyRecord{}
	for rows.Next() {
		var c CopyRecord
		if err := rows.Scan(&c.FuncName, &c.Source, &c.Result); err != nil {
			return nil, fmt.Errorf("read copies: %w", err)
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read copies: %w", err)
	}
	return copies, nil
}

// scanRun decodes one runs row. Works for both QueryRow and Rows.
func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var run RunRecord
	var optsJSON string
	if err := row.Scan(&run.ID, &run.ModuleName, &optsJSON, &run.Status, &run.Error, &run.Copies); err != nil {
		return RunRecord{}, err
	}
	if err := json.Unmarshal([]byte(optsJSON), &run.Options); err != nil {
		return RunRecord{}, fmt.Errorf("decode options: %w", err)
	}
	return run, nil
}
