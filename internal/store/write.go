package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/tlower/internal/bufferize"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunRecord describes one analysis or rewrite run over a module.
type RunRecord struct {
	ID         string            `json:"id"`
	ModuleName string            `json:"module_name"`
	Options    bufferize.Options `json:"options"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Copies     int               `json:"copies"`
}

// CopyRecord describes one copy the rewriter inserted during a run.
type CopyRecord struct {
	FuncName string `json:"func_name"`
	Source   string `json:"source"`
	Result   string `json:"result"`
}

// NewRunID returns a fresh UUIDv7 run identifier. UUIDv7 sorts by
// creation time, so runs ordered by id are ordered by time.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Options are serialized to JSON.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	optsJSON, err := json.Marshal(run.Options)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	status := run.Status
	if status == "" {
		status = StatusOK
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, module_name, options, status, error, copies)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.ModuleName,
		string(optsJSON),
		status,
		run.Error,
		run.Copies,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// WriteVerdicts inserts the analysis verdicts for a run in one transaction.
// The slice index becomes the seq column, so re-writing the same run is
// idempotent via ON CONFLICT DO NOTHING.
func (s *Store) WriteVerdicts(ctx context.Context, runID string, verdicts []bufferize.Verdict) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write verdicts: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verdicts
		(run_id, seq, func_name, op_name, position, operand_index, value, out_of_place)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write verdicts: %w", err)
	}
	defer stmt.Close()

	for seq, v := range verdicts {
		if _, err := stmt.ExecContext(ctx,
			runID, seq, v.Func, v.Op, v.Position, v.Operand, v.Value, v.OutOfPlace,
		); err != nil {
			return fmt.Errorf("write verdict %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write verdicts: %w", err)
	}
	return nil
}

// WriteCopies inserts the copy records for a run in one transaction.
func (s *Store) WriteCopies(ctx context.Context, runID string, copies []CopyRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write copies: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO copies (run_id, seq, func_name, source, result)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write copies: %w", err)
	}
	defer stmt.Close()

	for seq, c := range copies {
		if _, err := stmt.ExecContext(ctx,
			runID, seq, c.FuncName, c.Source, c.Result,
		); err != nil {
			return fmt.Errorf("write copy %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write copies: %w", err)
	}
	return nil
}
