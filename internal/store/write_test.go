package store

import (
	"context"
	"strings"
	"testing"

	"github.com/roach88/tlower/internal/bufferize"
)

func TestNewRunID_IsUUIDv7(t *testing.T) {
	id := NewRunID()
	if len(id) != 36 {
		t.Fatalf("NewRunID() = %q, expected 36-char UUID", id)
	}
	// Version nibble sits at offset 14: xxxxxxxx-xxxx-7xxx-...
	if id[14] != '7' {
		t.Errorf("NewRunID() = %q, expected version 7", id)
	}
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "example.cue")
	run.Options = bufferize.Options{AllowReturnAllocs: true, CreateDeallocs: true}
	run.Copies = 2

	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if got != run {
		t.Errorf("ReadRun() = %+v, expected %+v", got, run)
	}
}

func TestWriteRun_DefaultsStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "example.cue")
	run.Status = ""
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if got.Status != StatusOK {
		t.Errorf("Status = %q, expected %q", got.Status, StatusOK)
	}
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "first.cue")
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}

	// Second write with same id is silently ignored.
	dup := run
	dup.ModuleName = "second.cue"
	if err := s.WriteRun(ctx, dup); err != nil {
		t.Fatalf("duplicate WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if got.ModuleName != "first.cue" {
		t.Errorf("ModuleName = %q, expected first write to win", got.ModuleName)
	}
}

func TestWriteRun_RecordsFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "bad.cue")
	run.Status = StatusFailed
	run.Error = "analysis failed: value does not dominate use"
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("Status = %q, expected %q", got.Status, StatusFailed)
	}
	if !strings.Contains(got.Error, "does not dominate") {
		t.Errorf("Error = %q, expected failure message", got.Error)
	}
}

func TestWriteVerdicts_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "example.cue")
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	verdicts := []bufferize.Verdict{
		{Func: "main", Op: "tensor.insert", Position: 1, Operand: 0, Value: "t0", OutOfPlace: true},
		{Func: "main", Op: "tensor.insert", Position: 2, Operand: 0, Value: "t0", OutOfPlace: false},
	}
	if err := s.WriteVerdicts(ctx, run.ID, verdicts); err != nil {
		t.Fatalf("WriteVerdicts() failed: %v", err)
	}

	got, err := s.ReadVerdicts(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadVerdicts() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadVerdicts() returned %d verdicts, expected 2", len(got))
	}
	for i := range verdicts {
		if got[i] != verdicts[i] {
			t.Errorf("verdict %d = %+v, expected %+v", i, got[i], verdicts[i])
		}
	}
}

func TestWriteVerdicts_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "example.cue")
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	verdicts := []bufferize.Verdict{
		{Func: "main", Op: "tensor.insert", Position: 1, Operand: 0, Value: "t0", OutOfPlace: true},
	}
	for i := 0; i < 2; i++ {
		if err := s.WriteVerdicts(ctx, run.ID, verdicts); err != nil {
			t.Fatalf("WriteVerdicts() iteration %d failed: %v", i, err)
		}
	}

	got, err := s.ReadVerdicts(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadVerdicts() failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ReadVerdicts() returned %d verdicts, expected 1", len(got))
	}
}

func TestWriteVerdicts_RequiresRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	verdicts := []bufferize.Verdict{
		{Func: "main", Op: "tensor.insert", Position: 1, Operand: 0, Value: "t0", OutOfPlace: true},
	}
	err := s.WriteVerdicts(ctx, "no-such-run", verdicts)
	if err == nil {
		t.Error("expected foreign key error for missing run, got nil")
	}
}

func TestWriteCopies_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(NewRunID(), "example.cue")
	run.Copies = 1
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	copies := []CopyRecord{
		{FuncName: "main", Source: "t0", Result: "t0_copy0"},
	}
	if err := s.WriteCopies(ctx, run.ID, copies); err != nil {
		t.Fatalf("WriteCopies() failed: %v", err)
	}

	got, err := s.ReadCopies(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadCopies() failed: %v", err)
	}
	if len(got) != 1 || got[0] != copies[0] {
		t.Errorf("ReadCopies() = %+v, expected %+v", got, copies)
	}
}
