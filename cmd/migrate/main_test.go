package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	calls      []string
	steps      int
	upErr      error
	version    uint
	dirty      bool
	versionErr error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.upErr
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return nil
}

func (f *fakeMigrator) Drop() error {
	f.calls = append(f.calls, "drop")
	return nil
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, f.dirty, f.versionErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRunMigration_UpIgnoresNoChange(t *testing.T) {
	t.Parallel()

	m := &fakeMigrator{upErr: migrate.ErrNoChange}
	if err := runMigration(discardLogger(), m, "up", 0); err != nil {
		t.Fatalf("expected no change to be ignored, got %v", err)
	}

	m.upErr = errors.New("boom")
	if err := runMigration(discardLogger(), m, "up", 0); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestRunMigration_Steps(t *testing.T) {
	t.Parallel()

	m := &fakeMigrator{}
	if err := runMigration(discardLogger(), m, "steps", 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}
	if err := runMigration(discardLogger(), m, "steps", -1); err != nil {
		t.Fatalf("steps returned error: %v", err)
	}
	if m.steps != -1 {
		t.Fatalf("expected -1 steps, got %d", m.steps)
	}
}

func TestRunMigration_Version(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if err := runMigration(logger, &fakeMigrator{versionErr: migrate.ErrNilVersion}, "version", 0); err != nil {
		t.Fatalf("expected nil version to be reported, got %v", err)
	}
	if err := runMigration(logger, &fakeMigrator{version: 1}, "version", 0); err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "version=1") {
		t.Fatalf("expected version in log, got %s", buf.String())
	}
}

func TestRunMigration_Unsupported(t *testing.T) {
	t.Parallel()

	if err := runMigration(discardLogger(), &fakeMigrator{}, "sideways", 0); err == nil {
		t.Fatalf("expected unsupported action error")
	}
}
