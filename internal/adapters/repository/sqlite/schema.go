package sqlite

import (
	"context"
	"fmt"

	sqlitedb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
    id           INTEGER PRIMARY KEY,
    name         TEXT    NOT NULL CHECK (name <> ''),
    email        TEXT    NOT NULL CHECK (email <> ''),
    employer_id  TEXT    NOT NULL CHECK (employer_id <> ''),
    rating       TEXT    NULL CHECK (rating IN ('excellent', 'good', 'average', 'satisfactory', 'poor')),
    transferable INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NULL
);

CREATE TABLE IF NOT EXISTS employee_id_counter (
    singleton INTEGER PRIMARY KEY CHECK (singleton = 1),
    value     INTEGER NOT NULL
);

INSERT INTO employee_id_counter (singleton, value) VALUES (1, 0)
    ON CONFLICT (singleton) DO NOTHING;
`

// EnsureSchema は社員テーブルと ID カウンタを作成します。既に存在する場合は何もしません。
func EnsureSchema(ctx context.Context, db sqlitedb.Queryer) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	return nil
}
