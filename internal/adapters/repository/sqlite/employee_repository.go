package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	sqlitedb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/sqlite"
)

const employeeColumns = `id, name, email, employer_id, rating, transferable, created_at, updated_at`

// EmployeeRepository は SQLite ファイルを利用した社員永続マップの実装です。
// 時刻は UTC の Unix ナノ秒で保存します。
type EmployeeRepository struct {
	db sqlitedb.Queryer
}

var _ employee.Store = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db sqlitedb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Get は ID で社員を取得します。
func (r *EmployeeRepository) Get(ctx context.Context, id uint64) (*employee.Employee, error) {
	if id > math.MaxInt64 {
		return nil, employee.ErrEmployeeNotFound
	}

	exec := sqlitedb.QueryerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, int64(id))

	found, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Insert は社員を ID をキーに保存し、直前の値を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e.ID > math.MaxInt64 {
		return nil, fmt.Errorf("sqlite: employee id %d out of range", e.ID)
	}

	previous, err := r.Get(ctx, e.ID)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, err
	}

	exec := sqlitedb.QueryerFromContext(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `
        INSERT INTO employees (`+employeeColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE
           SET name = excluded.name,
               email = excluded.email,
               employer_id = excluded.employer_id,
               rating = excluded.rating,
               transferable = excluded.transferable,
               updated_at = excluded.updated_at
    `,
		int64(e.ID),
		e.Name,
		e.Email,
		e.EmployerID,
		nullableRating(e.Rating),
		e.Transferable,
		e.CreatedAt.UTC().UnixNano(),
		nullableUnixNano(e.UpdatedAt),
	); err != nil {
		return nil, fmt.Errorf("sqlite: upsert employee %d: %w", e.ID, err)
	}

	return previous, nil
}

// Remove は社員を削除し、削除した値を返します。
func (r *EmployeeRepository) Remove(ctx context.Context, id uint64) (*employee.Employee, error) {
	if id > math.MaxInt64 {
		return nil, employee.ErrEmployeeNotFound
	}

	exec := sqlitedb.QueryerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, `DELETE FROM employees WHERE id = ? RETURNING `+employeeColumns, int64(id))

	removed, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// List は全社員を ID 昇順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := sqlitedb.QueryerFromContext(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []*employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list employees: %w", err)
	}

	return employees, nil
}

// EmployeeIDCounter は単一行のカウンタテーブルによる ID 払い出しの実装です。
type EmployeeIDCounter struct {
	db sqlitedb.Queryer
}

var _ employee.IDAllocator = (*EmployeeIDCounter)(nil)

// NewEmployeeIDCounter は EmployeeIDCounter を生成します。
func NewEmployeeIDCounter(db sqlitedb.Queryer) *EmployeeIDCounter {
	return &EmployeeIDCounter{db: db}
}

// Next はカウンタを 1 進め、その値を返します。
func (c *EmployeeIDCounter) Next(ctx context.Context) (uint64, error) {
	exec := sqlitedb.QueryerFromContext(ctx, c.db)

	var next int64
	err := exec.QueryRowContext(ctx, `UPDATE employee_id_counter SET value = value + 1 WHERE singleton = 1 RETURNING value`).Scan(&next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("sqlite: employee id counter is not initialized")
		}
		return 0, fmt.Errorf("sqlite: next employee id: %w", err)
	}
	return uint64(next), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	var (
		id           int64
		name         string
		email        string
		employerID   string
		rating       sql.NullString
		transferable bool
		createdAt    int64
		updatedAt    sql.NullInt64
	)

	if err := row.Scan(&id, &name, &email, &employerID, &rating, &transferable, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("sqlite: scan employee: %w", err)
	}

	emp := &employee.Employee{
		ID:           uint64(id),
		Name:         name,
		Email:        email,
		EmployerID:   employerID,
		Transferable: transferable,
		CreatedAt:    time.Unix(0, createdAt).UTC(),
	}

	if rating.Valid {
		r := employee.Rating(rating.String)
		emp.Rating = &r
	}

	if updatedAt.Valid {
		t := time.Unix(0, updatedAt.Int64).UTC()
		emp.UpdatedAt = &t
	}

	return emp, nil
}

func nullableRating(value *employee.Rating) any {
	if value == nil {
		return nil
	}
	return string(*value)
}

func nullableUnixNano(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().UnixNano()
}
