package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	pgdb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/postgres"
)

const employeeCheckViolationCode = "23514"

const employeeColumns = `id, name, email, employer_id, rating, transferable, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続マップの実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Store = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Get は ID で社員を取得します。
func (r *EmployeeRepository) Get(ctx context.Context, id uint64) (*employee.Employee, error) {
	if id > math.MaxInt64 {
		return nil, employee.ErrEmployeeNotFound
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
    `, int64(id))

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// Insert は社員を ID をキーに保存し、直前の値を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e.ID > math.MaxInt64 {
		return nil, fmt.Errorf("postgres: employee id %d out of range", e.ID)
	}

	previous, err := r.Get(ctx, e.ID)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO employees (`+employeeColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE
           SET name = EXCLUDED.name,
               email = EXCLUDED.email,
               employer_id = EXCLUDED.employer_id,
               rating = EXCLUDED.rating,
               transferable = EXCLUDED.transferable,
               updated_at = EXCLUDED.updated_at
    `,
		int64(e.ID),
		e.Name,
		e.Email,
		e.EmployerID,
		nullableRating(e.Rating),
		e.Transferable,
		e.CreatedAt,
		nullableTime(e.UpdatedAt),
	); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return previous, nil
}

// Remove は社員を削除し、削除した値を返します。
func (r *EmployeeRepository) Remove(ctx context.Context, id uint64) (*employee.Employee, error) {
	if id > math.MaxInt64 {
		return nil, employee.ErrEmployeeNotFound
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        DELETE FROM employees
         WHERE id = $1
        RETURNING `+employeeColumns+`
    `, int64(id))

	removed, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return removed, nil
}

// List は全社員を ID 昇順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

// EmployeeIDSequence は employee_id_seq を利用した ID 払い出しの実装です。
// シーケンスはロールバックされても値を再利用しません。
type EmployeeIDSequence struct {
	pool pgdb.Queryer
}

var _ employee.IDAllocator = (*EmployeeIDSequence)(nil)

// NewEmployeeIDSequence は EmployeeIDSequence を生成します。
func NewEmployeeIDSequence(pool pgdb.Queryer) *EmployeeIDSequence {
	return &EmployeeIDSequence{pool: pool}
}

// Next は次の社員 ID を払い出します。
func (s *EmployeeIDSequence) Next(ctx context.Context) (uint64, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)

	var next int64
	if err := exec.QueryRow(ctx, `SELECT nextval('employee_id_seq')`).Scan(&next); err != nil {
		return 0, fmt.Errorf("postgres: next employee id: %w", err)
	}
	if next <= 0 {
		return 0, fmt.Errorf("postgres: invalid employee id %d", next)
	}
	return uint64(next), nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id           int64
		name         string
		email        string
		employerID   string
		rating       sql.NullString
		transferable bool
		createdAt    time.Time
		updatedAt    sql.NullTime
	)

	if err := row.Scan(
		&id,
		&name,
		&email,
		&employerID,
		&rating,
		&transferable,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp := &employee.Employee{
		ID:           uint64(id),
		Name:         name,
		Email:        email,
		EmployerID:   employerID,
		Transferable: transferable,
		CreatedAt:    createdAt.UTC(),
	}

	if rating.Valid {
		r := employee.Rating(rating.String)
		emp.Rating = &r
	}

	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		emp.UpdatedAt = &t
	}

	return emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == employeeCheckViolationCode {
		return fmt.Errorf("postgres: constraint %s violated: %w", pgErr.ConstraintName, err)
	}

	return err
}

func nullableRating(value *employee.Rating) any {
	if value == nil {
		return nil
	}
	return string(*value)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}
