package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	sqlitedb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/sqlite"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sqlitedb.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(context.Background(), db))
	return db
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	t.Parallel()

	db := openStore(t, filepath.Join(t.TempDir(), "ems.db"))
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	repo := NewEmployeeRepository(db)
	created := time.Date(2025, 5, 1, 8, 30, 0, 123456000, time.UTC)

	_, err := repo.Get(ctx, 1)
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	prev, err := repo.Insert(ctx, &employee.Employee{
		ID:         1,
		Name:       "A",
		Email:      "a@x",
		EmployerID: "P1",
		CreatedAt:  created,
		UpdatedAt:  &created,
	})
	require.NoError(t, err)
	require.Nil(t, prev)

	rating := employee.RatingSatisfactory
	later := created.Add(time.Hour)
	prev, err = repo.Insert(ctx, &employee.Employee{
		ID:           1,
		Name:         "A",
		Email:        "a@x",
		EmployerID:   "P2",
		Rating:       &rating,
		Transferable: true,
		CreatedAt:    created,
		UpdatedAt:    &later,
	})
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.Equal(t, "P1", prev.EmployerID)
	require.Nil(t, prev.Rating)

	found, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "P2", found.EmployerID)
	require.True(t, found.Transferable)
	require.NotNil(t, found.Rating)
	require.Equal(t, employee.RatingSatisfactory, *found.Rating)
	require.True(t, found.CreatedAt.Equal(created))
	require.NotNil(t, found.UpdatedAt)
	require.True(t, found.UpdatedAt.Equal(later))

	removed, err := repo.Remove(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), removed.ID)

	_, err = repo.Remove(ctx, 1)
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ListOrderedByID(t *testing.T) {
	t.Parallel()

	db := openStore(t, filepath.Join(t.TempDir(), "ems.db"))
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	repo := NewEmployeeRepository(db)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	for _, id := range []uint64{3, 1, 2} {
		_, err := repo.Insert(ctx, &employee.Employee{ID: id, Name: "N", Email: "n@x", EmployerID: "P1", CreatedAt: time.Now().UTC()})
		require.NoError(t, err)
	}

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, emp := range list {
		require.Equal(t, uint64(i+1), emp.ID)
		require.Nil(t, emp.UpdatedAt)
	}
}

func TestEmployeeRepository_RejectsInvalidRating(t *testing.T) {
	t.Parallel()

	db := openStore(t, filepath.Join(t.TempDir(), "ems.db"))
	t.Cleanup(func() { _ = db.Close() })

	bad := employee.Rating("stellar")
	_, err := NewEmployeeRepository(db).Insert(context.Background(), &employee.Employee{
		ID: 1, Name: "A", Email: "a@x", EmployerID: "P1", Rating: &bad, CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestEmployeeIDCounter_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ems.db")
	ctx := context.Background()

	db := openStore(t, path)
	counter := NewEmployeeIDCounter(db)
	for want := uint64(1); want <= 3; want++ {
		got, err := counter.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := NewEmployeeRepository(db).Insert(ctx, &employee.Employee{ID: 3, Name: "A", Email: "a@x", EmployerID: "P1", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened := openStore(t, path)
	t.Cleanup(func() { _ = reopened.Close() })

	found, err := NewEmployeeRepository(reopened).Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "P1", found.EmployerID)

	next, err := NewEmployeeIDCounter(reopened).Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), next)
}

func TestEmployeeRepository_WithService(t *testing.T) {
	t.Parallel()

	db := openStore(t, filepath.Join(t.TempDir(), "ems.db"))
	t.Cleanup(func() { _ = db.Close() })

	svc := employee.NewService(
		NewEmployeeRepository(db),
		NewEmployeeIDCounter(db),
		nil,
		sqlitedb.NewTransactionManager(db),
	)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Caller: "P1", Name: "A", Email: "a@x"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), created.ID)

	_, err = svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Caller: "P2", ID: created.ID})
	require.ErrorIs(t, err, employee.ErrForbidden)

	found, err := svc.GetEmployee(ctx, employee.GetEmployeeInput{Caller: "P1", ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, created.Name, found.Name)
	require.True(t, found.CreatedAt.Equal(created.CreatedAt))

	_, err = svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Caller: "P1", ID: created.ID})
	require.NoError(t, err)

	again, err := svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Caller: "P1", Name: "B", Email: "b@x"})
	require.NoError(t, err)
	require.Equal(t, uint64(2), again.ID)
}
