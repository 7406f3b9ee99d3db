package main

import (
	"context"
	"fmt"
	"log/slog"

	pgrepo "github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/sqlite"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/server"
)

// backend は設定されたストレージドライバーから組み立てた永続化部品です。
type backend struct {
	employees employee.Store
	ids       employee.IDAllocator
	tx        employee.TransactionManager
	ready     server.ReadinessCheck
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database, pg.WithQueryLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return &backend{
			employees: pgrepo.NewEmployeeRepository(pool),
			ids:       pgrepo.NewEmployeeIDSequence(pool),
			tx:        pg.NewTransactionManager(pool),
			ready:     pool.Ping,
			close:     pool.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := sqliterepo.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare sqlite schema: %w", err)
		}
		return &backend{
			employees: sqliterepo.NewEmployeeRepository(db),
			ids:       sqliterepo.NewEmployeeIDCounter(db),
			tx:        sqlitedb.NewTransactionManager(db),
			ready:     db.PingContext,
			close:     func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("storage driver %q is not supported", cfg.Storage.Driver)
	}
}
