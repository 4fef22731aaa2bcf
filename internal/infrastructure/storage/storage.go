// Package storage abre la base configurada (PostgreSQL o SQLite) y expone sus repositorios
// detrás de los puertos del dominio, para que los binarios no dependan del driver.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/restock"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ProductStore repositorio de productos con alta (seed).
type ProductStore interface {
	repository.ProductRepository
	Create(ctx context.Context, p *entity.Product) error
}

// SupplierStore repositorio de proveedores con alta (seed).
type SupplierStore interface {
	repository.SupplierRepository
	Create(ctx context.Context, s *entity.Supplier) error
}

// UserStore repositorio de usuarios con alta (seed).
type UserStore interface {
	repository.UserRepository
	Create(ctx context.Context, u *entity.User) error
}

// Store repositorios listos para inyectar en los casos de uso.
type Store struct {
	Driver    string
	Products  ProductStore
	Suppliers SupplierStore
	Restocks  repository.RestockRepository
	Users     UserStore
	Tx        restock.TxRunner
	close     func()
}

// Close libera la conexión.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Open conecta según cfg.Driver y asegura el esquema.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("storage: conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("storage: esquema PostgreSQL: %w", err)
		}
		log.Info().Str("driver", cfg.Driver).Msg("base de datos lista")
		return &Store{
			Driver:    cfg.Driver,
			Products:  postgres.NewProductRepository(pool),
			Suppliers: postgres.NewSupplierRepository(pool),
			Restocks:  postgres.NewRestockRepository(pool),
			Users:     postgres.NewUserRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("storage: abrir SQLite: %w", err)
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("base de datos lista")
		return &Store{
			Driver:    cfg.Driver,
			Products:  sqlite.NewProductRepository(db),
			Suppliers: sqlite.NewSupplierRepository(db),
			Restocks:  sqlite.NewRestockRepository(db),
			Users:     sqlite.NewUserRepository(db),
			Tx:        sqlite.NewTxRunner(db),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("storage: driver no soportado: %q", cfg.Driver)
	}
}
