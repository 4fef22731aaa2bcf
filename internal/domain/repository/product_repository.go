package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila dentro de la transacción (SELECT ... FOR UPDATE en PostgreSQL).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStockAndCost fija cantidad y costo (usado al registrar una entrada).
	UpdateStockAndCost(ctx context.Context, productID string, quantity int64, cost decimal.Decimal) error
	// ListStockLevels lista productos ordenados por nombre; con onlyLow solo los que están en o bajo su mínimo.
	ListStockLevels(ctx context.Context, onlyLow bool) ([]*entity.Product, error)
}
