package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SupplierRepository define el puerto de lectura de proveedores.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// List devuelve los proveedores ordenados por nombre; onlyActive excluye los inactivos.
	List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error)
}
