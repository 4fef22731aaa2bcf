package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RestockFilter criterios de consulta del historial de reabastecimiento.
// Campos vacíos o nil no filtran.
type RestockFilter struct {
	ProductID  string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// RestockRepository define el puerto de persistencia para eventos de reabastecimiento.
// Los eventos son inmutables: no hay Update ni Delete.
type RestockRepository interface {
	Create(ctx context.Context, event *entity.RestockEvent) error
	// List devuelve la página solicitada (restock_date DESC) y el total sin paginar.
	List(ctx context.Context, filter RestockFilter) ([]*entity.RestockEvent, int, error)
	// ListBySupplier devuelve todas las entregas del proveedor con restock_date <= until.
	ListBySupplier(ctx context.Context, supplierID string, until time.Time) ([]entity.RestockEvent, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.RestockEvent, error)
	// ListAll devuelve todas las entregas con restock_date <= until.
	ListAll(ctx context.Context, until time.Time) ([]entity.RestockEvent, error)
}
