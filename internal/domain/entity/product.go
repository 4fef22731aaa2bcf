package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o artículo del catálogo de la farmacia.
// CostPrice es promedio ponderado calculado desde los reabastecimientos; Quantity es el stock actual.
type Product struct {
	ID         string
	Name       string
	Barcode    string
	CategoryID string
	SupplierID string // proveedor habitual (opcional)
	Quantity   int64
	MinStock   int64
	CostPrice  decimal.Decimal
	SalePrice  decimal.Decimal
	ExpiryDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
