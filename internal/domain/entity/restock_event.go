package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockEvent registra una entrega de un proveedor: cantidad de un producto a un costo y fecha dados.
// Es inmutable una vez persistido; la capa de inteligencia solo lo lee.
type RestockEvent struct {
	ID          string
	ProductID   string
	SupplierID  string
	Quantity    int64           // unidades recibidas (> 0)
	CostPrice   decimal.Decimal // costo unitario (>= 0)
	RestockDate time.Time
	BatchNumber string // lote del fabricante (opcional)
	CreatedBy   string
	CreatedAt   time.Time
}

// TotalCost devuelve Quantity * CostPrice.
func (e RestockEvent) TotalCost() decimal.Decimal {
	return e.CostPrice.Mul(decimal.NewFromInt(e.Quantity))
}
