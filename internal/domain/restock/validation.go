// Package restock contiene la lógica pura de inteligencia de reabastecimiento:
// agregación de entregas por producto/proveedor, puntuación de confiabilidad de
// proveedores y sugerencias de pedido. No hace I/O ni guarda estado.
package restock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ValidateEvent rechaza eventos con ids vacíos, cantidad <= 0, costo negativo o fecha vacía.
func ValidateEvent(e entity.RestockEvent) error {
	if e.ProductID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if e.SupplierID == "" {
		return domain.NewValidationError("supplier_id", "requerido")
	}
	if e.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if e.CostPrice.LessThan(decimal.Zero) {
		return domain.NewValidationError("cost_price", "no puede ser negativo")
	}
	if e.RestockDate.IsZero() {
		return domain.NewValidationError("restock_date", "fecha inválida")
	}
	return nil
}

func validateEvents(events []entity.RestockEvent) error {
	for _, e := range events {
		if err := ValidateEvent(e); err != nil {
			return err
		}
	}
	return nil
}
