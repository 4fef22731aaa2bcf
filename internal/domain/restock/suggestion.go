package restock

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Priority urgencia de una sugerencia de pedido.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Umbrales relativos al stock mínimo, en décimas (0.3 y 0.7).
const (
	highThresholdTenths   = 3
	mediumThresholdTenths = 7
)

// Rank orden de la prioridad (0 = más urgente).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// StockLevel stock actual y mínimo de un producto.
type StockLevel struct {
	ProductID       string
	CurrentQuantity int64
	MinStock        int64
}

// RestockSuggestion cantidad sugerida para reponer un producto en o bajo su mínimo.
type RestockSuggestion struct {
	ProductID         string
	CurrentQuantity   int64
	MinStock          int64
	SuggestedQuantity int64
	LastCostPrice     decimal.Decimal
	Priority          Priority
}

// PriorityFor clasifica la urgencia de un producto según cuánto está por debajo del mínimo.
func PriorityFor(current, minStock int64) Priority {
	switch {
	case current == 0:
		return PriorityCritical
	case current*10 <= minStock*highThresholdTenths:
		return PriorityHigh
	case current*10 <= minStock*mediumThresholdTenths:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SuggestedQuantity repone hasta el doble del mínimo, con un piso de 1 unidad.
func SuggestedQuantity(current, minStock int64) int64 {
	qty := minStock*2 - current
	if qty < 1 {
		return 1
	}
	return qty
}

// Suggest devuelve las sugerencias para los productos con stock <= mínimo, ordenadas por
// prioridad (critical→low) y luego por stock ascendente. lastCosts aporta el último costo conocido.
func Suggest(products []StockLevel, lastCosts map[string]decimal.Decimal) ([]RestockSuggestion, error) {
	for _, p := range products {
		if p.CurrentQuantity < 0 {
			return nil, domain.NewValidationError("current_quantity", "no puede ser negativo")
		}
		if p.MinStock < 0 {
			return nil, domain.NewValidationError("min_stock", "no puede ser negativo")
		}
	}

	out := make([]RestockSuggestion, 0)
	for _, p := range products {
		if p.CurrentQuantity > p.MinStock {
			continue
		}
		out = append(out, RestockSuggestion{
			ProductID:         p.ProductID,
			CurrentQuantity:   p.CurrentQuantity,
			MinStock:          p.MinStock,
			SuggestedQuantity: SuggestedQuantity(p.CurrentQuantity, p.MinStock),
			LastCostPrice:     lastCosts[p.ProductID],
			Priority:          PriorityFor(p.CurrentQuantity, p.MinStock),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.CurrentQuantity != b.CurrentQuantity {
			return a.CurrentQuantity < b.CurrentQuantity
		}
		return a.ProductID < b.ProductID
	})
	return out, nil
}
