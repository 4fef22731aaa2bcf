package restock

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// PairKey identifica un par (producto, proveedor).
type PairKey struct {
	ProductID  string
	SupplierID string
}

// SupplierProductStat resume el historial de entregas de un proveedor para un producto.
// Invariante: BestPrice <= AverageCost <= WorstPrice y TotalQuantity = suma de cantidades.
type SupplierProductStat struct {
	SupplierID     string
	ProductID      string
	AverageCost    decimal.Decimal
	BestPrice      decimal.Decimal
	WorstPrice     decimal.Decimal
	TotalQuantity  int64
	TotalRestocks  int
	LastSupplyDate time.Time
}

type accumulator struct {
	stat    SupplierProductStat
	costSum decimal.Decimal
}

// Aggregate agrupa los eventos por (producto, proveedor) y calcula costo promedio, mejor y peor
// precio, cantidad total, número de entregas y fecha de la última entrega.
// Una entrada vacía devuelve un mapa vacío.
func Aggregate(events []entity.RestockEvent) (map[PairKey]SupplierProductStat, error) {
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	acc := make(map[PairKey]*accumulator)
	for _, e := range events {
		key := PairKey{ProductID: e.ProductID, SupplierID: e.SupplierID}
		a, ok := acc[key]
		if !ok {
			a = &accumulator{stat: SupplierProductStat{
				SupplierID:     e.SupplierID,
				ProductID:      e.ProductID,
				BestPrice:      e.CostPrice,
				WorstPrice:     e.CostPrice,
				LastSupplyDate: e.RestockDate,
			}}
			acc[key] = a
		}
		a.costSum = a.costSum.Add(e.CostPrice)
		a.stat.TotalQuantity += e.Quantity
		a.stat.TotalRestocks++
		if e.CostPrice.LessThan(a.stat.BestPrice) {
			a.stat.BestPrice = e.CostPrice
		}
		if e.CostPrice.GreaterThan(a.stat.WorstPrice) {
			a.stat.WorstPrice = e.CostPrice
		}
		if e.RestockDate.After(a.stat.LastSupplyDate) {
			a.stat.LastSupplyDate = e.RestockDate
		}
	}

	out := make(map[PairKey]SupplierProductStat, len(acc))
	for key, a := range acc {
		a.stat.AverageCost = a.costSum.Div(decimal.NewFromInt(int64(a.stat.TotalRestocks)))
		out[key] = a.stat
	}
	return out, nil
}

// SortedStats devuelve las estadísticas ordenadas por producto y luego por proveedor.
func SortedStats(stats map[PairKey]SupplierProductStat) []SupplierProductStat {
	list := make([]SupplierProductStat, 0, len(stats))
	for _, s := range stats {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].SupplierID < list[j].SupplierID
	})
	return list
}

// LastCostByProduct devuelve, por producto, el costo del evento más reciente.
// Si dos eventos comparten fecha gana el último en el slice.
func LastCostByProduct(events []entity.RestockEvent) map[string]decimal.Decimal {
	latest := make(map[string]entity.RestockEvent, len(events))
	for _, e := range events {
		prev, ok := latest[e.ProductID]
		if !ok || !e.RestockDate.Before(prev.RestockDate) {
			latest[e.ProductID] = e
		}
	}
	out := make(map[string]decimal.Decimal, len(latest))
	for id, e := range latest {
		out[id] = e.CostPrice
	}
	return out
}
