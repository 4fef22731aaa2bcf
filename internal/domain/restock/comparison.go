package restock

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SupplierOffer estadística de un proveedor para un producto, enriquecida para comparar precios.
type SupplierOffer struct {
	SupplierProductStat
	IsBestPrice    bool
	SavingsVsWorst decimal.Decimal // ahorro por unidad frente al proveedor de mayor costo promedio
}

// CompareSuppliers ordena los proveedores de un producto por costo promedio ascendente.
// Marca como mejor precio al (o los) de menor promedio. Ignora estadísticas de otros productos.
func CompareSuppliers(productID string, stats map[PairKey]SupplierProductStat) []SupplierOffer {
	offers := make([]SupplierOffer, 0)
	for key, s := range stats {
		if key.ProductID != productID {
			continue
		}
		offers = append(offers, SupplierOffer{SupplierProductStat: s})
	}
	if len(offers) == 0 {
		return offers
	}

	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].AverageCost.Equal(offers[j].AverageCost) {
			return offers[i].AverageCost.LessThan(offers[j].AverageCost)
		}
		return offers[i].SupplierID < offers[j].SupplierID
	})

	best := offers[0].AverageCost
	worst := offers[len(offers)-1].AverageCost
	for i := range offers {
		offers[i].IsBestPrice = offers[i].AverageCost.Equal(best)
		offers[i].SavingsVsWorst = worst.Sub(offers[i].AverageCost)
	}
	return offers
}
