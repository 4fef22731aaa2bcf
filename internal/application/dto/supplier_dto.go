package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReliabilityBreakdownDTO sub-puntajes 0-100 del puntaje de confiabilidad.
type ReliabilityBreakdownDTO struct {
	Recency          int `json:"recency"`
	Volume           int `json:"volume"`
	Variety          int `json:"variety"`
	PriceConsistency int `json:"price_consistency"`
}

// SupplierSummaryDTO totales del historial de un proveedor.
type SupplierSummaryDTO struct {
	TotalRestocks       int             `json:"total_restocks"`
	TotalUnits          int64           `json:"total_units"`
	TotalSpent          decimal.Decimal `json:"total_spent"`
	DistinctProducts    int             `json:"distinct_products"`
	LastSupplyDate      *time.Time      `json:"last_supply_date"`
	DaysSinceLastSupply *int            `json:"days_since_last_supply"`
}

// SupplierReliabilityResponse puntaje de confiabilidad de un proveedor.
type SupplierReliabilityResponse struct {
	SupplierID     string                  `json:"supplier_id"`
	SupplierName   string                  `json:"supplier_name"`
	Score          int                     `json:"score"`
	Breakdown      ReliabilityBreakdownDTO `json:"breakdown"`
	Recommendation string                  `json:"recommendation"`
	Summary        SupplierSummaryDTO      `json:"summary"`
}

// SupplierPerformanceResponse ranking de proveedores (score desc, nombre asc).
type SupplierPerformanceResponse struct {
	GeneratedAt time.Time                     `json:"generated_at"`
	Suppliers   []SupplierReliabilityResponse `json:"suppliers"`
}

// SupplierOfferDTO historial de un proveedor para un producto.
type SupplierOfferDTO struct {
	SupplierID     string          `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	BestPrice      decimal.Decimal `json:"best_price"`
	WorstPrice     decimal.Decimal `json:"worst_price"`
	TotalQuantity  int64           `json:"total_quantity"`
	TotalRestocks  int             `json:"total_restocks"`
	LastSupplyDate time.Time       `json:"last_supply_date"`
	IsBestPrice    bool            `json:"is_best_price"`
	SavingsVsWorst decimal.Decimal `json:"savings_vs_worst"` // por unidad
}

// SupplierComparisonResponse proveedores de un producto ordenados por costo promedio.
type SupplierComparisonResponse struct {
	ProductID   string             `json:"product_id"`
	ProductName string             `json:"product_name"`
	Suppliers   []SupplierOfferDTO `json:"suppliers"`
}
