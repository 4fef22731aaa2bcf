package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRestockRequest body para POST /api/restocks.
// RestockDate vacío = fecha del servidor.
type RegisterRestockRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	SupplierID  string          `json:"supplier_id" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	RestockDate *time.Time      `json:"restock_date,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty" validate:"omitempty,max=64"`
}

// RestockEventResponse evento de reabastecimiento registrado.
type RestockEventResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	SupplierID  string          `json:"supplier_id"`
	Quantity    int64           `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	RestockDate time.Time       `json:"restock_date"`
	BatchNumber string          `json:"batch_number,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RegisterRestockResponse resultado de registrar una entrada: evento más el stock y costo resultantes.
type RegisterRestockResponse struct {
	Event       RestockEventResponse `json:"event"`
	NewQuantity int64                `json:"new_quantity"`
	NewCost     decimal.Decimal      `json:"new_cost"` // costo promedio ponderado
}

// RestockHistoryRequest filtros de GET /api/restocks.
type RestockHistoryRequest struct {
	ProductID  string     `query:"product_id"`
	SupplierID string     `query:"supplier_id"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// RestockHistoryResponse página del historial de reabastecimiento.
type RestockHistoryResponse struct {
	Items []RestockEventResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// RestockSuggestionDTO sugerencia de pedido para un producto en o bajo su stock mínimo.
type RestockSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	CurrentQuantity    int64           `json:"current_quantity"`
	MinStock           int64           `json:"min_stock"`
	SuggestedQuantity  int64           `json:"suggested_quantity"`
	LastCostPrice      decimal.Decimal `json:"last_cost_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedQuantity * LastCostPrice
	Priority           string          `json:"priority"`             // critical | high | medium | low
}

// RestockSuggestionsResponse lista de sugerencias con totales.
type RestockSuggestionsResponse struct {
	GeneratedAt        time.Time              `json:"generated_at"`
	Items              []RestockSuggestionDTO `json:"items"`
	TotalItems         int                    `json:"total_items"`
	TotalUnits         int64                  `json:"total_units"`
	TotalEstimatedCost decimal.Decimal        `json:"total_estimated_cost"`
	CountByPriority    map[string]int         `json:"count_by_priority"`
}
