package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

func sampleSheet() *dto.RestockSuggestionsResponse {
	return &dto.RestockSuggestionsResponse{
		GeneratedAt: time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC),
		Items: []dto.RestockSuggestionDTO{
			{
				ProductID: "p1", ProductName: "Amoxicilina 500mg", CurrentQuantity: 0, MinStock: 30,
				SuggestedQuantity: 60, LastCostPrice: decimal.NewFromInt(1200),
				EstimatedOrderCost: decimal.NewFromInt(72000), Priority: "critical",
			},
			{
				ProductID: "p2", CurrentQuantity: 8, MinStock: 10,
				SuggestedQuantity: 12, LastCostPrice: decimal.RequireFromString("150.5"),
				EstimatedOrderCost: decimal.NewFromInt(1806), Priority: "low",
			},
		},
		TotalItems:         2,
		TotalUnits:         72,
		TotalEstimatedCost: decimal.NewFromInt(73806),
		CountByPriority:    map[string]int{"critical": 1, "high": 0, "medium": 0, "low": 1},
	}
}

func TestGenerateRestockSheet_GeneraPDF(t *testing.T) {
	raw, err := NewRestockSheetGenerator().GenerateRestockSheet(context.Background(), "Droguería Central", sampleSheet())
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestGenerateRestockSheet_SinItems(t *testing.T) {
	sheet := &dto.RestockSuggestionsResponse{
		GeneratedAt:        time.Now(),
		Items:              []dto.RestockSuggestionDTO{},
		TotalEstimatedCost: decimal.Zero,
		CountByPriority:    map[string]int{},
	}
	raw, err := NewRestockSheetGenerator().GenerateRestockSheet(context.Background(), "", sheet)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestGenerateRestockSheet_Nil(t *testing.T) {
	_, err := NewRestockSheetGenerator().GenerateRestockSheet(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestMoney_AgrupaMiles(t *testing.T) {
	g := NewRestockSheetGenerator()
	assert.Equal(t, "$1.250.000", g.money(decimal.RequireFromString("1250000.4")))
	assert.Equal(t, "$73.806", g.money(decimal.NewFromInt(73806)))
	assert.Equal(t, "$0", g.money(decimal.Zero))
}
