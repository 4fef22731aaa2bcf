package restock_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/restock"
)

func TestSuggest_StockCeroEsCritico(t *testing.T) {
	out, err := restock.Suggest([]restock.StockLevel{
		{ProductID: "ibuprofeno", CurrentQuantity: 0, MinStock: 10},
	}, map[string]decimal.Decimal{"ibuprofeno": decimal.RequireFromString("350.50")})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, int64(20), out[0].SuggestedQuantity)
	assert.Equal(t, restock.PriorityCritical, out[0].Priority)
	assert.True(t, out[0].LastCostPrice.Equal(decimal.RequireFromString("350.50")))
}

func TestPriorityFor_Umbrales(t *testing.T) {
	cases := []struct {
		current, min int64
		want         restock.Priority
	}{
		{0, 10, restock.PriorityCritical},
		{1, 10, restock.PriorityHigh},
		{3, 10, restock.PriorityHigh},
		{4, 10, restock.PriorityMedium},
		{7, 10, restock.PriorityMedium},
		{8, 10, restock.PriorityLow},
		{10, 10, restock.PriorityLow},
		{0, 0, restock.PriorityCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, restock.PriorityFor(tc.current, tc.min), "current=%d min=%d", tc.current, tc.min)
	}
}

func TestSuggestedQuantity_Piso(t *testing.T) {
	assert.Equal(t, int64(13), restock.SuggestedQuantity(7, 10))
	assert.Equal(t, int64(10), restock.SuggestedQuantity(10, 10))
	// Mínimo en cero: se sugiere al menos una unidad.
	assert.Equal(t, int64(1), restock.SuggestedQuantity(0, 0))
}

func TestSuggest_FiltraYOrdena(t *testing.T) {
	products := []restock.StockLevel{
		{ProductID: "sobrado", CurrentQuantity: 50, MinStock: 10},
		{ProductID: "bajo-b", CurrentQuantity: 8, MinStock: 10},
		{ProductID: "medio", CurrentQuantity: 5, MinStock: 10},
		{ProductID: "agotado", CurrentQuantity: 0, MinStock: 4},
		{ProductID: "alto", CurrentQuantity: 2, MinStock: 10},
		{ProductID: "bajo-a", CurrentQuantity: 8, MinStock: 9},
		{ProductID: "justo", CurrentQuantity: 10, MinStock: 10},
	}
	out, err := restock.Suggest(products, nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ProductID)
		assert.LessOrEqual(t, s.CurrentQuantity, s.MinStock)
		assert.GreaterOrEqual(t, s.SuggestedQuantity, int64(1))
		assert.True(t, s.LastCostPrice.IsZero(), "sin costo conocido queda en cero")
	}
	assert.Equal(t, []string{"agotado", "alto", "medio", "bajo-a", "bajo-b", "justo"}, ids)
}

func TestSuggest_SinFaltantes(t *testing.T) {
	out, err := restock.Suggest([]restock.StockLevel{{ProductID: "p", CurrentQuantity: 11, MinStock: 10}}, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = restock.Suggest(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSuggest_RechazaNegativos(t *testing.T) {
	_, err := restock.Suggest([]restock.StockLevel{{ProductID: "p", CurrentQuantity: -1, MinStock: 10}}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = restock.Suggest([]restock.StockLevel{{ProductID: "p", CurrentQuantity: 1, MinStock: -10}}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSuggest_Idempotente(t *testing.T) {
	products := []restock.StockLevel{
		{ProductID: "a", CurrentQuantity: 3, MinStock: 10},
		{ProductID: "b", CurrentQuantity: 3, MinStock: 10},
		{ProductID: "c", CurrentQuantity: 0, MinStock: 1},
	}
	first, err := restock.Suggest(products, nil)
	require.NoError(t, err)
	second, err := restock.Suggest(products, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
