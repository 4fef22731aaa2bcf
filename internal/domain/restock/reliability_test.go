package restock_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/restock"
)

var now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestScore_ProveedorSinEventos(t *testing.T) {
	s, err := restock.Score("A", nil, now)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, restock.ScoreBreakdown{}, s.Breakdown)
	assert.Equal(t, restock.RecommendationAlternative, s.Recommendation)
	assert.Equal(t, "A", s.SupplierID)
}

// Un proveedor activo esta semana supera a uno sin entregas en 120 días.
func TestScore_RecienteSuperaAInactivo(t *testing.T) {
	var active []entity.RestockEvent
	for i := 0; i < 15; i++ {
		active = append(active, ev("p1", "A", 10, "100", now.Add(-time.Duration(i)*8*time.Hour)))
	}
	stale := []entity.RestockEvent{ev("p1", "B", 10, "100", now.AddDate(0, 0, -120))}

	a, err := restock.Score("A", active, now)
	require.NoError(t, err)
	b, err := restock.Score("B", stale, now)
	require.NoError(t, err)

	assert.Equal(t, 100, a.Breakdown.Recency)
	assert.Equal(t, 100, a.Breakdown.Volume)
	assert.Equal(t, 0, b.Breakdown.Recency)
	assert.Greater(t, a.Score, b.Score)
}

func TestScore_Recencia(t *testing.T) {
	cases := []struct {
		daysAgo float64
		want    int
	}{
		{0, 100},
		{7, 100},
		{48.5, 50},
		{90, 0},
		{365, 0},
		{-2, 100}, // fecha futura: se trata como reciente
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.1f días", tc.daysAgo), func(t *testing.T) {
			date := now.Add(-time.Duration(tc.daysAgo * 24 * float64(time.Hour)))
			s, err := restock.Score("A", []entity.RestockEvent{ev("p", "A", 1, "10", date)}, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Breakdown.Recency)
		})
	}
}

func TestScore_VolumenYVariedadConTope(t *testing.T) {
	var events []entity.RestockEvent
	for i := 0; i < 25; i++ {
		events = append(events, ev(fmt.Sprintf("p%d", i%5), "A", 1, "10", now))
	}
	s, err := restock.Score("A", events, now)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Breakdown.Volume, "25 entregas se limita a 100")
	assert.Equal(t, 50, s.Breakdown.Variety, "5 productos distintos de 10 de referencia")
}

func TestScore_ConsistenciaDePrecio(t *testing.T) {
	// Un solo evento: sin desviación, sin penalización.
	s, err := restock.Score("A", []entity.RestockEvent{ev("p", "A", 1, "10", now)}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Breakdown.PriceConsistency)

	// Costos 50 y 150: media 100, desviación poblacional 50 → CV 0.5 → 50.
	s, err = restock.Score("A", []entity.RestockEvent{
		ev("p", "A", 1, "50", now),
		ev("p", "A", 1, "150", now),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Breakdown.PriceConsistency)

	// CV > 1 se limita a 0.
	s, err = restock.Score("A", []entity.RestockEvent{
		ev("p", "A", 1, "1", now),
		ev("p", "A", 1, "1", now),
		ev("p", "A", 1, "1", now),
		ev("p", "A", 1, "100", now),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Breakdown.PriceConsistency)

	// Todos los costos en cero: media 0, sin penalización.
	s, err = restock.Score("A", []entity.RestockEvent{
		ev("p", "A", 1, "0", now),
		ev("p", "A", 1, "0", now),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Breakdown.PriceConsistency)
}

func TestScore_PonderacionCanonica(t *testing.T) {
	// recency 100, volume 10, variety 10, consistency 100
	// 0.35*100 + 0.25*10 + 0.20*10 + 0.20*100 = 59.5 → 60
	s, err := restock.Score("A", []entity.RestockEvent{ev("p", "A", 5, "10", now)}, now)
	require.NoError(t, err)
	assert.Equal(t, 60, s.Score)
	assert.Equal(t, restock.RecommendationRecommended, s.Recommendation)
}

func TestScore_RechazaEventoDeOtroProveedor(t *testing.T) {
	_, err := restock.Score("A", []entity.RestockEvent{ev("p", "B", 1, "10", now)}, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecommendation_Umbrales(t *testing.T) {
	assert.Equal(t, restock.RecommendationHighly, restock.Recommendation(100))
	assert.Equal(t, restock.RecommendationHighly, restock.Recommendation(80))
	assert.Equal(t, restock.RecommendationRecommended, restock.Recommendation(79))
	assert.Equal(t, restock.RecommendationRecommended, restock.Recommendation(60))
	assert.Equal(t, restock.RecommendationModerate, restock.Recommendation(59))
	assert.Equal(t, restock.RecommendationModerate, restock.Recommendation(40))
	assert.Equal(t, restock.RecommendationAlternative, restock.Recommendation(39))
	assert.Equal(t, restock.RecommendationAlternative, restock.Recommendation(0))
}

func TestNewScorer_ValidaPesos(t *testing.T) {
	_, err := restock.NewScorer(restock.DefaultWeights())
	require.NoError(t, err)

	_, err = restock.NewScorer(restock.Weights{Recency: 0.5, Volume: 0.5, Variety: 0.5})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = restock.NewScorer(restock.Weights{Recency: 1.2, Volume: -0.2})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestScorer_PesosPersonalizados(t *testing.T) {
	// Solo recencia: un proveedor de esta semana obtiene 100 aunque tenga una sola entrega.
	scorer, err := restock.NewScorer(restock.Weights{Recency: 1})
	require.NoError(t, err)
	s, err := scorer.Score("A", []entity.RestockEvent{ev("p", "A", 1, "10", now)}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Score)
	assert.Equal(t, restock.RecommendationHighly, s.Recommendation)
}
