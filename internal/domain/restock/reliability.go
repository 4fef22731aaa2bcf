package restock

import (
	"math"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Recomendaciones según el puntaje de confiabilidad.
const (
	RecommendationHighly      = "Highly Recommended"
	RecommendationRecommended = "Recommended"
	RecommendationModerate    = "Moderate"
	RecommendationAlternative = "Consider Alternatives"
)

const (
	recencyFullDays    = 7  // hasta 7 días desde la última entrega = 100
	recencyZeroDays    = 90 // 90 días o más = 0
	volumeReference    = 10 // 10 entregas = 100
	varietyReference   = 10 // 10 productos distintos = 100
	consistencyPenalty = 100.0
	weightSumTolerance = 1e-9
	maxScore           = 100.0
)

// Weights ponderación de los sub-puntajes; deben sumar 1.0.
type Weights struct {
	Recency          float64
	Volume           float64
	Variety          float64
	PriceConsistency float64
}

// DefaultWeights ponderación canónica del puntaje de confiabilidad.
func DefaultWeights() Weights {
	return Weights{Recency: 0.35, Volume: 0.25, Variety: 0.20, PriceConsistency: 0.20}
}

// Validate verifica que los pesos sean no negativos y sumen 1.0.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Recency, w.Volume, w.Variety, w.PriceConsistency} {
		if v < 0 || math.IsNaN(v) {
			return domain.NewValidationError("weights", "los pesos no pueden ser negativos")
		}
	}
	sum := w.Recency + w.Volume + w.Variety + w.PriceConsistency
	if math.Abs(sum-1.0) > weightSumTolerance {
		return domain.NewValidationError("weights", "los pesos deben sumar 1.0")
	}
	return nil
}

// ScoreBreakdown sub-puntajes en [0,100].
type ScoreBreakdown struct {
	Recency          int
	Volume           int
	Variety          int
	PriceConsistency int
}

// ReliabilityScore puntaje 0–100 de un proveedor con su desglose y recomendación.
type ReliabilityScore struct {
	SupplierID     string
	Score          int
	Breakdown      ScoreBreakdown
	Recommendation string
}

// Scorer calcula puntajes de confiabilidad con una ponderación fija.
type Scorer struct {
	weights Weights
}

// NewScorer construye el Scorer; rechaza pesos inválidos.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

// Score calcula el puntaje con la ponderación canónica.
func Score(supplierID string, events []entity.RestockEvent, now time.Time) (ReliabilityScore, error) {
	return (&Scorer{weights: DefaultWeights()}).Score(supplierID, events, now)
}

// Score calcula el puntaje de confiabilidad del proveedor a partir de todas sus entregas hasta now.
// Todos los eventos deben pertenecer a supplierID. Sin eventos el puntaje es 0.
func (s *Scorer) Score(supplierID string, events []entity.RestockEvent, now time.Time) (ReliabilityScore, error) {
	if err := validateEvents(events); err != nil {
		return ReliabilityScore{}, err
	}
	for _, e := range events {
		if e.SupplierID != supplierID {
			return ReliabilityScore{}, domain.NewValidationError("supplier_id", "evento de otro proveedor")
		}
	}
	if len(events) == 0 {
		return ReliabilityScore{SupplierID: supplierID, Recommendation: RecommendationAlternative}, nil
	}

	last := events[0].RestockDate
	products := make(map[string]struct{})
	costs := make([]float64, 0, len(events))
	for _, e := range events {
		if e.RestockDate.After(last) {
			last = e.RestockDate
		}
		products[e.ProductID] = struct{}{}
		costs = append(costs, e.CostPrice.InexactFloat64())
	}

	recency := recencyScore(last, now)
	volume := ratioScore(len(events), volumeReference)
	variety := ratioScore(len(products), varietyReference)
	consistency := priceConsistencyScore(costs)

	w := s.weights
	overall := recency*w.Recency + volume*w.Volume + variety*w.Variety + consistency*w.PriceConsistency
	score := int(math.Round(clamp(overall)))

	return ReliabilityScore{
		SupplierID: supplierID,
		Score:      score,
		Breakdown: ScoreBreakdown{
			Recency:          int(math.Round(recency)),
			Volume:           int(math.Round(volume)),
			Variety:          int(math.Round(variety)),
			PriceConsistency: int(math.Round(consistency)),
		},
		Recommendation: Recommendation(score),
	}, nil
}

// Recommendation traduce el puntaje a la etiqueta de recomendación.
func Recommendation(score int) string {
	switch {
	case score >= 80:
		return RecommendationHighly
	case score >= 60:
		return RecommendationRecommended
	case score >= 40:
		return RecommendationModerate
	default:
		return RecommendationAlternative
	}
}

// DaysSince días (fraccionarios) entre t y now; negativo si t es futuro.
func DaysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

func recencyScore(last, now time.Time) float64 {
	days := DaysSince(last, now)
	switch {
	case days <= recencyFullDays:
		return maxScore
	case days >= recencyZeroDays:
		return 0
	default:
		return maxScore * (recencyZeroDays - days) / (recencyZeroDays - recencyFullDays)
	}
}

func ratioScore(n, reference int) float64 {
	return clamp(float64(n) / float64(reference) * maxScore)
}

// priceConsistencyScore: 100 - penalización proporcional al coeficiente de variación (desviación/media).
func priceConsistencyScore(costs []float64) float64 {
	if len(costs) < 2 {
		return maxScore
	}
	var sum float64
	for _, c := range costs {
		sum += c
	}
	mean := sum / float64(len(costs))
	if mean <= 0 {
		return maxScore
	}
	var sq float64
	for _, c := range costs {
		sq += (c - mean) * (c - mean)
	}
	stddev := math.Sqrt(sq / float64(len(costs)))
	return clamp(maxScore - consistencyPenalty*(stddev/mean))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
