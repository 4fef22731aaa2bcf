package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/restock"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Prefijos de clave de caché.
const (
	keyPerformance = "intel:performance"
	keyReliability = "intel:reliability:"
	keyComparison  = "intel:comparison:"
)

// IntelligenceUseCase reportes de inteligencia de proveedores: confiabilidad, ranking y comparación de precios.
// Los resultados pasan por la caché inyectada; RegisterRestock la invalida.
type IntelligenceUseCase struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	restockRepo  repository.RestockRepository
	cache        ports.Cache
	scorer       *restock.Scorer
	log          *logger.Logger
	now          func() time.Time
}

// NewIntelligenceUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewIntelligenceUseCase(
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	restockRepo repository.RestockRepository,
	cache ports.Cache,
	scorer *restock.Scorer,
	log *logger.Logger,
) *IntelligenceUseCase {
	if scorer == nil {
		scorer, _ = restock.NewScorer(restock.DefaultWeights())
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IntelligenceUseCase{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		restockRepo:  restockRepo,
		cache:        cache,
		scorer:       scorer,
		log:          log.Component("supplier_intelligence"),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *IntelligenceUseCase) WithClock(now func() time.Time) *IntelligenceUseCase {
	uc.now = now
	return uc
}

// SupplierReliability puntaje de confiabilidad de un proveedor con el resumen de su historial.
func (uc *IntelligenceUseCase) SupplierReliability(ctx context.Context, supplierID string) (*dto.SupplierReliabilityResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("inteligencia: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	var out dto.SupplierReliabilityResponse
	err = uc.fetch(ctx, keyReliability+supplierID, &out, func(ctx context.Context) (any, error) {
		now := uc.now()
		events, err := uc.restockRepo.ListBySupplier(ctx, supplierID, now)
		if err != nil {
			return nil, fmt.Errorf("inteligencia: entregas del proveedor: %w", err)
		}
		return uc.reliability(supplier, events, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SupplierPerformance ranking de todos los proveedores por puntaje descendente y nombre.
func (uc *IntelligenceUseCase) SupplierPerformance(ctx context.Context) (*dto.SupplierPerformanceResponse, error) {
	var out dto.SupplierPerformanceResponse
	err := uc.fetch(ctx, keyPerformance, &out, func(ctx context.Context) (any, error) {
		now := uc.now()
		suppliers, err := uc.supplierRepo.List(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("inteligencia: listar proveedores: %w", err)
		}
		events, err := uc.restockRepo.ListAll(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("inteligencia: listar entregas: %w", err)
		}

		bySupplier := make(map[string][]entity.RestockEvent, len(suppliers))
		for _, e := range events {
			bySupplier[e.SupplierID] = append(bySupplier[e.SupplierID], e)
		}

		resp := dto.SupplierPerformanceResponse{
			GeneratedAt: now,
			Suppliers:   make([]dto.SupplierReliabilityResponse, 0, len(suppliers)),
		}
		for _, s := range suppliers {
			r, err := uc.reliability(s, bySupplier[s.ID], now)
			if err != nil {
				return nil, err
			}
			resp.Suppliers = append(resp.Suppliers, *r)
		}
		sort.SliceStable(resp.Suppliers, func(i, j int) bool {
			a, b := resp.Suppliers[i], resp.Suppliers[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.SupplierName != b.SupplierName {
				return a.SupplierName < b.SupplierName
			}
			return a.SupplierID < b.SupplierID
		})
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareSuppliers compara los proveedores que han entregado un producto, del más barato al más caro.
func (uc *IntelligenceUseCase) CompareSuppliers(ctx context.Context, productID string) (*dto.SupplierComparisonResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("inteligencia: obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var out dto.SupplierComparisonResponse
	err = uc.fetch(ctx, keyComparison+productID, &out, func(ctx context.Context) (any, error) {
		events, err := uc.restockRepo.ListByProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("inteligencia: entregas del producto: %w", err)
		}
		stats, err := restock.Aggregate(events)
		if err != nil {
			return nil, err
		}
		suppliers, err := uc.supplierRepo.List(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("inteligencia: listar proveedores: %w", err)
		}
		names := make(map[string]string, len(suppliers))
		for _, s := range suppliers {
			names[s.ID] = s.Name
		}

		offers := restock.CompareSuppliers(productID, stats)
		resp := dto.SupplierComparisonResponse{
			ProductID:   product.ID,
			ProductName: product.Name,
			Suppliers:   make([]dto.SupplierOfferDTO, 0, len(offers)),
		}
		for _, o := range offers {
			resp.Suppliers = append(resp.Suppliers, dto.SupplierOfferDTO{
				SupplierID:     o.SupplierID,
				SupplierName:   names[o.SupplierID],
				AverageCost:    o.AverageCost.Round(2),
				BestPrice:      o.BestPrice,
				WorstPrice:     o.WorstPrice,
				TotalQuantity:  o.TotalQuantity,
				TotalRestocks:  o.TotalRestocks,
				LastSupplyDate: o.LastSupplyDate,
				IsBestPrice:    o.IsBestPrice,
				SavingsVsWorst: o.SavingsVsWorst.Round(2),
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Warmup precalcula el ranking y la confiabilidad de cada proveedor en la caché.
// Devuelve cuántos proveedores se calcularon.
func (uc *IntelligenceUseCase) Warmup(ctx context.Context) (int, error) {
	perf, err := uc.SupplierPerformance(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range perf.Suppliers {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := uc.SupplierReliability(ctx, s.SupplierID); err != nil {
			return 0, fmt.Errorf("inteligencia: precalcular %s: %w", s.SupplierID, err)
		}
	}
	uc.log.Debug().Int("suppliers", len(perf.Suppliers)).Msg("caché de inteligencia precalculada")
	return len(perf.Suppliers), nil
}

func (uc *IntelligenceUseCase) reliability(s *entity.Supplier, events []entity.RestockEvent, now time.Time) (*dto.SupplierReliabilityResponse, error) {
	score, err := uc.scorer.Score(s.ID, events, now)
	if err != nil {
		return nil, err
	}
	return &dto.SupplierReliabilityResponse{
		SupplierID:   s.ID,
		SupplierName: s.Name,
		Score:        score.Score,
		Breakdown: dto.ReliabilityBreakdownDTO{
			Recency:          score.Breakdown.Recency,
			Volume:           score.Breakdown.Volume,
			Variety:          score.Breakdown.Variety,
			PriceConsistency: score.Breakdown.PriceConsistency,
		},
		Recommendation: score.Recommendation,
		Summary:        summarize(events, now),
	}, nil
}

func summarize(events []entity.RestockEvent, now time.Time) dto.SupplierSummaryDTO {
	sum := dto.SupplierSummaryDTO{TotalSpent: decimal.Zero}
	products := make(map[string]struct{})
	var last time.Time
	for _, e := range events {
		sum.TotalRestocks++
		sum.TotalUnits += e.Quantity
		sum.TotalSpent = sum.TotalSpent.Add(e.TotalCost())
		products[e.ProductID] = struct{}{}
		if e.RestockDate.After(last) {
			last = e.RestockDate
		}
	}
	sum.DistinctProducts = len(products)
	if !last.IsZero() {
		days := int(restock.DaysSince(last, now))
		if days < 0 {
			days = 0
		}
		sum.LastSupplyDate = &last
		sum.DaysSinceLastSupply = &days
	}
	return sum
}

// fetch pasa por la caché si está configurada. Sin caché el resultado también se serializa,
// de modo que la respuesta es idéntica en ambos casos.
func (uc *IntelligenceUseCase) fetch(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if uc.cache != nil {
		return uc.cache.FetchJSON(ctx, key, dest, loader)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
