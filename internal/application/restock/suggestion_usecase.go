package restock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/restock"
)

// SuggestionUseCase genera la lista de pedido para productos en o bajo su stock mínimo.
type SuggestionUseCase struct {
	productRepo repository.ProductRepository
	restockRepo repository.RestockRepository
	pdf         SuggestionPDFGenerator
	title       string
	now         func() time.Time
}

// NewSuggestionUseCase construye el caso de uso. pdf puede ser nil si no se expone la hoja PDF.
// title encabeza la hoja de pedido (nombre de la farmacia).
func NewSuggestionUseCase(
	productRepo repository.ProductRepository,
	restockRepo repository.RestockRepository,
	pdf SuggestionPDFGenerator,
	title string,
) *SuggestionUseCase {
	return &SuggestionUseCase{
		productRepo: productRepo,
		restockRepo: restockRepo,
		pdf:         pdf,
		title:       title,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SuggestionUseCase) WithClock(now func() time.Time) *SuggestionUseCase {
	uc.now = now
	return uc
}

// Suggestions calcula las sugerencias de pedido ordenadas por prioridad.
// El costo de referencia es el de la última entrega del producto; sin historial se usa el costo del producto.
func (uc *SuggestionUseCase) Suggestions(ctx context.Context) (*dto.RestockSuggestionsResponse, error) {
	now := uc.now()

	products, err := uc.productRepo.ListStockLevels(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("sugerencias: listar stock: %w", err)
	}
	events, err := uc.restockRepo.ListAll(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("sugerencias: listar entregas: %w", err)
	}

	lastCosts := restock.LastCostByProduct(events)
	levels := make([]restock.StockLevel, 0, len(products))
	names := make(map[string]string, len(products))
	for _, p := range products {
		levels = append(levels, restock.StockLevel{
			ProductID:       p.ID,
			CurrentQuantity: p.Quantity,
			MinStock:        p.MinStock,
		})
		names[p.ID] = p.Name
		if _, ok := lastCosts[p.ID]; !ok {
			lastCosts[p.ID] = p.CostPrice
		}
	}

	suggestions, err := restock.Suggest(levels, lastCosts)
	if err != nil {
		return nil, err
	}

	resp := &dto.RestockSuggestionsResponse{
		GeneratedAt:        now,
		Items:              make([]dto.RestockSuggestionDTO, 0, len(suggestions)),
		TotalEstimatedCost: decimal.Zero,
		CountByPriority: map[string]int{
			string(restock.PriorityCritical): 0,
			string(restock.PriorityHigh):     0,
			string(restock.PriorityMedium):   0,
			string(restock.PriorityLow):      0,
		},
	}
	for _, s := range suggestions {
		estimated := s.LastCostPrice.Mul(decimal.NewFromInt(s.SuggestedQuantity))
		resp.Items = append(resp.Items, dto.RestockSuggestionDTO{
			ProductID:          s.ProductID,
			ProductName:        names[s.ProductID],
			CurrentQuantity:    s.CurrentQuantity,
			MinStock:           s.MinStock,
			SuggestedQuantity:  s.SuggestedQuantity,
			LastCostPrice:      s.LastCostPrice,
			EstimatedOrderCost: estimated,
			Priority:           string(s.Priority),
		})
		resp.TotalUnits += s.SuggestedQuantity
		resp.TotalEstimatedCost = resp.TotalEstimatedCost.Add(estimated)
		resp.CountByPriority[string(s.Priority)]++
	}
	resp.TotalItems = len(resp.Items)
	return resp, nil
}

// SuggestionsPDF genera la hoja de pedido en PDF. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *SuggestionUseCase) SuggestionsPDF(ctx context.Context) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("sugerencias: generador PDF no configurado")
	}
	sheet, err := uc.Suggestions(ctx)
	if err != nil {
		return nil, "", err
	}
	raw, err := uc.pdf.GenerateRestockSheet(ctx, uc.title, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("sugerencias: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("pedido-%s.pdf", sheet.GeneratedAt.Format("20060102-1504"))
	return raw, filename, nil
}
