package restock

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// HistoryUseCase consulta el historial de reabastecimiento.
type HistoryUseCase struct {
	restockRepo repository.RestockRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(restockRepo repository.RestockRepository) *HistoryUseCase {
	return &HistoryUseCase{restockRepo: restockRepo}
}

// ListRestocks devuelve una página del historial (más recientes primero) con filtros opcionales.
func (uc *HistoryUseCase) ListRestocks(ctx context.Context, in dto.RestockHistoryRequest) (*dto.RestockHistoryResponse, error) {
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, domain.NewValidationError("from", "debe ser anterior a to")
	}
	in.DefaultPage()

	events, total, err := uc.restockRepo.List(ctx, repository.RestockFilter{
		ProductID:  in.ProductID,
		SupplierID: in.SupplierID,
		From:       in.From,
		To:         in.To,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("restock: listar historial: %w", err)
	}

	items := make([]dto.RestockEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, ToRestockEventResponse(e))
	}
	return &dto.RestockHistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}
