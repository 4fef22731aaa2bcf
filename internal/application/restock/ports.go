package restock

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el evento y la actualización de stock/costo se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		restockRepo repository.RestockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// SuggestionPDFGenerator genera la hoja de pedido en PDF a partir de las sugerencias.
type SuggestionPDFGenerator interface {
	GenerateRestockSheet(ctx context.Context, title string, sheet *dto.RestockSuggestionsResponse) ([]byte, error)
}
