package restock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/restock"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// RegisterRestockUseCase registra entradas de mercancía de forma transaccional:
// bloquea el producto, guarda el evento, suma el stock y recalcula el costo promedio ponderado.
type RegisterRestockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	cache        ports.Cache
	log          *logger.Logger
	now          func() time.Time
}

// NewRegisterRestockUseCase construye el caso de uso. cache puede ser nil.
func NewRegisterRestockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	cache ports.Cache,
	log *logger.Logger,
) *RegisterRestockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterRestockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		cache:        cache,
		log:          log.Component("register_restock"),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RegisterRestockUseCase) WithClock(now func() time.Time) *RegisterRestockUseCase {
	uc.now = now
	return uc
}

// RegisterRestock valida la entrada, verifica que producto y proveedor existan y aplica la entrada
// en una sola transacción. Invalida la caché de inteligencia al confirmar.
func (uc *RegisterRestockUseCase) RegisterRestock(ctx context.Context, userID string, in dto.RegisterRestockRequest) (*dto.RegisterRestockResponse, error) {
	now := uc.now()
	restockDate := now
	if in.RestockDate != nil {
		restockDate = *in.RestockDate
	}
	event := &entity.RestockEvent{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		SupplierID:  in.SupplierID,
		Quantity:    in.Quantity,
		CostPrice:   in.CostPrice,
		RestockDate: restockDate,
		BatchNumber: in.BatchNumber,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
	if err := restock.ValidateEvent(*event); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("restock: obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("restock: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if !supplier.Active {
		return nil, domain.NewValidationError("supplier_id", "proveedor inactivo")
	}

	var newQty int64
	var out *dto.RegisterRestockResponse
	err = uc.txRunner.Run(ctx, func(restockRepo repository.RestockRepository, productRepo repository.ProductRepository) error {
		// Bloquea la fila del producto para que dos entradas simultáneas no pisen el costo.
		locked, err := productRepo.GetForUpdate(ctx, event.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newQty = locked.Quantity + event.Quantity
		newCost := restock.WeightedAverageCost(locked.Quantity, locked.CostPrice, event.Quantity, event.CostPrice)

		if err := restockRepo.Create(ctx, event); err != nil {
			return err
		}
		if err := productRepo.UpdateStockAndCost(ctx, event.ProductID, newQty, newCost); err != nil {
			return err
		}
		out = &dto.RegisterRestockResponse{
			Event:       ToRestockEventResponse(event),
			NewQuantity: newQty,
			NewCost:     newCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Str("product_id", event.ProductID).Msg("no se pudo invalidar la caché de inteligencia")
		}
	}
	uc.log.Info().
		Str("restock_id", event.ID).
		Str("product_id", event.ProductID).
		Str("supplier_id", event.SupplierID).
		Int64("quantity", event.Quantity).
		Int64("new_quantity", newQty).
		Msg("entrada registrada")
	return out, nil
}

// ToRestockEventResponse convierte la entidad a DTO.
func ToRestockEventResponse(e *entity.RestockEvent) dto.RestockEventResponse {
	return dto.RestockEventResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		SupplierID:  e.SupplierID,
		Quantity:    e.Quantity,
		CostPrice:   e.CostPrice,
		TotalCost:   e.TotalCost(),
		RestockDate: e.RestockDate,
		BatchNumber: e.BatchNumber,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
