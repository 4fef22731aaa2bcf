package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.RestockRepository = (*RestockRepo)(nil)

const restockColumns = `id, product_id, supplier_id, quantity, cost_price, restock_date, batch_number, created_by, created_at`

// RestockRepo implementación del puerto RestockRepository sobre PostgreSQL (usable con pool o tx).
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

// Create persiste un evento de reabastecimiento.
func (r *RestockRepo) Create(ctx context.Context, e *entity.RestockEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO restock_events (`+restockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ProductID, e.SupplierID, e.Quantity, e.CostPrice,
		e.RestockDate, e.BatchNumber, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert restock event: %w", err)
	}
	return nil
}

// List historial paginado (restock_date DESC) más el total filtrado.
func (r *RestockRepo) List(ctx context.Context, f repository.RestockFilter) ([]*entity.RestockEvent, int, error) {
	where, args := restockWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM restock_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count restock events: %w", err)
	}

	query := `SELECT ` + restockColumns + ` FROM restock_events` + where +
		fmt.Sprintf(` ORDER BY restock_date DESC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list restock events: %w", err)
	}
	events, err := scanRestocks(rows)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.RestockEvent, 0, len(events))
	for i := range events {
		list = append(list, &events[i])
	}
	return list, total, nil
}

// ListBySupplier entregas del proveedor hasta until (inclusive).
func (r *RestockRepo) ListBySupplier(ctx context.Context, supplierID string, until time.Time) ([]entity.RestockEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE supplier_id = $1 AND restock_date <= $2
		ORDER BY restock_date`, supplierID, until)
	if err != nil {
		return nil, fmt.Errorf("list by supplier: %w", err)
	}
	return scanRestocks(rows)
}

// ListByProduct todas las entregas de un producto.
func (r *RestockRepo) ListByProduct(ctx context.Context, productID string) ([]entity.RestockEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE product_id = $1
		ORDER BY restock_date`, productID)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	return scanRestocks(rows)
}

// ListAll todas las entregas hasta until (inclusive).
func (r *RestockRepo) ListAll(ctx context.Context, until time.Time) ([]entity.RestockEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE restock_date <= $1
		ORDER BY restock_date`, until)
	if err != nil {
		return nil, fmt.Errorf("list restock events: %w", err)
	}
	return scanRestocks(rows)
}

func scanRestocks(rows pgx.Rows) ([]entity.RestockEvent, error) {
	defer rows.Close()
	list := make([]entity.RestockEvent, 0)
	for rows.Next() {
		var e entity.RestockEvent
		if err := rows.Scan(&e.ID, &e.ProductID, &e.SupplierID, &e.Quantity, &e.CostPrice,
			&e.RestockDate, &e.BatchNumber, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restock event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
