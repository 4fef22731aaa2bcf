package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.RestockRepository = (*RestockRepo)(nil)

const restockColumns = `id, product_id, supplier_id, quantity, cost_price, restock_date, batch_number, created_by, created_at`

type restockRow struct {
	ID          string          `db:"id"`
	ProductID   string          `db:"product_id"`
	SupplierID  string          `db:"supplier_id"`
	Quantity    int64           `db:"quantity"`
	CostPrice   decimal.Decimal `db:"cost_price"`
	RestockDate string          `db:"restock_date"`
	BatchNumber string          `db:"batch_number"`
	CreatedBy   string          `db:"created_by"`
	CreatedAt   string          `db:"created_at"`
}

func (r restockRow) toEntity() (entity.RestockEvent, error) {
	date, err := parseTime(r.RestockDate)
	if err != nil {
		return entity.RestockEvent{}, err
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return entity.RestockEvent{}, err
	}
	return entity.RestockEvent{
		ID:          r.ID,
		ProductID:   r.ProductID,
		SupplierID:  r.SupplierID,
		Quantity:    r.Quantity,
		CostPrice:   r.CostPrice,
		RestockDate: date,
		BatchNumber: r.BatchNumber,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   created,
	}, nil
}

// RestockRepo eventos de reabastecimiento sobre SQLite (usable con *sqlx.DB o *sqlx.Tx).
type RestockRepo struct {
	q sqlx.ExtContext
}

// NewRestockRepository construye el adaptador.
func NewRestockRepository(q sqlx.ExtContext) *RestockRepo {
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
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO restock_events (`+restockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProductID, e.SupplierID, e.Quantity, e.CostPrice.String(),
		formatTime(e.RestockDate), e.BatchNumber, e.CreatedBy, formatTime(e.CreatedAt),
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
	var conds []string
	var args []any
	if f.ProductID != "" {
		conds = append(conds, "product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.SupplierID != "" {
		conds = append(conds, "supplier_id = ?")
		args = append(args, f.SupplierID)
	}
	if f.From != nil {
		conds = append(conds, "restock_date >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "restock_date <= ?")
		args = append(args, formatTime(*f.To))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM restock_events`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count restock events: %w", err)
	}

	var rows []restockRow
	query := `SELECT ` + restockColumns + ` FROM restock_events` + where + ` ORDER BY restock_date DESC, id LIMIT ? OFFSET ?`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, append(args, f.Limit, f.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("list restock events: %w", err)
	}
	list := make([]*entity.RestockEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			return nil, 0, err
		}
		list = append(list, &e)
	}
	return list, total, nil
}

// ListBySupplier entregas del proveedor hasta until (inclusive).
func (r *RestockRepo) ListBySupplier(ctx context.Context, supplierID string, until time.Time) ([]entity.RestockEvent, error) {
	return r.selectEvents(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE supplier_id = ? AND restock_date <= ?
		ORDER BY restock_date`, supplierID, formatTime(until))
}

// ListByProduct todas las entregas de un producto.
func (r *RestockRepo) ListByProduct(ctx context.Context, productID string) ([]entity.RestockEvent, error) {
	return r.selectEvents(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE product_id = ?
		ORDER BY restock_date`, productID)
}

// ListAll todas las entregas hasta until (inclusive).
func (r *RestockRepo) ListAll(ctx context.Context, until time.Time) ([]entity.RestockEvent, error) {
	return r.selectEvents(ctx, `
		SELECT `+restockColumns+` FROM restock_events
		WHERE restock_date <= ?
		ORDER BY restock_date`, formatTime(until))
}

func (r *RestockRepo) selectEvents(ctx context.Context, query string, args ...any) ([]entity.RestockEvent, error) {
	var rows []restockRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list restock events: %w", err)
	}
	list := make([]entity.RestockEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}
