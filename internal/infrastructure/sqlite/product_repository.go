package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, barcode, category_id, COALESCE(supplier_id, '') AS supplier_id, quantity, min_stock,
	cost_price, sale_price, expiry_date, created_at, updated_at`

type productRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	Barcode    string          `db:"barcode"`
	CategoryID string          `db:"category_id"`
	SupplierID string          `db:"supplier_id"`
	Quantity   int64           `db:"quantity"`
	MinStock   int64           `db:"min_stock"`
	CostPrice  decimal.Decimal `db:"cost_price"`
	SalePrice  decimal.Decimal `db:"sale_price"`
	ExpiryDate sql.NullString  `db:"expiry_date"`
	CreatedAt  string          `db:"created_at"`
	UpdatedAt  string          `db:"updated_at"`
}

func (r productRow) toEntity() (*entity.Product, error) {
	p := &entity.Product{
		ID:         r.ID,
		Name:       r.Name,
		Barcode:    r.Barcode,
		CategoryID: r.CategoryID,
		SupplierID: r.SupplierID,
		Quantity:   r.Quantity,
		MinStock:   r.MinStock,
		CostPrice:  r.CostPrice,
		SalePrice:  r.SalePrice,
	}
	var err error
	if r.ExpiryDate.Valid {
		exp, err := parseTime(r.ExpiryDate.String)
		if err != nil {
			return nil, err
		}
		p.ExpiryDate = &exp
	}
	if p.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductRepo productos sobre SQLite (usable con *sqlx.DB o *sqlx.Tx).
type ProductRepo struct {
	q sqlx.ExtContext
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q sqlx.ExtContext) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto (semillas y tests).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	var supplierID, expiry any
	if p.SupplierID != "" {
		supplierID = p.SupplierID
	}
	if p.ExpiryDate != nil {
		expiry = formatTime(*p.ExpiryDate)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, name, barcode, category_id, supplier_id, quantity, min_stock, cost_price, sale_price, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Barcode, p.CategoryID, supplierID, p.Quantity, p.MinStock,
		p.CostPrice.String(), p.SalePrice.String(), expiry, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return row.toEntity()
}

// GetForUpdate en SQLite la transacción ya serializa a los escritores.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// UpdateStockAndCost fija cantidad y costo promedio ponderado tras una entrada.
func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, productID string, quantity int64, cost decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET quantity = ?, cost_price = ?, updated_at = ? WHERE id = ?`,
		quantity, cost.String(), formatTime(time.Now()), productID,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListStockLevels lista productos por nombre; onlyLow filtra quantity <= min_stock.
func (r *ProductRepo) ListStockLevels(ctx context.Context, onlyLow bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if onlyLow {
		query += ` WHERE quantity <= min_stock`
	}
	query += ` ORDER BY name, id`

	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}
