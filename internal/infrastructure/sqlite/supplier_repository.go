package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, contact_name, phone, email, address, active, created_at, updated_at`

type supplierRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ContactName string `db:"contact_name"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	Address     string `db:"address"`
	Active      bool   `db:"active"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r supplierRow) toEntity() (*entity.Supplier, error) {
	s := &entity.Supplier{
		ID:          r.ID,
		Name:        r.Name,
		ContactName: r.ContactName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		Active:      r.Active,
	}
	var err error
	if s.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// SupplierRepo proveedores sobre SQLite.
type SupplierRepo struct {
	q sqlx.ExtContext
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q sqlx.ExtContext) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor (semillas y tests).
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.Active,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID. (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var row supplierRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier by id: %w", err)
	}
	return row.toEntity()
}

// List proveedores por nombre; onlyActive excluye los inactivos.
func (r *SupplierRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if onlyActive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name, id`

	var rows []supplierRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	list := make([]*entity.Supplier, 0, len(rows))
	for _, row := range rows {
		s, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}
