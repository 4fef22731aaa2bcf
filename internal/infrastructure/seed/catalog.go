// Package seed carga el catálogo inicial (proveedores y productos) desde CSV y crea el usuario administrador.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Columnas del CSV (con encabezado):
//
//	product_id,nombre,codigo_barras,proveedor_id,proveedor,cantidad,stock_minimo,costo,precio_venta,vencimiento
//
// vencimiento en AAAA-MM-DD y proveedor_id pueden ir vacíos. Los códigos que no son UUID se
// convierten en un UUID estable (SHA-1), así repetir la carga no duplica registros.
const catalogColumns = 10

var catalogNamespace = uuid.MustParse("6f1c2b7e-3d0a-5b7c-9e4f-1a2b3c4d5e6f")

// ProductCreator alta de productos.
type ProductCreator interface {
	Create(ctx context.Context, p *entity.Product) error
}

// SupplierCreator alta de proveedores.
type SupplierCreator interface {
	Create(ctx context.Context, s *entity.Supplier) error
}

// UserCreator alta de usuarios.
type UserCreator interface {
	Create(ctx context.Context, u *entity.User) error
}

// Result conteo de la carga.
type Result struct {
	Suppliers int
	Products  int
	Skipped   int // filas inválidas o duplicadas
}

// Loader inserta el catálogo ignorando duplicados, como un INSERT OR IGNORE.
type Loader struct {
	products  ProductCreator
	suppliers SupplierCreator
	log       *logger.Logger
	now       func() time.Time
}

// NewLoader construye el cargador.
func NewLoader(products ProductCreator, suppliers SupplierCreator, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{products: products, suppliers: suppliers, log: log.Component("seed"), now: time.Now}
}

// LoadCatalog lee el CSV. Con latin1 decodifica ISO-8859-1 (exportaciones de Excel).
func (l *Loader) LoadCatalog(ctx context.Context, r io.Reader, latin1 bool) (Result, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Encabezado
	if _, err := reader.Read(); err != nil {
		return Result{}, fmt.Errorf("seed: leer encabezado: %w", err)
	}

	var res Result
	seen := make(map[string]struct{})
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			l.log.Warn().Err(err).Int("line", line).Msg("fila ilegible")
			res.Skipped++
			continue
		}
		product, supplier, err := l.parseRow(record)
		if err != nil {
			l.log.Warn().Err(err).Int("line", line).Msg("fila inválida")
			res.Skipped++
			continue
		}

		if supplier != nil {
			if _, ok := seen[supplier.ID]; !ok {
				seen[supplier.ID] = struct{}{}
				switch err := l.suppliers.Create(ctx, supplier); {
				case err == nil:
					res.Suppliers++
				case errors.Is(err, domain.ErrDuplicate):
				default:
					return res, fmt.Errorf("seed: proveedor %s: %w", supplier.ID, err)
				}
			}
		}

		switch err := l.products.Create(ctx, product); {
		case err == nil:
			res.Products++
		case errors.Is(err, domain.ErrDuplicate):
			res.Skipped++
		default:
			return res, fmt.Errorf("seed: producto %s (línea %d): %w", product.ID, line, err)
		}
	}
	l.log.Info().Int("suppliers", res.Suppliers).Int("products", res.Products).Int("skipped", res.Skipped).Msg("catálogo cargado")
	return res, nil
}

func (l *Loader) parseRow(record []string) (*entity.Product, *entity.Supplier, error) {
	if len(record) < catalogColumns {
		return nil, nil, fmt.Errorf("se esperaban %d columnas, hay %d", catalogColumns, len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	name := record[1]
	if name == "" {
		return nil, nil, errors.New("nombre vacío")
	}
	qty, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil || qty < 0 {
		return nil, nil, fmt.Errorf("cantidad inválida %q", record[5])
	}
	minStock, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil || minStock < 0 {
		return nil, nil, fmt.Errorf("stock mínimo inválido %q", record[6])
	}
	cost, err := parseMoney(record[7])
	if err != nil {
		return nil, nil, fmt.Errorf("costo inválido %q", record[7])
	}
	price, err := parseMoney(record[8])
	if err != nil {
		return nil, nil, fmt.Errorf("precio inválido %q", record[8])
	}

	now := l.now().UTC()
	p := &entity.Product{
		ID:         CatalogID(record[0]),
		Name:       name,
		Barcode:    record[2],
		SupplierID: CatalogID(record[3]),
		Quantity:   qty,
		MinStock:   minStock,
		CostPrice:  cost,
		SalePrice:  price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if record[9] != "" {
		exp, err := time.Parse(time.DateOnly, record[9])
		if err != nil {
			return nil, nil, fmt.Errorf("vencimiento inválido %q", record[9])
		}
		p.ExpiryDate = &exp
	}

	var s *entity.Supplier
	if p.SupplierID != "" {
		supplierName := record[4]
		if supplierName == "" {
			supplierName = record[3]
		}
		s = &entity.Supplier{ID: p.SupplierID, Name: supplierName, Active: true, CreatedAt: now, UpdatedAt: now}
	}
	return p, s, nil
}

// CatalogID devuelve raw si ya es un UUID; si no, un UUID derivado de raw. Vacío sigue vacío.
func CatalogID(raw string) string {
	if raw == "" {
		return ""
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(catalogNamespace, []byte(raw)).String()
}

// parseMoney acepta "1250.50" y "1250,50"; vacío es cero.
func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negativo")
	}
	return d, nil
}

// EnsureAdmin crea el usuario administrador; si ya existe no hace nada y devuelve false.
func EnsureAdmin(ctx context.Context, users UserCreator, username, password, name string) (bool, error) {
	if username == "" || password == "" {
		return false, domain.NewValidationError("username", "usuario y contraseña requeridos")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("seed: hash: %w", err)
	}
	now := time.Now().UTC()
	err = users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed: crear admin: %w", err)
	}
	return true, nil
}
