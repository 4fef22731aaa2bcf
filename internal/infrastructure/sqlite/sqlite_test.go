package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	apprestock "github.com/jhoicas/Farmacia-api/internal/application/restock"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
)

var t0 = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	ctx := context.Background()
	suppliers := sqlite.NewSupplierRepository(db)
	require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Cofarma", Active: true, CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: "s2", Name: "Audifarma", Active: false, CreatedAt: t0, UpdatedAt: t0}))

	products := sqlite.NewProductRepository(db)
	require.NoError(t, products.Create(ctx, &entity.Product{
		ID: "p1", Name: "Acetaminofén 500mg", Quantity: 10, MinStock: 20,
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(180),
		CreatedAt: t0, UpdatedAt: t0,
	}))
	exp := t0.AddDate(1, 0, 0)
	require.NoError(t, products.Create(ctx, &entity.Product{
		ID: "p2", Name: "Ibuprofeno 400mg", SupplierID: "s1", Quantity: 50, MinStock: 10,
		CostPrice: decimal.RequireFromString("250.5"), ExpiryDate: &exp,
		CreatedAt: t0, UpdatedAt: t0,
	}))
}

func TestOpen_MigracionIdempotente(t *testing.T) {
	db := openDB(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db))
}

func TestProductRepo_LecturaYNiveles(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	ctx := context.Background()
	repo := sqlite.NewProductRepository(db)

	p, err := repo.GetByID(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "s1", p.SupplierID)
	assert.True(t, p.CostPrice.Equal(decimal.RequireFromString("250.5")))
	require.NotNil(t, p.ExpiryDate)
	assert.True(t, p.ExpiryDate.Equal(t0.AddDate(1, 0, 0)))

	missing, err := repo.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)

	low, err := repo.ListStockLevels(ctx, true)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)

	all, err := repo.ListStockLevels(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, repo.UpdateStockAndCost(ctx, "nada", 1, decimal.Zero), domain.ErrNotFound)
}

func TestSupplierRepo_List(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	repo := sqlite.NewSupplierRepository(db)

	active, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Cofarma", active[0].Name)

	all, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Audifarma", all[0].Name)
	assert.False(t, all[0].Active)
}

func TestRestockRepo_ListaYFiltra(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	ctx := context.Background()
	repo := sqlite.NewRestockRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.RestockEvent{
			ProductID:   "p1",
			SupplierID:  "s1",
			Quantity:    int64(10 + i),
			CostPrice:   decimal.NewFromInt(int64(90 + i)),
			RestockDate: t0.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, repo.Create(ctx, &entity.RestockEvent{
		ProductID: "p2", SupplierID: "s2", Quantity: 1, CostPrice: decimal.NewFromInt(7), RestockDate: t0,
	}))

	page, total, err := repo.List(ctx, repository.RestockFilter{ProductID: "p1", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].RestockDate.Equal(t0.AddDate(0, 0, 3)), "más recientes primero")
	assert.True(t, page[1].RestockDate.Equal(t0.AddDate(0, 0, 2)))

	from := t0.AddDate(0, 0, 1)
	to := t0.AddDate(0, 0, 2)
	_, total, err = repo.List(ctx, repository.RestockFilter{From: &from, To: &to, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	bySupplier, err := repo.ListBySupplier(ctx, "s1", t0.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, bySupplier, 3)
	assert.True(t, bySupplier[0].CostPrice.Equal(decimal.NewFromInt(90)))

	byProduct, err := repo.ListByProduct(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, "s2", byProduct[0].SupplierID)

	everything, err := repo.ListAll(ctx, t0.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, everything, 6)
}

func TestRestockRepo_ProductoInexistente(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	err := sqlite.NewRestockRepository(db).Create(context.Background(), &entity.RestockEvent{
		ProductID: "fantasma", SupplierID: "s1", Quantity: 1, CostPrice: decimal.NewFromInt(1), RestockDate: t0,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db := openDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{
		ID: "u1", Username: "regente", PasswordHash: "hash", Name: "Regente", Role: entity.RolePharmacist,
		Active: true, CreatedAt: t0, UpdatedAt: t0,
	}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{
		ID: "u2", Username: "regente", PasswordHash: "x", Role: entity.RoleCashier, CreatedAt: t0, UpdatedAt: t0,
	}), domain.ErrDuplicate)

	u, err := repo.GetByUsername(ctx, "regente")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RolePharmacist, u.Role)
	assert.True(t, u.Active)

	u, err = repo.GetByUsername(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	ctx := context.Background()
	boom := errors.New("falla a mitad de la transacción")

	err := sqlite.NewTxRunner(db).Run(ctx, func(restocks repository.RestockRepository, products repository.ProductRepository) error {
		require.NoError(t, restocks.Create(ctx, &entity.RestockEvent{
			ProductID: "p1", SupplierID: "s1", Quantity: 5, CostPrice: decimal.NewFromInt(1), RestockDate: t0,
		}))
		require.NoError(t, products.UpdateStockAndCost(ctx, "p1", 15, decimal.NewFromInt(1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	events, err := sqlite.NewRestockRepository(db).ListAll(ctx, t0.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, events)
	p, err := sqlite.NewProductRepository(db).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)
}

// Registro completo contra SQLite: evento persistido, stock sumado y costo promedio recalculado.
func TestRegisterRestock_ExtremoAExtremo(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	ctx := context.Background()
	products := sqlite.NewProductRepository(db)

	uc := apprestock.NewRegisterRestockUseCase(
		sqlite.NewTxRunner(db), products, sqlite.NewSupplierRepository(db), nil, nil,
	).WithClock(func() time.Time { return t0 })

	out, err := uc.RegisterRestock(ctx, "u1", dto.RegisterRestockRequest{
		ProductID:  "p1",
		SupplierID: "s1",
		Quantity:   10,
		CostPrice:  decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.NewQuantity)
	assert.True(t, out.NewCost.Equal(decimal.NewFromInt(90)), "costo %s", out.NewCost)

	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.Quantity)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(90)))

	events, err := sqlite.NewRestockRepository(db).ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].CreatedBy)
	assert.True(t, events[0].RestockDate.Equal(t0))

	_, err = uc.RegisterRestock(ctx, "u1", dto.RegisterRestockRequest{
		ProductID: "p1", SupplierID: "s2", Quantity: 1, CostPrice: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor inactivo")
}
