package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/storage"
	"github.com/jhoicas/Farmacia-api/pkg/config"
)

func TestOpen_SQLiteEnMemoria(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, config.DriverSQLite, store.Driver)
	require.NoError(t, store.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Cofarma", Active: true}))
	require.NoError(t, store.Products.Create(ctx, &entity.Product{
		ID: "p1", Name: "Loratadina 10mg", Quantity: 5, MinStock: 10, CostPrice: decimal.NewFromInt(90),
	}))

	levels, err := store.Products.ListStockLevels(ctx, true)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "p1", levels[0].ID)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DBConfig{Driver: "oracle"}, nil)
	assert.Error(t, err)
}

func TestStore_CloseNil(t *testing.T) {
	var s *storage.Store
	assert.NotPanics(t, s.Close)
}
