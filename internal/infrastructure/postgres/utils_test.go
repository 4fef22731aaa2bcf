package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

func TestRestockWhere_SinFiltros(t *testing.T) {
	where, args := restockWhere(repository.RestockFilter{Limit: 20})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestRestockWhere_PlaceholdersEnOrden(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	where, args := restockWhere(repository.RestockFilter{
		SupplierID: "s1",
		From:       &from,
		To:         &to,
	})
	assert.Equal(t, " WHERE supplier_id = $1 AND restock_date >= $2 AND restock_date <= $3", where)
	assert.Equal(t, []any{"s1", from, to}, args)
}

func TestRestockWhere_ProductoYProveedor(t *testing.T) {
	where, args := restockWhere(repository.RestockFilter{ProductID: "p1", SupplierID: "s1"})
	assert.Equal(t, " WHERE product_id = $1 AND supplier_id = $2", where)
	assert.Len(t, args, 2)
}

func TestPgErrorCodes(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestNullableTime(t *testing.T) {
	assert.Nil(t, nullableTime(nil))
	now := time.Now()
	assert.Equal(t, now, nullableTime(&now))
}
