package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/pkg/config"
)

func TestPoolConfig_LimitesDesdeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "farma", Password: "x", DBName: "farmacia", SSLMode: "disable",
		MaxConns:               12,
		MinConns:               3,
		MaxConnLifetimeMinutes: 45,
		MaxConnIdleMinutes:     10,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 45*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "farmacia", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLYValoresPorDefecto(t *testing.T) {
	cfg := config.DBConfig{DatabaseURL: "postgres://farma:x@pg.interno:6543/inventario?sslmode=disable&pool_max_conns=7"}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "pg.interno", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(7), pc.MaxConns, "sin límite en config se respeta el de la URL")
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://farma:x@db:puerto/farmacia"})
	assert.Error(t, err)
}
