package database

import (
	"testing"

	"github.com/lxdao/fairsharing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "localhost", Port: 5432, User: "fs", DBName: "fairsharing", SSLMode: "disable"}

	d, err := Dialector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	cfg.Driver = "mysql"
	cfg.Port = 3306
	d, err = Dialector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	cfg.Driver = "sqlite"
	_, err = Dialector(cfg)
	assert.Error(t, err)
}
