package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_URL(t *testing.T) {
	c := &DatabaseConfig{
		Host:     "db.local",
		Port:     "5433",
		Name:     "stockpilot",
		User:     "pos",
		Password: "p@ss word",
		SSLMode:  "disable",
		Timezone: "UTC",
	}

	u, err := url.Parse(c.URL())
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.local:5433", u.Host)
	assert.Equal(t, "/stockpilot", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss word", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PRINTER_TYPE", "USB")
	t.Setenv("CREDIT_TERM_DAYS", "15")

	cfg := Load()

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "usb", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Equal(t, 5, cfg.Business.LowStockThreshold)
	assert.Equal(t, 15, cfg.Business.CreditTermDays)
	assert.False(t, cfg.App.IsProduction())
}
