package database

import (
	"strings"
	"testing"
	"time"

	"clinic-booking/core/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:                   "db",
		Port:                   5433,
		User:                   "clinic",
		Password:               "secret",
		DBName:                 "booking",
		StatementTimeout:       3 * time.Second,
		IdleInTxSessionTimeout: 30 * time.Second,
	})

	assert.True(t, strings.HasPrefix(dsn, "host=db port=5433 user=clinic password=secret dbname=booking sslmode=disable"))
	assert.Contains(t, dsn, "statement_timeout=3000")
	assert.Contains(t, dsn, "idle_in_transaction_session_timeout=30000")
}

func TestDSNWithoutTimeouts(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "h", Port: 1, SSLMode: "require"})

	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "statement_timeout")
}
