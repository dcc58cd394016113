package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	t.Parallel()
	cfg := Config{User: "svc", Pass: "s3cret", Host: "db.local", Port: "3306", Name: "accounts"}
	assert.Equal(t,
		"svc:s3cret@tcp(db.local:3306)/accounts?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}

func TestConfig_DSN_NoPassword(t *testing.T) {
	t.Parallel()
	cfg := Config{User: "svc", Host: "localhost", Port: "3306", Name: "accounts"}
	assert.Equal(t,
		"svc@tcp(localhost:3306)/accounts?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}
