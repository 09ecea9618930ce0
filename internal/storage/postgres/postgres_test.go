package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/logging"
)

func TestNew_DoesNotConnect(t *testing.T) {
	b := New(Dependencies{
		Config:     config.PostgresConfig{Host: "127.0.0.1", Port: "1"},
		LogManager: logging.NewSlogManager(),
	})
	require.NotNil(t, b)
}

func TestClose_BeforeInit(t *testing.T) {
	b := New(Dependencies{LogManager: logging.NewSlogManager()})
	assert.NoError(t, b.Close())
}
