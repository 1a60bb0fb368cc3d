package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_StoreFailureReturnsError(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "missing", "dir", "products.db"))
	t.Setenv("LOG_LEVEL", "error")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize product store")
}
