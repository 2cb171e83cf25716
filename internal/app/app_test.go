package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LabMaster/internal/config"
	"github.com/JonMunkholm/LabMaster/internal/core"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Persistence.Driver = driver
	cfg.Persistence.SQLitePath = filepath.Join(t.TempDir(), "labmaster.db")
	cfg.Import.MaxConcurrent = 2
	cfg.Import.MaxConcurrentCategories = 2
	cfg.Query.Locale = "en"
	cfg.Query.MaxPageSize = 100
	return cfg
}

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			a, err := Open(ctx, testConfig(t, driver), nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = a.Close() })

			report, err := a.Service.Import(ctx, "paymentMethods", []byte("Name *\nCash\nUPI\n"))
			require.NoError(t, err)
			assert.Equal(t, 2, report.SuccessCount)

			result, err := a.Service.Query(ctx, "paymentMethods", core.QueryState{SortField: "name"})
			require.NoError(t, err)
			require.Equal(t, 2, result.TotalMatched)
			assert.Equal(t, "Cash", result.Items[0]["name"])
		})
	}
}

func TestOpen_RemoteNeedsURL(t *testing.T) {
	cfg := testConfig(t, config.DriverRemote)
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, "mongo"), nil)
	assert.ErrorContains(t, err, "unknown store driver")
}
