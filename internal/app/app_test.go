package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/pankajredekar/shopadmin/internal/api"
	"github.com/pankajredekar/shopadmin/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = "sqlite://:memory:"
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Log.Level = "error"
	return cfg
}

func TestModuleValidates(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module(testConfig(), Options{})))
}

func TestAppServesHealth(t *testing.T) {
	var srv *api.Server
	app := New(testConfig(), Options{Migrate: true}, fx.Populate(&srv))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))
	defer func() {
		assert.NoError(t, app.Stop(ctx))
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get("http://" + srv.Addr() + "/api/products")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var products []map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&products))
	assert.Empty(t, products)
}
