package container

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masscal/internal/config"
)

func TestNew_WiresServer(t *testing.T) {
	cfg := config.Default()
	cfg.Server.GinMode = "test"

	c, err := New(cfg, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, c.Calibrator)
	require.NotNil(t, c.Server)

	rec := httptest.NewRecorder()
	c.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, io.Discard)
	assert.Error(t, err)
}

func TestReadingsSource(t *testing.T) {
	c, err := New(config.Default(), io.Discard)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, os.WriteFile(path, []byte("standard,test\n0,0.1\n0,0.2\n"), 0o600))

	readings, err := c.ReadingsSource(path, "").LoadReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, readings.Test)
}
