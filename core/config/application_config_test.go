package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mudler/LocalSD/core/config"
	"github.com/mudler/LocalSD/pkg/stablediffusion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationConfigDefaults(t *testing.T) {
	cfg := config.NewApplicationConfig()

	assert.Equal(t, config.DefaultModel, cfg.Model)
	assert.Equal(t, stablediffusion.SchedulerEulerAncestral, cfg.Scheduler)
	assert.Equal(t, ":8000", cfg.Address)
	assert.True(t, cfg.CORS)
	assert.Contains(t, cfg.CORSAllowOrigins, "http://localhost:5173")
}

func TestAppOptions(t *testing.T) {
	cfg := config.NewApplicationConfig(
		config.WithModel("stabilityai/stable-diffusion-2-1"),
		config.WithAddress(":9090"),
		config.WithThreads(4),
		config.WithF16(true),
		config.WithCorsAllowOrigins("http://localhost:1234"),
	)

	assert.Equal(t, "stabilityai/stable-diffusion-2-1", cfg.Model)
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, 4, cfg.Threads)
	assert.True(t, cfg.F16)
	assert.Equal(t, "http://localhost:1234", cfg.CORSAllowOrigins)
}

func TestEmptyOptionValuesKeepDefaults(t *testing.T) {
	cfg := config.NewApplicationConfig(
		config.WithModel(""),
		config.WithAddress(""),
		config.WithCorsAllowOrigins(""),
	)

	assert.Equal(t, config.DefaultModel, cfg.Model)
	assert.Equal(t, ":8000", cfg.Address)
	assert.Equal(t, config.DefaultCORSAllowOrigins, cfg.CORSAllowOrigins)
}

func TestApplyModelConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
model: dreamlike-art/dreamlike-photoreal-2.0
scheduler: euler_a
threads: 8
f16: true
`), 0o644))

	mc, err := config.ReadModelConfigFile(file)
	require.NoError(t, err)

	cfg := config.NewApplicationConfig(config.WithAddress(":9999"))
	require.NoError(t, cfg.ApplyModelConfig(mc))

	assert.Equal(t, "dreamlike-art/dreamlike-photoreal-2.0", cfg.Model)
	assert.Equal(t, 8, cfg.Threads)
	assert.True(t, cfg.F16)
	// Fields absent from the file keep their configured values.
	assert.Equal(t, ":9999", cfg.Address)
}

func TestReadModelConfigFileErrors(t *testing.T) {
	_, err := config.ReadModelConfigFile("/does/not/exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	file := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(file, []byte("model: [unterminated"), 0o644))
	_, err = config.ReadModelConfigFile(file)
	assert.Error(t, err)
}
