package vectorscan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtremer/vectorscan/simd"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"default", func(*Config) {}, ""},
		{"width 16", func(c *Config) { c.Width = Width16 }, ""},
		{"scalable 64", func(c *Config) { c.Width = WidthScalable; c.ScalableBytes = 64 }, ""},
		{"negative width", func(c *Config) { c.Width = -1 }, "Width"},
		{"unknown width", func(c *Config) { c.Width = 7 }, "Width"},
		{"scalable too small", func(c *Config) { c.ScalableBytes = 8 }, "ScalableBytes"},
		{"scalable not a multiple", func(c *Config) { c.ScalableBytes = 40 }, "ScalableBytes"},
		{"scalable too large", func(c *Config) { c.ScalableBytes = 512 }, "ScalableBytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.edit(&config)
			err := config.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "%v", err)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Error(), "vectorscan: invalid config: "+tt.field)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.ScalableBytes = 3
	_, err := CompileWithConfig(`\d`, config)
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestConfigResolve(t *testing.T) {
	tests := []struct {
		features simd.Features
		want     Width
	}{
		{simd.Features{}, Width16},
		{simd.Features{Shuffle: true}, Width16},
		{simd.Features{Shuffle: true, Wide: true}, Width32},
		{simd.Features{Shuffle: true, Scalable: true}, WidthScalable},
	}
	for _, tt := range tests {
		got := DefaultConfig().resolve(tt.features)
		assert.Equal(t, tt.want, got.Width, "%+v", tt.features)
		assert.Equal(t, simd.DefaultScalableBytes(), got.ScalableBytes)
		assert.NotNil(t, got.Logger)
	}

	explicit := Config{Width: Width16, ScalableBytes: 128}
	got := explicit.resolve(simd.Features{Wide: true})
	assert.Equal(t, Width16, got.Width)
	assert.Equal(t, 128, got.ScalableBytes)
}

func TestWidthString(t *testing.T) {
	assert.Equal(t, "auto", WidthAuto.String())
	assert.Equal(t, "16", Width16.String())
	assert.Equal(t, "32", Width32.String())
	assert.Equal(t, "scalable", WidthScalable.String())
	assert.Equal(t, "Width(9)", Width(9).String())
}
