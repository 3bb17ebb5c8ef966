package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Addr    string        `env:"TEST_ADDR" envDefault:":8080"`
	Secret  string        `env:"TEST_SECRET,required"`
	Timeout time.Duration `env:"TEST_TIMEOUT" envDefault:"30s"`
}

func TestLoad(t *testing.T) {
	t.Run("parses values and defaults", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "s3cret")
		t.Setenv("TEST_TIMEOUT", "5s")

		var cfg testConfig
		require.NoError(t, Load(&cfg))

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "s3cret", cfg.Secret)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg testConfig
		err := Load(&cfg)
		assert.ErrorIs(t, err, ErrParsingConfig)
	})

	t.Run("nil pointer fails", func(t *testing.T) {
		err := Load[testConfig](nil)
		assert.ErrorIs(t, err, ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing required variable", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg testConfig
			MustLoad(&cfg)
		})
	})
}
