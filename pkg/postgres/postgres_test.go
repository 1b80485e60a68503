package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPoolSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, defaultPoolSettings(), newPoolSettings())
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		s := newPoolSettings(
			WithConnMaxIdleTime(0),
			WithConnMaxLifetime(0),
			WithMaxIdleConns(0),
			WithMaxOpenConns(-1),
		)

		assert.Equal(t, defaultPoolSettings(), s)
	})

	t.Run("overrides", func(t *testing.T) {
		s := newPoolSettings(
			WithConnMaxIdleTime(time.Minute),
			WithConnMaxLifetime(time.Hour),
			WithMaxIdleConns(2),
			WithMaxOpenConns(10),
		)

		assert.Equal(t, poolSettings{
			connMaxIdleTime: time.Minute,
			connMaxLifetime: time.Hour,
			maxIdleConns:    2,
			maxOpenConns:    10,
		}, s)
	})
}
