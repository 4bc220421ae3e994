package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestDeriveFinalScore(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		got := DeriveFinalScore(f(80), f(90), f(77.5))
		require.NotNil(t, got)
		assert.Equal(t, 77.5, *got)
	})
	t.Run("mean of both components", func(t *testing.T) {
		got := DeriveFinalScore(f(80), f(90), nil)
		require.NotNil(t, got)
		assert.Equal(t, 85.0, *got)
	})
	t.Run("one component missing", func(t *testing.T) {
		assert.Nil(t, DeriveFinalScore(f(80), nil, nil))
		assert.Nil(t, DeriveFinalScore(nil, f(90), nil))
	})
	t.Run("nothing available", func(t *testing.T) {
		assert.Nil(t, DeriveFinalScore(nil, nil, nil))
	})
}
