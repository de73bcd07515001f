package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SixDigitRange(t *testing.T) {
	g := NewGenerator(6)
	for i := 0; i < 2000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNewGenerator_DefaultsAndClamps(t *testing.T) {
	assert.Equal(t, DefaultDigits, NewGenerator(0).Digits())
	assert.Equal(t, DefaultDigits, NewGenerator(-3).Digits())
	assert.Equal(t, maxDigits, NewGenerator(40).Digits())
}

func TestGenerate_CustomLength(t *testing.T) {
	g := NewGenerator(8)
	code, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.NotEqual(t, byte('0'), code[0])
}

func TestGenerate_SingleDigitNeverZero(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 200; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.NotEqual(t, "0", code)
		assert.Len(t, code, 1)
	}
}
