package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("accepts default pools", func(t *testing.T) {
		s, err := New(DefaultPools(), nil)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("rejects empty pool", func(t *testing.T) {
		pools := DefaultPools()
		pools[CategoryLunch] = nil

		_, err := New(pools, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `category "lunch" is empty`)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		pools := DefaultPools()
		pools[Category("nap")] = []string{"zzz"}

		_, err := New(pools, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown quote category")
	})
}

func TestPick_Deterministic(t *testing.T) {
	s, err := New(DefaultPools(), First)
	require.NoError(t, err)

	for _, c := range Categories {
		assert.Equal(t, DefaultPools()[c][0], s.Pick(c))
	}
}

func TestPick_UsesChooseIndex(t *testing.T) {
	var seen []int
	s, err := New(DefaultPools(), func(n int) int {
		seen = append(seen, n)
		return n - 1
	})
	require.NoError(t, err)

	pool := DefaultPools()[CategoryReset]
	assert.Equal(t, pool[len(pool)-1], s.Pick(CategoryReset))
	assert.Equal(t, []int{len(pool)}, seen)
}

func TestPick_OutOfRangeFallsBackToFirst(t *testing.T) {
	s, err := New(DefaultPools(), func(n int) int { return n + 5 })
	require.NoError(t, err)
	assert.Equal(t, DefaultPools()[CategoryIn][0], s.Pick(CategoryIn))
}

func TestPick_RandomStaysInPool(t *testing.T) {
	s := Default()
	pool := s.Pool(CategoryOut)
	for i := 0; i < 100; i++ {
		assert.Contains(t, pool, s.Pick(CategoryOut))
	}
}

func TestPick_UnknownCategory(t *testing.T) {
	assert.Equal(t, "", Default().Pick(Category("nap")))
}

func TestMerge(t *testing.T) {
	base := DefaultPools()
	merged := base.Merge(Pools{CategoryIn: {"custom"}, CategoryOut: nil})

	assert.Equal(t, []string{"custom"}, merged[CategoryIn])
	assert.Equal(t, base[CategoryOut], merged[CategoryOut])

	merged[CategoryLunch][0] = "changed"
	assert.NotEqual(t, "changed", base[CategoryLunch][0])
}
