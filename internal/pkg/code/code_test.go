package code

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_RangeAndFormat(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 10000; i++ {
		c, err := g.Next()
		require.NoError(t, err)
		require.Len(t, c, 6)
		for _, r := range c {
			require.True(t, r >= '0' && r <= '9', "non-digit in %q", c)
		}
		n, err := strconv.Atoi(c)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, Min)
		require.LessOrEqual(t, n, Max)
	}
}

func TestNext_NotConstant(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		c, err := g.Next()
		require.NoError(t, err)
		seen[c] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestFixed(t *testing.T) {
	c, err := Fixed("123456").Next()
	require.NoError(t, err)
	assert.Equal(t, "123456", c)
}
