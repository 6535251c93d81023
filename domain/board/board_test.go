package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v4/suites"
)

var testSuite = suites.MustFind("Ed25519")

func TestNewGridRespectsColumnRanges(t *testing.T) {
	for seed := 0; seed < 50; seed++ {
		g := NewGrid(testSuite.XOF([]byte{byte(seed)}))
		for c := 0; c < Size; c++ {
			lo, hi := ColumnRange(c)
			seen := make(map[int]bool)
			for r := 0; r < Size; r++ {
				if IsFree(c, r) {
					assert.Equal(t, FreeCell, g[c][r])
					continue
				}
				v := g[c][r]
				assert.GreaterOrEqual(t, v, lo, "column %d row %d", c, r)
				assert.LessOrEqual(t, v, hi, "column %d row %d", c, r)
				assert.False(t, seen[v], "duplicate %d in column %d", v, c)
				seen[v] = true
			}
		}
	}
}

func TestNewGridIsDeterministicForASeed(t *testing.T) {
	a := NewGrid(testSuite.XOF([]byte("block-hash")))
	b := NewGrid(testSuite.XOF([]byte("block-hash")))
	c := NewGrid(testSuite.XOF([]byte("other-hash")))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestUniformStaysInRange(t *testing.T) {
	rand := testSuite.XOF([]byte("uniform"))
	for i := 0; i < 500; i++ {
		v := Uniform(7, rand)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
	assert.Equal(t, 0, Uniform(1, rand))
}
