package board

import (
	"crypto/cipher"
	"errors"
	"math/big"

	"go.dedis.ch/kyber/v4/util/random"
)

const (
	// Size is the number of rows and columns of a board.
	Size = 5
	// ColumnSpan is how many consecutive numbers each column draws from.
	ColumnSpan = 15
	// MaxNumber is the highest number that can appear on a board.
	MaxNumber = Size * ColumnSpan
	// FreeCell marks the centre space, which counts as hit for every board.
	FreeCell = 0
)

var ErrUnknownBoard = errors.New("unknown board")

// Grid is the column-major content of a board.
type Grid [Size][Size]int

// Board is an immutable bingo card bound to one owner and one game.
type Board struct {
	ID     uint64 `json:"id"`
	Owner  string `json:"owner"`
	GameID uint64 `json:"game_id"`
	Cells  Grid   `json:"cells"`
}

// IsFree reports whether the cell at column c, row r is the free centre.
func IsFree(c, r int) bool {
	return c == Size/2 && r == Size/2
}

// ColumnRange returns the inclusive bounds of the numbers allowed in column c.
func ColumnRange(c int) (lo, hi int) {
	lo = c*ColumnSpan + 1
	return lo, lo + ColumnSpan - 1
}

// NewGrid lays out a board from the given entropy stream. Each column is a
// uniform sample without replacement from its own range.
func NewGrid(rand cipher.Stream) Grid {
	var g Grid
	for c := 0; c < Size; c++ {
		lo, _ := ColumnRange(c)
		pool := make([]int, ColumnSpan)
		for i := range pool {
			pool[i] = lo + i
		}
		// partial Fisher-Yates: the first Size slots become the sample
		for r := 0; r < Size; r++ {
			j := r + Uniform(ColumnSpan-r, rand)
			pool[r], pool[j] = pool[j], pool[r]
			g[c][r] = pool[r]
		}
	}
	g[Size/2][Size/2] = FreeCell
	return g
}

// Uniform returns an integer in [0, n) read from the entropy stream.
func Uniform(n int, rand cipher.Stream) int {
	if n <= 1 {
		return 0
	}
	return int(random.Int(big.NewInt(int64(n)), rand).Int64())
}
