package bingo

import "github.com/luca-patrignani/ledger-bingo/domain/board"

// IsWinningBoard reports whether any row, any column or either diagonal of
// cells is fully hit by drawn. The free centre is always hit.
func IsWinningBoard(cells board.Grid, drawn []int) bool {
	set := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		set[n] = true
	}
	hit := func(c, r int) bool {
		return board.IsFree(c, r) || set[cells[c][r]]
	}

	line := func(cell func(i int) (int, int)) bool {
		for i := 0; i < board.Size; i++ {
			if !hit(cell(i)) {
				return false
			}
		}
		return true
	}

	for k := 0; k < board.Size; k++ {
		if line(func(i int) (int, int) { return i, k }) || line(func(i int) (int, int) { return k, i }) {
			return true
		}
	}
	return line(func(i int) (int, int) { return i, i }) ||
		line(func(i int) (int, int) { return i, board.Size - 1 - i })
}
