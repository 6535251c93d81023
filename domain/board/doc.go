// Package board mints and indexes bingo boards.
//
// # Layout
//
// A board is a 5x5 grid stored column-major: Cells[c][r] holds the number in
// column c, row r. Column c only ever holds numbers in [15c+1, 15c+15], the
// five numbers of a column are distinct, and the centre cell Cells[2][2] is
// the free space, stored as FreeCell.
//
// # Allocation
//
// The Allocator is an arena keyed by board id. Ids start at 1 and are never
// reused. Every board is bound at mint time to exactly one owner and one game
// and never changes afterwards. The allocator keeps an index by owner and by
// game so that the per-player and per-game queries do not scan the arena.
//
// The allocator does no locking of its own: callers serialize access, which
// in this module is done by the ledger executing one operation at a time.
package board
