package board

import (
	"crypto/cipher"
	"fmt"
	"iter"
)

// Allocator owns every board ever minted.
type Allocator struct {
	nextID  uint64
	boards  map[uint64]*Board
	byOwner map[string][]uint64
	byGame  map[uint64][]uint64
	games   map[string][]uint64
}

// NewAllocator returns an empty allocator whose first board id is 1.
func NewAllocator() *Allocator {
	return &Allocator{
		nextID:  1,
		boards:  make(map[uint64]*Board),
		byOwner: make(map[string][]uint64),
		byGame:  make(map[uint64][]uint64),
		games:   make(map[string][]uint64),
	}
}

// Mint creates a board for owner in gameID, with a layout read from rand,
// and returns its id.
func (a *Allocator) Mint(owner string, gameID uint64, rand cipher.Stream) uint64 {
	id := a.nextID
	a.nextID++

	a.boards[id] = &Board{
		ID:     id,
		Owner:  owner,
		GameID: gameID,
		Cells:  NewGrid(rand),
	}
	a.byOwner[owner] = append(a.byOwner[owner], id)
	if !a.holdsGame(owner, gameID) {
		a.games[owner] = append(a.games[owner], gameID)
	}
	a.byGame[gameID] = append(a.byGame[gameID], id)
	return id
}

func (a *Allocator) holdsGame(owner string, gameID uint64) bool {
	for _, g := range a.games[owner] {
		if g == gameID {
			return true
		}
	}
	return false
}

// OwnedBy yields the ids of the boards held by owner in mint order.
// The sequence can be ranged over any number of times; each pass reflects
// the boards minted so far.
func (a *Allocator) OwnedBy(owner string) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, id := range a.byOwner[owner] {
			if !yield(id) {
				return
			}
		}
	}
}

// InGame returns the ids of every board minted for gameID.
func (a *Allocator) InGame(gameID uint64) []uint64 {
	ids := a.byGame[gameID]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// IsInGame reports whether boardID exists and belongs to gameID.
func (a *Allocator) IsInGame(boardID, gameID uint64) bool {
	b, ok := a.boards[boardID]
	return ok && b.GameID == gameID
}

// Data returns a copy of the board with the given id.
func (a *Allocator) Data(boardID uint64) (Board, error) {
	b, ok := a.boards[boardID]
	if !ok {
		return Board{}, fmt.Errorf("%w: %d", ErrUnknownBoard, boardID)
	}
	return *b, nil
}

// GamesOf returns the distinct game ids owner holds boards in, in the order
// owner first joined them.
func (a *Allocator) GamesOf(owner string) []uint64 {
	ids := a.games[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of boards minted so far.
func (a *Allocator) Len() int {
	return len(a.boards)
}
