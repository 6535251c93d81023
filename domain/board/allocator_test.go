package board

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAssignsIncreasingIds(t *testing.T) {
	a := NewAllocator()
	rand := testSuite.XOF([]byte("mint"))

	first := a.Mint("alice", 1, rand)
	second := a.Mint("bob", 1, rand)
	third := a.Mint("alice", 2, rand)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(3), third)
	assert.Equal(t, 3, a.Len())
}

func TestOwnedByIsRestartable(t *testing.T) {
	a := NewAllocator()
	rand := testSuite.XOF([]byte("owned"))
	a.Mint("alice", 1, rand)
	a.Mint("bob", 1, rand)
	a.Mint("alice", 1, rand)

	seq := a.OwnedBy("alice")
	assert.Equal(t, []uint64{1, 3}, slices.Collect(seq))
	assert.Equal(t, []uint64{1, 3}, slices.Collect(seq))

	a.Mint("alice", 4, rand)
	assert.Equal(t, []uint64{1, 3, 4}, slices.Collect(seq))

	assert.Empty(t, slices.Collect(a.OwnedBy("carol")))
}

func TestOwnedByStopsEarly(t *testing.T) {
	a := NewAllocator()
	rand := testSuite.XOF([]byte("early"))
	for i := 0; i < 5; i++ {
		a.Mint("alice", 1, rand)
	}
	var got []uint64
	for id := range a.OwnedBy("alice") {
		got = append(got, id)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestGameMembership(t *testing.T) {
	a := NewAllocator()
	rand := testSuite.XOF([]byte("games"))
	a.Mint("alice", 1, rand)
	a.Mint("bob", 2, rand)
	a.Mint("alice", 1, rand)

	assert.Equal(t, []uint64{1, 3}, a.InGame(1))
	assert.Equal(t, []uint64{2}, a.InGame(2))
	assert.Empty(t, a.InGame(9))

	assert.True(t, a.IsInGame(1, 1))
	assert.False(t, a.IsInGame(1, 2))
	assert.False(t, a.IsInGame(42, 1))
}

func TestGamesOfListsDistinctGames(t *testing.T) {
	a := NewAllocator()
	rand := testSuite.XOF([]byte("distinct"))
	a.Mint("alice", 3, rand)
	a.Mint("alice", 3, rand)
	a.Mint("alice", 1, rand)
	a.Mint("bob", 3, rand)

	assert.Equal(t, []uint64{3, 1}, a.GamesOf("alice"))
	assert.Equal(t, []uint64{3}, a.GamesOf("bob"))
}

func TestDataReturnsACopy(t *testing.T) {
	a := NewAllocator()
	id := a.Mint("alice", 1, testSuite.XOF([]byte("copy")))

	b, err := a.Data(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", b.Owner)
	assert.Equal(t, uint64(1), b.GameID)

	b.Cells[0][0] = 99
	again, err := a.Data(id)
	require.NoError(t, err)
	assert.NotEqual(t, 99, again.Cells[0][0])

	_, err = a.Data(77)
	assert.True(t, errors.Is(err, ErrUnknownBoard))
}
