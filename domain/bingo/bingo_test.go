package bingo

import (
	"crypto/cipher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v4/suites"

	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

var testSuite = suites.MustFind("Ed25519")

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func entropy(label string) cipher.Stream {
	return testSuite.XOF([]byte(label))
}

func newTestRegistry() *Registry {
	return NewRegistry(DefaultRules(), board.NewAllocator())
}

type seat struct {
	player string
	cards  int
}

// startGame creates a proposal for the first seat and lets the others join
// until it is promoted. It returns the game id.
func startGame(t *testing.T, r *Registry, buyIn, interval uint64, seats ...seat) uint64 {
	t.Helper()
	rc, err := r.Create(ProposalRequest{
		BuyIn:           buyIn,
		DrawIntervalSec: interval,
		RequiredPlayers: len(seats),
		Cards:           seats[0].cards,
	}, seats[0].player, buyIn*uint64(seats[0].cards), epoch, entropy("create"))
	require.NoError(t, err)
	for i, s := range seats[1:] {
		jr, err := r.Join(rc.ID, s.cards, s.player, buyIn*uint64(s.cards), epoch, entropy(s.player))
		require.NoError(t, err)
		if i == len(seats)-2 {
			require.NotNil(t, jr.Promoted)
		} else {
			require.Nil(t, jr.Promoted)
		}
	}
	return rc.ID
}

// drawUntil draws, respecting the game's pacing, until done returns true or
// the numbers run out. It returns the time of the last draw.
func drawUntil(t *testing.T, r *Registry, id uint64, done func() bool) time.Time {
	t.Helper()
	g, err := r.Game(id)
	require.NoError(t, err)
	step := time.Duration(g.DrawIntervalSec) * time.Second
	now := epoch
	for i := len(g.Draws); i < NumberCount && !done(); i++ {
		now = now.Add(step)
		_, _, err := r.Draw(id, now, "seed", entropy("draw"))
		require.NoError(t, err)
	}
	return now
}

// firstWinningBoard returns a winning board of the game, if any.
func firstWinningBoard(r *Registry, id uint64) (board.Board, bool) {
	drawn, _ := r.Drawn(id)
	for _, bid := range r.Boards().InGame(id) {
		b, _ := r.Boards().Data(bid)
		if IsWinningBoard(b.Cells, drawn) {
			return b, true
		}
	}
	return board.Board{}, false
}
