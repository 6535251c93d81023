package bingo

import (
	"fmt"

	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

func (g *Game) claim(b board.Board, caller string) error {
	if b.Owner != caller {
		return fmt.Errorf("%w: board %d", ErrNotBoardOwner, b.ID)
	}
	if b.GameID != g.ID {
		return fmt.Errorf("%w: board %d belongs to game %d", ErrBoardNotInGame, b.ID, b.GameID)
	}
	if g.hasClaimed(b.ID) {
		return fmt.Errorf("%w: board %d", ErrAlreadyClaimed, b.ID)
	}
	if !IsWinningBoard(b.Cells, g.Drawn()) {
		return fmt.Errorf("%w: board %d after %d draws", ErrNotYetAWinningBoard, b.ID, len(g.Draws))
	}
	g.Winners = append(g.Winners, Winner{BoardID: b.ID, Player: caller})
	return nil
}

// Share is what a winner asking now would be paid.
func (g *Game) Share() uint64 {
	n := g.DistinctWinners()
	if n == 0 {
		return 0
	}
	return min(g.Jackpot/uint64(n), g.Balance)
}

func (g *Game) payout(caller string) (uint64, error) {
	if !g.IsWinner(caller) {
		return 0, fmt.Errorf("%w: %s", ErrNotAWinner, caller)
	}
	if _, ok := g.Paid[caller]; ok {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyPaid, caller)
	}
	share := g.Share()
	if share == 0 {
		return 0, fmt.Errorf("%w: game %d has %d left", ErrJackpotExhausted, g.ID, g.Balance)
	}
	g.Balance -= share
	g.Paid[caller] = share
	return share, nil
}
