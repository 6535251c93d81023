package bingo

import (
	"crypto/cipher"
	"fmt"
	"time"

	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

// draw picks a number not drawn yet, uniformly, from rand. seed identifies the
// entropy for auditors and is stored with the draw.
func (g *Game) draw(now time.Time, seed string, rand cipher.Stream) (Draw, error) {
	if len(g.Draws) >= NumberCount {
		return Draw{}, fmt.Errorf("%w: game %d", ErrNoNumbersRemaining, g.ID)
	}
	if len(g.Draws) > 0 {
		interval := time.Duration(g.DrawIntervalSec) * time.Second
		if elapsed := now.Sub(g.LastDrawAt); elapsed < interval {
			return Draw{}, fmt.Errorf("%w: %s left", ErrDrawTooSoon, interval-elapsed)
		}
	}

	remaining := make([]int, 0, NumberCount-len(g.Draws))
	for n := 1; n <= NumberCount; n++ {
		if !g.isDrawn(n) {
			remaining = append(remaining, n)
		}
	}

	d := Draw{
		Number:   remaining[board.Uniform(len(remaining), rand)],
		Sequence: len(g.Draws) + 1,
		Seed:     seed,
		At:       now,
	}
	g.Draws = append(g.Draws, d)
	g.LastDrawAt = now
	if len(g.Draws) == NumberCount {
		g.State = Exhausted
	}
	return d, nil
}
