package bingo

import (
	"maps"
	"math/bits"
	"slices"
	"time"
)

// DrawState is where a game's draw sequence stands.
type DrawState int

const (
	// NotStarted is only the zero value. Games are promoted straight into
	// Drawing.
	NotStarted DrawState = iota
	Drawing
	Exhausted
)

func (s DrawState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Drawing:
		return "drawing"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Draw is one drawn number together with what is needed to audit it: its
// position in the sequence and the ledger seed it was derived from.
type Draw struct {
	Number   int       `json:"number"`
	Sequence int       `json:"sequence"`
	Seed     string    `json:"seed"`
	At       time.Time `json:"at"`
}

type Winner struct {
	BoardID uint64 `json:"board_id"`
	Player  string `json:"player"`
}

// Game is a running game. Players, Cards and Jackpot are frozen at
// promotion.
type Game struct {
	ID              uint64            `json:"id"`
	BuyIn           uint64            `json:"buy_in"`
	DrawIntervalSec uint64            `json:"draw_interval_sec"`
	Players         []string          `json:"players"`
	Cards           map[string]int    `json:"cards"`
	Jackpot         uint64            `json:"jackpot"`
	Balance         uint64            `json:"balance"`
	Draws           []Draw            `json:"draws"`
	LastDrawAt      time.Time         `json:"last_draw_at"`
	Winners         []Winner          `json:"winners"`
	Paid            map[string]uint64 `json:"paid"`
	StartedAt       time.Time         `json:"started_at"`
	State           DrawState         `json:"state"`
}

// jackpotFor is buyIn * cards, or false if that does not fit in a uint64.
func jackpotFor(buyIn uint64, cards int) (uint64, bool) {
	hi, lo := bits.Mul64(buyIn, uint64(cards))
	return lo, hi == 0
}

// promote expects Join to have rejected any sign-up that would overflow the
// jackpot.
func promote(p *Proposal, now time.Time) *Game {
	jackpot, _ := jackpotFor(p.BuyIn, p.TotalCards)
	return &Game{
		ID:              p.ID,
		BuyIn:           p.BuyIn,
		DrawIntervalSec: p.DrawIntervalSec,
		Players:         slices.Clone(p.Players),
		Cards:           maps.Clone(p.SignedUp),
		Jackpot:         jackpot,
		Balance:         jackpot,
		Paid:            make(map[string]uint64),
		StartedAt:       now,
		State:           Drawing,
	}
}

// Drawn returns the numbers drawn so far, oldest first.
func (g *Game) Drawn() []int {
	out := make([]int, len(g.Draws))
	for i, d := range g.Draws {
		out[i] = d.Number
	}
	return out
}

func (g *Game) isDrawn(n int) bool {
	for _, d := range g.Draws {
		if d.Number == n {
			return true
		}
	}
	return false
}

func (g *Game) hasClaimed(boardID uint64) bool {
	for _, w := range g.Winners {
		if w.BoardID == boardID {
			return true
		}
	}
	return false
}

// IsWinner reports whether player has at least one accepted claim.
func (g *Game) IsWinner(player string) bool {
	for _, w := range g.Winners {
		if w.Player == player {
			return true
		}
	}
	return false
}

// DistinctWinners counts the identities with at least one accepted claim.
func (g *Game) DistinctWinners() int {
	seen := make(map[string]struct{}, len(g.Winners))
	for _, w := range g.Winners {
		seen[w.Player] = struct{}{}
	}
	return len(seen)
}

// Snapshot returns a deep copy that is safe to hand out of the registry.
func (g *Game) Snapshot() Game {
	c := *g
	c.Players = slices.Clone(g.Players)
	c.Cards = maps.Clone(g.Cards)
	c.Draws = slices.Clone(g.Draws)
	c.Winners = slices.Clone(g.Winners)
	c.Paid = maps.Clone(g.Paid)
	return c
}
