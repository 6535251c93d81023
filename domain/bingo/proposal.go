package bingo

import (
	"maps"
	"slices"
	"time"
)

// Proposal is a game waiting for players.
type Proposal struct {
	ID              uint64         `json:"id"`
	Creator         string         `json:"creator"`
	BuyIn           uint64         `json:"buy_in"`
	DrawIntervalSec uint64         `json:"draw_interval_sec"`
	RequiredPlayers int            `json:"required_players"`
	SignedUp        map[string]int `json:"signed_up"`
	// Players lists signers in the order they first joined.
	Players    []string  `json:"players"`
	TotalCards int       `json:"total_cards"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProposalRequest carries the parameters chosen by a proposal's creator.
type ProposalRequest struct {
	BuyIn           uint64 `json:"buy_in"`
	DrawIntervalSec uint64 `json:"draw_interval_sec"`
	RequiredPlayers int    `json:"required_players"`
	Cards           int    `json:"cards"`
}

func (p *Proposal) signUp(player string, cards int) {
	if _, ok := p.SignedUp[player]; !ok {
		p.Players = append(p.Players, player)
	}
	p.SignedUp[player] += cards
	p.TotalCards += cards
}

func (p *Proposal) full() bool {
	return len(p.SignedUp) >= p.RequiredPlayers
}

func (p *Proposal) clone() Proposal {
	c := *p
	c.SignedUp = maps.Clone(p.SignedUp)
	c.Players = slices.Clone(p.Players)
	return c
}
