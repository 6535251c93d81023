package bingo

import "fmt"

// NumberCount is how many distinct numbers a game can draw.
const NumberCount = 75

// Rules are the deployment constants every proposal is checked against.
type Rules struct {
	MinBuyIn           uint64 `json:"min_buy_in"`
	MaxDrawIntervalSec uint64 `json:"max_draw_interval_sec"`
	MinPlayers         int    `json:"min_players"`
	MaxCardsPerPlayer  int    `json:"max_cards_per_player"`
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		MinBuyIn:           1,
		MaxDrawIntervalSec: 60,
		MinPlayers:         3,
		MaxCardsPerPlayer:  10,
	}
}

// Validate rejects rule sets under which no proposal could be funded or filled.
func (r Rules) Validate() error {
	if r.MinBuyIn == 0 {
		return fmt.Errorf("min buy-in must be positive")
	}
	if r.MinPlayers < 1 {
		return fmt.Errorf("min players must be at least 1, got %d", r.MinPlayers)
	}
	if r.MaxCardsPerPlayer < 1 {
		return fmt.Errorf("max cards per player must be at least 1, got %d", r.MaxCardsPerPlayer)
	}
	return nil
}
