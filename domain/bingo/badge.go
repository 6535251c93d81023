package bingo

import "time"

// Badge is a non-transferable record that a player won a game with a board.
type Badge struct {
	Owner     string    `json:"owner"`
	GameID    uint64    `json:"game_id"`
	BoardID   uint64    `json:"board_id"`
	AwardedAt time.Time `json:"awarded_at"`
}
