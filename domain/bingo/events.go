package bingo

// Event is an immutable record of something an operation did. Events are
// published by the ledger once the operation that produced them commits.
type Event interface {
	Kind() string
}

type ProposalCreated struct {
	ProposalID      uint64   `json:"proposal_id"`
	Creator         string   `json:"creator"`
	BuyIn           uint64   `json:"buy_in"`
	DrawIntervalSec uint64   `json:"draw_interval_sec"`
	RequiredPlayers int      `json:"required_players"`
	Cards           int      `json:"cards"`
	BoardIDs        []uint64 `json:"board_ids"`
}

type PlayerJoined struct {
	ProposalID  uint64   `json:"proposal_id"`
	Player      string   `json:"player"`
	Cards       int      `json:"cards"`
	PlayerCards int      `json:"player_cards"`
	SignedUp    int      `json:"signed_up"`
	BoardIDs    []uint64 `json:"board_ids"`
}

// GamePromoted is published when a proposal reaches its required number of
// players and becomes a game under the same id.
type GamePromoted struct {
	GameID  uint64   `json:"game_id"`
	Players []string `json:"players"`
	Jackpot uint64   `json:"jackpot"`
}

type NumberDrawn struct {
	GameID   uint64 `json:"game_id"`
	Number   int    `json:"number"`
	Sequence int    `json:"sequence"`
	Seed     string `json:"seed"`
}

type BingoClaimed struct {
	GameID  uint64 `json:"game_id"`
	BoardID uint64 `json:"board_id"`
	Player  string `json:"player"`
}

type BadgeMinted struct {
	GameID  uint64 `json:"game_id"`
	BoardID uint64 `json:"board_id"`
	Player  string `json:"player"`
}

type WinningsPaid struct {
	GameID  uint64 `json:"game_id"`
	Player  string `json:"player"`
	Amount  uint64 `json:"amount"`
	Winners int    `json:"winners"`
}

func (ProposalCreated) Kind() string { return "ProposalCreated" }
func (PlayerJoined) Kind() string    { return "PlayerJoined" }
func (GamePromoted) Kind() string    { return "GamePromoted" }
func (NumberDrawn) Kind() string     { return "NumberDrawn" }
func (BingoClaimed) Kind() string    { return "BingoClaimed" }
func (BadgeMinted) Kind() string     { return "BadgeMinted" }
func (WinningsPaid) Kind() string    { return "WinningsPaid" }
