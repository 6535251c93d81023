package ledger

import "encoding/json"

// Treasury is the account holding escrowed stakes.
const Treasury = "treasury"

// Block is one committed operation.
type Block struct {
	Index     int        `json:"index"`
	Timestamp int64      `json:"timestamp"`
	PrevHash  string     `json:"prev_hash"`
	Hash      string     `json:"hash"`
	Action    Action     `json:"action"`
	Events    []Event    `json:"events"`
	Transfers []Transfer `json:"transfers"`
}

// Action identifies who ran what, with how much value attached.
type Action struct {
	ID     string `json:"id"`
	Caller string `json:"caller"`
	Method string `json:"method"`
	Value  uint64 `json:"value"`
	// Seed is the hex entropy seed the operation was given.
	Seed string `json:"seed,omitempty"`
}

type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Transfer moves Amount between accounts. An empty From is newly credited
// value.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}
