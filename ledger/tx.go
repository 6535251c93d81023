package ledger

import (
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.dedis.ch/kyber/v4/suites"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverCollect       = errors.New("cannot collect more than the attached value")
	ErrTreasuryShort     = errors.New("treasury cannot cover payment")
)

var suite = suites.MustFind("Ed25519")

// Call is the caller of an operation and the value attached to it.
type Call struct {
	Caller string
	Value  uint64
}

// Tx is handed to an operation while it runs. Everything it records is
// staged and only applied if the operation returns nil.
type Tx struct {
	action    Action
	now       time.Time
	seed      []byte
	stream    cipher.Stream
	treasury  uint64
	collected uint64
	paid      uint64
	transfers []Transfer
	events    []Event
	err       error
}

func (tx *Tx) Caller() string { return tx.action.Caller }

func (tx *Tx) Value() uint64 { return tx.action.Value }

func (tx *Tx) Now() time.Time { return tx.now }

// Seed is the hex encoded seed of this operation's entropy.
func (tx *Tx) Seed() string { return tx.action.Seed }

// Entropy returns the operation's deterministic random stream.
func (tx *Tx) Entropy() cipher.Stream {
	if tx.stream == nil {
		tx.stream = suite.XOF(tx.seed)
	}
	return tx.stream
}

// Collect moves amount of the attached value into the treasury. Attached
// value that is not collected stays with the caller.
func (tx *Tx) Collect(amount uint64) error {
	if amount > tx.action.Value-tx.collected {
		return fmt.Errorf("%w: %d of %d attached", ErrOverCollect, amount, tx.action.Value)
	}
	if amount == 0 {
		return nil
	}
	tx.collected += amount
	tx.transfers = append(tx.transfers, Transfer{From: tx.action.Caller, To: Treasury, Amount: amount})
	return nil
}

// Pay moves amount from the treasury to account.
func (tx *Tx) Pay(account string, amount uint64) error {
	if amount > tx.treasury+tx.collected-tx.paid {
		return fmt.Errorf("%w: %d requested", ErrTreasuryShort, amount)
	}
	if amount == 0 {
		return nil
	}
	tx.paid += amount
	tx.transfers = append(tx.transfers, Transfer{From: Treasury, To: account, Amount: amount})
	return nil
}

// Emit records an event to be published with the operation's block.
func (tx *Tx) Emit(kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		tx.err = errors.Join(tx.err, fmt.Errorf("encode %s: %w", kind, err))
		return
	}
	tx.events = append(tx.events, Event{Type: kind, Payload: data})
}
