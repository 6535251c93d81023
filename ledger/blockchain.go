package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
)

type Blockchain struct {
	mu       sync.RWMutex
	blocks   []Block
	balances map[string]uint64
	clock    Clock
	logger   *slog.Logger

	subMu   sync.Mutex
	subs    map[int]chan Block
	nextSub int
	buffer  int
}

type Option func(*Blockchain)

func WithClock(c Clock) Option {
	return func(bc *Blockchain) { bc.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(bc *Blockchain) { bc.logger = l }
}

// WithSubscriberBuffer sets how many blocks a subscriber may lag behind
// before blocks are dropped for it.
func WithSubscriberBuffer(n int) Option {
	return func(bc *Blockchain) { bc.buffer = n }
}

// NewBlockchain creates a new blockchain with an initialized genesis block.
// The genesis block has index 0, previous hash "0" and no events or transfers.
func NewBlockchain(opts ...Option) *Blockchain {
	bc := &Blockchain{
		blocks:   make([]Block, 0),
		balances: make(map[string]uint64),
		clock:    systemClock{},
		logger:   slog.Default(),
		subs:     make(map[int]chan Block),
		buffer:   64,
	}
	for _, opt := range opts {
		opt(bc)
	}

	genesis := Block{
		Index:     0,
		Timestamp: bc.clock.Now().Unix(),
		PrevHash:  "0",
		Action:    Action{Method: "genesis"},
	}
	genesis.Hash = bc.calculateHash(genesis)
	bc.blocks = append(bc.blocks, genesis)

	return bc
}

// Execute runs op as a single atomic operation on behalf of call.Caller.
// No other operation runs until op returns. If op returns an error nothing
// is recorded: no block, no transfer, no event. Otherwise the operation is
// appended as a block, its transfers are applied and subscribers are
// notified.
func (bc *Blockchain) Execute(call Call, method string, op func(tx *Tx) error) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.balances[call.Caller] < call.Value {
		return Block{}, fmt.Errorf("%w: %s holds %d, attached %d", ErrInsufficientFunds, call.Caller, bc.balances[call.Caller], call.Value)
	}

	latest := bc.blocks[len(bc.blocks)-1]
	action := Action{
		ID:     uuid.NewString(),
		Caller: call.Caller,
		Method: method,
		Value:  call.Value,
	}
	seed := sha256.Sum256([]byte(latest.Hash + action.ID))
	action.Seed = hex.EncodeToString(seed[:])

	tx := &Tx{
		action:   action,
		now:      bc.clock.Now(),
		seed:     seed[:],
		treasury: bc.balances[Treasury],
	}
	if err := op(tx); err != nil {
		return Block{}, err
	}
	if tx.err != nil {
		return Block{}, tx.err
	}

	b, err := bc.append(tx.action, tx.now.Unix(), tx.events, tx.transfers)
	if err != nil {
		return Block{}, err
	}
	bc.publish(b)
	return b, nil
}

// View runs fn with the ledger's read lock held, so fn observes state
// between operations.
func (bc *Blockchain) View(fn func()) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	fn()
}

// Credit adds newly minted value to account. It is recorded as a block like
// any other operation.
func (bc *Blockchain) Credit(account string, amount uint64) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.balances[account] > math.MaxUint64-amount {
		return Block{}, fmt.Errorf("credit of %d overflows %s", amount, account)
	}
	action := Action{ID: uuid.NewString(), Method: "credit"}
	b, err := bc.append(action, bc.clock.Now().Unix(), nil, []Transfer{{To: account, Amount: amount}})
	if err != nil {
		return Block{}, err
	}
	bc.publish(b)
	return b, nil
}

// append seals and links a new block and applies its transfers. The caller
// must hold the write lock.
func (bc *Blockchain) append(action Action, timestamp int64, events []Event, transfers []Transfer) (Block, error) {
	latest := bc.blocks[len(bc.blocks)-1]

	newBlock := Block{
		Index:     latest.Index + 1,
		Timestamp: timestamp,
		PrevHash:  latest.Hash,
		Action:    action,
		Events:    events,
		Transfers: transfers,
	}
	newBlock.Hash = bc.calculateHash(newBlock)

	if err := bc.validateBlock(newBlock, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}

	for _, t := range transfers {
		if t.From != "" {
			bc.balances[t.From] -= t.Amount
		}
		bc.balances[t.To] += t.Amount
	}
	bc.blocks = append(bc.blocks, newBlock)

	return newBlock, nil
}

// Balance returns what account currently holds.
func (bc *Blockchain) Balance(account string) uint64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.balances[account]
}

// GetLatest returns the most recently added block in the blockchain.
// Returns an error if the blockchain is empty.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, fmt.Errorf("blockchain is empty")
	}

	return bc.blocks[len(bc.blocks)-1], nil
}

// GetByIndex retrieves a block by its index in the chain. Returns an error if
// the index is out of range.
func (bc *Blockchain) GetByIndex(index int) (*Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return nil, fmt.Errorf("index out of range")
	}

	b := bc.blocks[index]
	return &b, nil
}

// Blocks returns a copy of the chain, genesis first.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	out := make([]Block, len(bc.blocks))
	copy(out, bc.blocks)
	return out
}

// Verify validates the integrity of the entire blockchain by checking the
// genesis block and verifying each subsequent block's hash, index continuity
// and previous hash linkage.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return fmt.Errorf("empty blockchain")
	}

	if bc.blocks[0].PrevHash != "0" {
		return fmt.Errorf("invalid genesis block")
	}

	for i := 1; i < len(bc.blocks); i++ {
		current := bc.blocks[i]
		previous := bc.blocks[i-1]

		if err := bc.validateBlock(current, previous); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}

	return nil
}

// validateBlock verifies that a block is valid relative to the previous
// block. It checks index continuity, previous hash linkage and the current
// hash.
func (bc *Blockchain) validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}

	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}

	expectedHash := bc.calculateHash(current)
	if current.Hash != expectedHash {
		return fmt.Errorf("invalid hash: expected %s, got %s", expectedHash, current.Hash)
	}

	return nil
}

// calculateHash computes the SHA256 hash of a block based on its index,
// timestamp, previous hash, action, events and transfers. The last three are
// JSON marshaled before hashing.
func (bc *Blockchain) calculateHash(block Block) string {
	actionBytes, _ := json.Marshal(block.Action)
	eventsBytes, _ := json.Marshal(block.Events)
	transfersBytes, _ := json.Marshal(block.Transfers)

	data := fmt.Sprintf("%d%d%s%s%s%s",
		block.Index,
		block.Timestamp,
		block.PrevHash,
		string(actionBytes),
		string(eventsBytes),
		string(transfersBytes),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
