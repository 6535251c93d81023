// Package application wires the bingo rules to the ledger. Every operation a
// client can perform is one ledger operation: it is authenticated by the
// ledger, runs alone, moves escrowed value and is recorded as a block.
package application

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
	"github.com/luca-patrignani/ledger-bingo/domain/board"
	"github.com/luca-patrignani/ledger-bingo/ledger"
)

// GameOrchestrator is the only writer of the bingo registry.
type GameOrchestrator struct {
	registry *bingo.Registry // Proposals, games, boards and badges
	chain    *ledger.Blockchain
	logger   *slog.Logger
}

func NewGameOrchestrator(chain *ledger.Blockchain, rules bingo.Rules, logger *slog.Logger) (*GameOrchestrator, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GameOrchestrator{
		registry: bingo.NewRegistry(rules, board.NewAllocator()),
		chain:    chain,
		logger:   logger,
	}, nil
}

func (o *GameOrchestrator) Rules() bingo.Rules {
	return o.registry.Rules()
}

// run executes op as one ledger operation and emits the receipt's events.
func (o *GameOrchestrator) run(call ledger.Call, method string, op func(tx *ledger.Tx) (bingo.Receipt, error)) (bingo.Receipt, error) {
	var rc bingo.Receipt
	b, err := o.chain.Execute(call, method, func(tx *ledger.Tx) error {
		var err error
		rc, err = op(tx)
		if err != nil {
			return err
		}
		for _, ev := range rc.Events {
			tx.Emit(ev.Kind(), ev)
		}
		return nil
	})
	if err != nil {
		o.logger.Debug("operation rejected", "method", method, "caller", call.Caller, "kind", bingo.KindOf(err), "err", err)
		return bingo.Receipt{}, err
	}
	o.logger.Info("operation committed", "method", method, "caller", call.Caller, "id", rc.ID, "block", b.Index)
	return rc, nil
}

// CreateProposal opens a proposal paid for with call.Value. Value beyond the
// price of the requested cards stays with the caller.
func (o *GameOrchestrator) CreateProposal(call ledger.Call, req bingo.ProposalRequest) (bingo.Receipt, error) {
	return o.run(call, "createProposal", func(tx *ledger.Tx) (bingo.Receipt, error) {
		rc, err := o.registry.Create(req, tx.Caller(), tx.Value(), tx.Now(), tx.Entropy())
		if err != nil {
			return rc, err
		}
		return rc, tx.Collect(rc.Cost)
	})
}

// JoinProposal buys cards in proposal id. The receipt's Promoted field is set
// when this join started the game.
func (o *GameOrchestrator) JoinProposal(call ledger.Call, id uint64, cards int) (bingo.Receipt, error) {
	return o.run(call, "joinProposal", func(tx *ledger.Tx) (bingo.Receipt, error) {
		rc, err := o.registry.Join(id, cards, tx.Caller(), tx.Value(), tx.Now(), tx.Entropy())
		if err != nil {
			return rc, err
		}
		return rc, tx.Collect(rc.Cost)
	})
}

// DrawNumber draws the next number of game id. Anyone may call it.
func (o *GameOrchestrator) DrawNumber(caller string, id uint64) (bingo.Draw, error) {
	var d bingo.Draw
	_, err := o.run(ledger.Call{Caller: caller}, "drawNumber", func(tx *ledger.Tx) (bingo.Receipt, error) {
		var (
			rc  bingo.Receipt
			err error
		)
		d, rc, err = o.registry.Draw(id, tx.Now(), tx.Seed(), tx.Entropy())
		return rc, err
	})
	if err != nil {
		return bingo.Draw{}, err
	}
	return d, nil
}

func (o *GameOrchestrator) ClaimBingo(caller string, gameID, boardID uint64) error {
	_, err := o.run(ledger.Call{Caller: caller}, "claimBingo", func(tx *ledger.Tx) (bingo.Receipt, error) {
		return o.registry.Claim(gameID, boardID, tx.Caller(), tx.Now())
	})
	return err
}

// GetWinnings pays the caller's share of game id and returns the amount.
func (o *GameOrchestrator) GetWinnings(caller string, gameID uint64) (uint64, error) {
	rc, err := o.run(ledger.Call{Caller: caller}, "getWinnings", func(tx *ledger.Tx) (bingo.Receipt, error) {
		rc, err := o.registry.Payout(gameID, tx.Caller())
		if err != nil {
			return rc, err
		}
		return rc, tx.Pay(tx.Caller(), rc.Cost)
	})
	if err != nil {
		return 0, err
	}
	return rc.Cost, nil
}

func (o *GameOrchestrator) ListActiveProposals() []bingo.Proposal {
	var out []bingo.Proposal
	o.chain.View(func() { out = o.registry.Active() })
	return out
}

func (o *GameOrchestrator) Proposal(id uint64) (bingo.Proposal, error) {
	var (
		p   bingo.Proposal
		err error
	)
	o.chain.View(func() { p, err = o.registry.Proposal(id) })
	return p, err
}

func (o *GameOrchestrator) Game(id uint64) (bingo.Game, error) {
	var (
		g   bingo.Game
		err error
	)
	o.chain.View(func() { g, err = o.registry.Game(id) })
	return g, err
}

func (o *GameOrchestrator) DrawnNumbers(id uint64) ([]int, error) {
	var (
		drawn []int
		err   error
	)
	o.chain.View(func() { drawn, err = o.registry.Drawn(id) })
	return drawn, err
}

// BoardsOwnedBy yields owner's board ids. Each pass over the sequence reads
// the boards held at the moment the pass starts.
func (o *GameOrchestrator) BoardsOwnedBy(owner string) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		var ids []uint64
		o.chain.View(func() { ids = slices.Collect(o.registry.Boards().OwnedBy(owner)) })
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (o *GameOrchestrator) BoardsInGame(gameID uint64) []uint64 {
	var ids []uint64
	o.chain.View(func() { ids = o.registry.Boards().InGame(gameID) })
	return ids
}

func (o *GameOrchestrator) IsBoardInGame(boardID, gameID uint64) bool {
	var ok bool
	o.chain.View(func() { ok = o.registry.Boards().IsInGame(boardID, gameID) })
	return ok
}

func (o *GameOrchestrator) BoardData(boardID uint64) (board.Board, error) {
	var (
		b   board.Board
		err error
	)
	o.chain.View(func() { b, err = o.registry.Boards().Data(boardID) })
	if err != nil {
		return board.Board{}, fmt.Errorf("%w: %w", bingo.ErrUnknownBoard, err)
	}
	return b, nil
}

// GamesOf lists the games owner holds boards in, pending proposals included.
func (o *GameOrchestrator) GamesOf(owner string) []uint64 {
	var ids []uint64
	o.chain.View(func() { ids = o.registry.Boards().GamesOf(owner) })
	return ids
}

func (o *GameOrchestrator) BadgesOf(owner string) []bingo.Badge {
	var badges []bingo.Badge
	o.chain.View(func() { badges = o.registry.BadgesOf(owner) })
	return badges
}
