package bingo

import (
	"cmp"
	"crypto/cipher"
	"fmt"
	"slices"
	"time"

	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

// Phase tells which side of an Entry is populated.
type Phase int

const (
	PhaseProposal Phase = iota
	PhaseGame
)

// Entry is one slot of the shared proposal/game id space.
type Entry struct {
	ID       uint64
	Phase    Phase
	Proposal *Proposal
	Game     *Game
}

// Receipt describes what a successful operation did.
type Receipt struct {
	ID       uint64
	Cost     uint64
	BoardIDs []uint64
	Promoted *Game
	Events   []Event
}

// Registry holds every proposal, game, board and badge.
type Registry struct {
	rules   Rules
	boards  *board.Allocator
	nextID  uint64
	entries map[uint64]*Entry
	badges  map[string][]Badge
}

func NewRegistry(rules Rules, boards *board.Allocator) *Registry {
	return &Registry{
		rules:   rules,
		boards:  boards,
		nextID:  1,
		entries: make(map[uint64]*Entry),
		badges:  make(map[string][]Badge),
	}
}

func (r *Registry) Rules() Rules {
	return r.rules
}

func (r *Registry) Boards() *board.Allocator {
	return r.boards
}

// cost returns buyIn*cards, or an error if paid does not cover it.
func cost(buyIn uint64, cards int, paid uint64) (uint64, error) {
	if cards < 1 {
		return 0, nil
	}
	due, ok := jackpotFor(buyIn, cards)
	if !ok || paid < due {
		return 0, fmt.Errorf("%w: %d cards at %d each, paid %d", ErrInsufficientBuyIn, cards, buyIn, paid)
	}
	return due, nil
}

func (r *Registry) checkCards(already, cards int) error {
	if cards < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCardCount, cards)
	}
	if already+cards > r.rules.MaxCardsPerPlayer {
		return fmt.Errorf("%w: %d held, %d requested, cap %d", ErrCardCapExceeded, already, cards, r.rules.MaxCardsPerPlayer)
	}
	return nil
}

// Create opens a proposal funded by the creator's first cards.
func (r *Registry) Create(req ProposalRequest, caller string, paid uint64, now time.Time, rand cipher.Stream) (Receipt, error) {
	due, err := cost(req.BuyIn, req.Cards, paid)
	if err != nil {
		return Receipt{}, err
	}
	if req.BuyIn < r.rules.MinBuyIn {
		return Receipt{}, fmt.Errorf("%w: %d < %d", ErrInvalidBuyIn, req.BuyIn, r.rules.MinBuyIn)
	}
	if req.DrawIntervalSec > r.rules.MaxDrawIntervalSec {
		return Receipt{}, fmt.Errorf("%w: %ds > %ds", ErrInvalidDrawInterval, req.DrawIntervalSec, r.rules.MaxDrawIntervalSec)
	}
	if req.RequiredPlayers < r.rules.MinPlayers {
		return Receipt{}, fmt.Errorf("%w: %d < %d", ErrInvalidPlayerCount, req.RequiredPlayers, r.rules.MinPlayers)
	}
	if err := r.checkCards(0, req.Cards); err != nil {
		return Receipt{}, err
	}

	id := r.nextID
	r.nextID++
	p := &Proposal{
		ID:              id,
		Creator:         caller,
		BuyIn:           req.BuyIn,
		DrawIntervalSec: req.DrawIntervalSec,
		RequiredPlayers: req.RequiredPlayers,
		SignedUp:        make(map[string]int),
		CreatedAt:       now,
	}
	r.entries[id] = &Entry{ID: id, Phase: PhaseProposal, Proposal: p}

	boardIDs := r.mint(p, caller, req.Cards, rand)
	rc := Receipt{ID: id, Cost: due, BoardIDs: boardIDs}
	rc.Events = append(rc.Events, ProposalCreated{
		ProposalID:      id,
		Creator:         caller,
		BuyIn:           req.BuyIn,
		DrawIntervalSec: req.DrawIntervalSec,
		RequiredPlayers: req.RequiredPlayers,
		Cards:           req.Cards,
		BoardIDs:        boardIDs,
	})
	r.promoteIfFull(&rc, now)
	return rc, nil
}

// Join buys cards in a pending proposal. When the caller is the last
// distinct player needed, the proposal becomes a game in the same call and
// the receipt carries it in Promoted.
func (r *Registry) Join(id uint64, cards int, caller string, paid uint64, now time.Time, rand cipher.Stream) (Receipt, error) {
	e, ok := r.entries[id]
	if !ok || e.Phase != PhaseProposal {
		return Receipt{}, fmt.Errorf("%w: %d", ErrProposalNotActive, id)
	}
	p := e.Proposal
	due, err := cost(p.BuyIn, cards, paid)
	if err != nil {
		return Receipt{}, err
	}
	if err := r.checkCards(p.SignedUp[caller], cards); err != nil {
		return Receipt{}, err
	}
	if _, ok := jackpotFor(p.BuyIn, p.TotalCards+cards); !ok {
		return Receipt{}, fmt.Errorf("%w: %d cards at %d each", ErrJackpotOverflow, p.TotalCards+cards, p.BuyIn)
	}

	boardIDs := r.mint(p, caller, cards, rand)
	rc := Receipt{ID: id, Cost: due, BoardIDs: boardIDs}
	rc.Events = append(rc.Events, PlayerJoined{
		ProposalID:  id,
		Player:      caller,
		Cards:       cards,
		PlayerCards: p.SignedUp[caller],
		SignedUp:    len(p.SignedUp),
		BoardIDs:    boardIDs,
	})
	r.promoteIfFull(&rc, now)
	return rc, nil
}

func (r *Registry) mint(p *Proposal, player string, cards int, rand cipher.Stream) []uint64 {
	p.signUp(player, cards)
	ids := make([]uint64, cards)
	for i := range ids {
		ids[i] = r.boards.Mint(player, p.ID, rand)
	}
	return ids
}

func (r *Registry) promoteIfFull(rc *Receipt, now time.Time) {
	e := r.entries[rc.ID]
	if !e.Proposal.full() {
		return
	}
	g := promote(e.Proposal, now)
	e.Phase = PhaseGame
	e.Proposal = nil
	e.Game = g
	snap := g.Snapshot()
	rc.Promoted = &snap
	rc.Events = append(rc.Events, GamePromoted{GameID: g.ID, Players: slices.Clone(g.Players), Jackpot: g.Jackpot})
}

// Active returns copies of the pending proposals in ascending id order.
func (r *Registry) Active() []Proposal {
	out := make([]Proposal, 0)
	for _, e := range r.entries {
		if e.Phase == PhaseProposal {
			out = append(out, e.Proposal.clone())
		}
	}
	slices.SortFunc(out, func(a, b Proposal) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Proposal returns a copy of a pending proposal.
func (r *Registry) Proposal(id uint64) (Proposal, error) {
	e, ok := r.entries[id]
	if !ok || e.Phase != PhaseProposal {
		return Proposal{}, fmt.Errorf("%w: %d", ErrProposalNotActive, id)
	}
	return e.Proposal.clone(), nil
}

func (r *Registry) game(id uint64) (*Game, error) {
	e, ok := r.entries[id]
	if !ok || e.Phase != PhaseGame {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGame, id)
	}
	return e.Game, nil
}

// Game returns a snapshot of a running game.
func (r *Registry) Game(id uint64) (Game, error) {
	g, err := r.game(id)
	if err != nil {
		return Game{}, err
	}
	return g.Snapshot(), nil
}

// Draw draws the next number of game id. Anyone may draw.
func (r *Registry) Draw(id uint64, now time.Time, seed string, rand cipher.Stream) (Draw, Receipt, error) {
	g, err := r.game(id)
	if err != nil {
		return Draw{}, Receipt{}, err
	}
	d, err := g.draw(now, seed, rand)
	if err != nil {
		return Draw{}, Receipt{}, err
	}
	rc := Receipt{ID: id, Events: []Event{NumberDrawn{GameID: id, Number: d.Number, Sequence: d.Sequence, Seed: seed}}}
	return d, rc, nil
}

// Drawn returns the draw history of game id.
func (r *Registry) Drawn(id uint64) ([]int, error) {
	g, err := r.game(id)
	if err != nil {
		return nil, err
	}
	return g.Drawn(), nil
}

// Claim records a bingo for boardID in game id and awards the caller a
// badge. It does not pay anything.
func (r *Registry) Claim(id, boardID uint64, caller string, now time.Time) (Receipt, error) {
	g, err := r.game(id)
	if err != nil {
		return Receipt{}, err
	}
	b, err := r.boards.Data(boardID)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrUnknownBoard, err)
	}
	if err := g.claim(b, caller); err != nil {
		return Receipt{}, err
	}
	r.badges[caller] = append(r.badges[caller], Badge{Owner: caller, GameID: id, BoardID: boardID, AwardedAt: now})
	return Receipt{ID: id, Events: []Event{
		BingoClaimed{GameID: id, BoardID: boardID, Player: caller},
		BadgeMinted{GameID: id, BoardID: boardID, Player: caller},
	}}, nil
}

// Payout settles the caller's share of game id. The returned receipt's Cost
// is the amount the ledger must transfer to the caller.
func (r *Registry) Payout(id uint64, caller string) (Receipt, error) {
	g, err := r.game(id)
	if err != nil {
		return Receipt{}, err
	}
	amount, err := g.payout(caller)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{ID: id, Cost: amount, Events: []Event{
		WinningsPaid{GameID: id, Player: caller, Amount: amount, Winners: g.DistinctWinners()},
	}}, nil
}

// BadgesOf returns the badges awarded to owner, oldest first.
func (r *Registry) BadgesOf(owner string) []Badge {
	return slices.Clone(r.badges[owner])
}
