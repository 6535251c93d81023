// Package bingo implements the rules of a buy-in funded bingo game: proposals
// that collect players, games that draw numbers, win validation and the split
// of the jackpot between winners.
//
// # Core Types
//
// Registry: the arena of every proposal and game, keyed by a shared id space.
// It is the only entry point that mutates state.
//
// Entry: a tagged variant holding either a pending Proposal or a running Game.
// Promotion flips an entry from PhaseProposal to PhaseGame in place, so an id
// never refers to both at once.
//
// Proposal: the sign-up sheet of a future game, with its buy-in, pacing and
// required number of distinct players.
//
// Game: the running game, with its frozen players, jackpot, draw history,
// winners and payouts.
//
// # Atomicity
//
// Every Registry operation runs all of its checks before touching any state.
// An operation that returns an error has changed nothing, which lets the
// ledger discard the whole operation without a rollback step.
//
// # Payouts
//
// A winner's share is jackpot / distinct winning identities at the moment the
// winner asks to be paid, capped at what is left of the jackpot. Early
// payouts can therefore be larger than later ones when claims keep arriving.
package bingo
