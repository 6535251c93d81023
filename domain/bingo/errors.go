package bingo

import (
	"errors"

	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

// Kind names a rejected operation's failure in a stable, machine readable way.
type Kind string

const (
	KindInsufficientBuyIn   Kind = "InsufficientBuyIn"
	KindInvalidBuyIn        Kind = "InvalidBuyIn"
	KindInvalidDrawInterval Kind = "InvalidDrawInterval"
	KindInvalidPlayerCount  Kind = "InvalidPlayerCount"
	KindInvalidCardCount    Kind = "InvalidCardCount"
	KindCardCapExceeded     Kind = "CardCapExceeded"
	KindProposalNotActive   Kind = "ProposalNotActive"
	KindUnknownGame         Kind = "UnknownGame"
	KindDrawTooSoon         Kind = "DrawTooSoon"
	KindNoNumbersRemaining  Kind = "NoNumbersRemaining"
	KindUnknownBoard        Kind = "UnknownBoard"
	KindNotBoardOwner       Kind = "NotBoardOwner"
	KindBoardNotInGame      Kind = "BoardNotInGame"
	KindAlreadyClaimed      Kind = "AlreadyClaimed"
	KindNotYetAWinningBoard Kind = "NotYetAWinningBoard"
	KindNotAWinner          Kind = "NotAWinner"
	KindAlreadyPaid         Kind = "AlreadyPaid"
	KindJackpotExhausted    Kind = "JackpotExhausted"
	KindJackpotOverflow     Kind = "JackpotOverflow"
)

// Error is a rule violation. The sentinels below are wrapped with details
// and matched with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	ErrInsufficientBuyIn   = &Error{KindInsufficientBuyIn, "paid amount must be >= buy-in * cards"}
	ErrInvalidBuyIn        = &Error{KindInvalidBuyIn, "minimum buy-in not met"}
	ErrInvalidDrawInterval = &Error{KindInvalidDrawInterval, "draw interval exceeds the maximum"}
	ErrInvalidPlayerCount  = &Error{KindInvalidPlayerCount, "minimum number of players not met"}
	ErrInvalidCardCount    = &Error{KindInvalidCardCount, "at least one card must be requested"}
	ErrCardCapExceeded     = &Error{KindCardCapExceeded, "may not request more than the per-player card cap"}
	ErrProposalNotActive   = &Error{KindProposalNotActive, "must select an active game proposal"}
	ErrUnknownGame         = &Error{KindUnknownGame, "unknown game"}
	ErrDrawTooSoon         = &Error{KindDrawTooSoon, "draw interval has not elapsed"}
	ErrNoNumbersRemaining  = &Error{KindNoNumbersRemaining, "all numbers have been drawn"}
	ErrUnknownBoard        = &Error{KindUnknownBoard, "unknown board"}
	ErrNotBoardOwner       = &Error{KindNotBoardOwner, "only the board owner can use this board"}
	ErrBoardNotInGame      = &Error{KindBoardNotInGame, "can only claim bingo on this game's boards"}
	ErrAlreadyClaimed      = &Error{KindAlreadyClaimed, "bingo already claimed for this board"}
	ErrNotYetAWinningBoard = &Error{KindNotYetAWinningBoard, "board does not have a bingo yet"}
	ErrNotAWinner          = &Error{KindNotAWinner, "only winners can collect winnings"}
	ErrAlreadyPaid         = &Error{KindAlreadyPaid, "winner cannot be paid twice"}
	ErrJackpotExhausted    = &Error{KindJackpotExhausted, "no winnings left to pay"}
	ErrJackpotOverflow     = &Error{KindJackpotOverflow, "jackpot would exceed the largest representable amount"}
)

// KindOf returns the failure kind carried by err, or "" if err is not a rule
// violation.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, board.ErrUnknownBoard) {
		return KindUnknownBoard
	}
	return ""
}
