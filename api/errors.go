package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
	"github.com/luca-patrignani/ledger-bingo/ledger"
)

func statusFor(err error) int {
	switch bingo.KindOf(err) {
	case bingo.KindUnknownGame, bingo.KindUnknownBoard:
		return http.StatusNotFound
	case bingo.KindNotBoardOwner, bingo.KindNotAWinner:
		return http.StatusForbidden
	case bingo.KindProposalNotActive, bingo.KindNoNumbersRemaining, bingo.KindAlreadyClaimed,
		bingo.KindAlreadyPaid, bingo.KindJackpotExhausted, bingo.KindJackpotOverflow:
		return http.StatusConflict
	case bingo.KindDrawTooSoon:
		return http.StatusTooManyRequests
	case "":
	default:
		return http.StatusBadRequest
	}
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	kind := string(bingo.KindOf(err))
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		kind = "InsufficientFunds"
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
		kind = "Internal"
	}
	c.JSON(status, gin.H{"error": kind, "message": err.Error()})
}
