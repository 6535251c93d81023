package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
	"github.com/luca-patrignani/ledger-bingo/ledger"
)

type createProposalRequest struct {
	BuyIn           uint64 `json:"buy_in"`
	DrawIntervalSec uint64 `json:"draw_interval_sec"`
	RequiredPlayers int    `json:"required_players"`
	Cards           int    `json:"cards"`
	Value           uint64 `json:"value"`
}

type joinProposalRequest struct {
	Cards int    `json:"cards"`
	Value uint64 `json:"value"`
}

type claimRequest struct {
	BoardID uint64 `json:"board_id"`
}

type receiptResponse struct {
	ID       uint64      `json:"id"`
	Paid     uint64      `json:"paid"`
	BoardIDs []uint64    `json:"board_ids"`
	Promoted *bingo.Game `json:"promoted,omitempty"`
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BadRequest", "message": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BadRequest", "message": err.Error()})
		return false
	}
	return true
}

func toReceipt(rc bingo.Receipt) receiptResponse {
	return receiptResponse{ID: rc.ID, Paid: rc.Cost, BoardIDs: rc.BoardIDs, Promoted: rc.Promoted}
}

func (s *Server) createProposal(c *gin.Context) {
	var req createProposalRequest
	if !bind(c, &req) {
		return
	}
	rc, err := s.games.CreateProposal(ledger.Call{Caller: caller(c), Value: req.Value}, bingo.ProposalRequest{
		BuyIn:           req.BuyIn,
		DrawIntervalSec: req.DrawIntervalSec,
		RequiredPlayers: req.RequiredPlayers,
		Cards:           req.Cards,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReceipt(rc))
}

func (s *Server) joinProposal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req joinProposalRequest
	if !bind(c, &req) {
		return
	}
	rc, err := s.games.JoinProposal(ledger.Call{Caller: caller(c), Value: req.Value}, id, req.Cards)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceipt(rc))
}

func (s *Server) listProposals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"proposals": s.games.ListActiveProposals()})
}

func (s *Server) getProposal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := s.games.Proposal(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getGame(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	g, err := s.games.Game(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": g, "share": g.Share()})
}

func (s *Server) drawNumber(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := s.games.DrawNumber(caller(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) drawnNumbers(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	drawn, err := s.games.DrawnNumbers(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"numbers": drawn})
}

func (s *Server) claimBingo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req claimRequest
	if !bind(c, &req) {
		return
	}
	if err := s.games.ClaimBingo(caller(c), id, req.BoardID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id, "board_id": req.BoardID})
}

func (s *Server) getWinnings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	amount, err := s.games.GetWinnings(caller(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id, "amount": amount})
}

func (s *Server) boardsInGame(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"board_ids": s.games.BoardsInGame(id)})
}

func (s *Server) boardData(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := s.games.BoardData(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) boardsOwnedBy(c *gin.Context) {
	ids := slices.Collect(s.games.BoardsOwnedBy(c.Param("id")))
	if ids == nil {
		ids = []uint64{}
	}
	c.JSON(http.StatusOK, gin.H{"board_ids": ids})
}

func (s *Server) gamesOf(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"game_ids": s.games.GamesOf(c.Param("id"))})
}

func (s *Server) badgesOf(c *gin.Context) {
	badges := s.games.BadgesOf(c.Param("id"))
	if badges == nil {
		badges = []bingo.Badge{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (s *Server) balance(c *gin.Context) {
	account := c.Param("id")
	c.JSON(http.StatusOK, gin.H{"account": account, "balance": s.chain.Balance(account)})
}

func (s *Server) faucet(c *gin.Context) {
	b, err := s.chain.Credit(caller(c), s.cfg.FaucetAmount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": caller(c), "credited": s.cfg.FaucetAmount, "block": b.Index})
}

func (s *Server) verify(c *gin.Context) {
	latest, _ := s.chain.GetLatest()
	if err := s.chain.Verify(); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "height": latest.Index, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "height": latest.Index, "hash": latest.Hash})
}

func (s *Server) gameEvents(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	events, err := s.archive.GameEvents(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]eventMessage, 0, len(events))
	for _, ev := range events {
		out = append(out, eventMessage{Block: ev.BlockIndex, Type: ev.Type, Payload: json.RawMessage(ev.Payload)})
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id, "events": out})
}
