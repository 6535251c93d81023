package api

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/ledger-bingo/application"
	"github.com/luca-patrignani/ledger-bingo/config"
	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
	"github.com/luca-patrignani/ledger-bingo/ledger"
	"github.com/luca-patrignani/ledger-bingo/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router http.Handler
	chain  *ledger.Blockchain
	clock  *ledger.ManualClock
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := ledger.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	chain := ledger.NewBlockchain(ledger.WithClock(clock), ledger.WithLogger(logger))
	cfg := config.Default()
	cfg.FaucetAmount = 50
	games, err := application.NewGameOrchestrator(chain, cfg.Rules(), logger)
	require.NoError(t, err)
	return testEnv{router: NewServer(games, chain, cfg, logger).Router(), chain: chain, clock: clock}
}

type memArchive map[uint64][]store.Event

func (m memArchive) GameEvents(gameID uint64) ([]store.Event, error) {
	if gameID == 99 {
		return nil, errors.New("connection refused")
	}
	return m[gameID], nil
}

type player struct {
	id    string
	priv  ed25519.PrivateKey
	nonce uint64
}

func newPlayer(t *testing.T) player {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return player{id: ledger.Identity(pub), priv: priv}
}

func (e testEnv) send(t *testing.T, p *player, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	var h http.Header
	if p != nil {
		h = p.sign(method, path, data)
	}
	return e.sendRaw(method, path, data, h)
}

// sign returns the authentication headers for one request, using p's next
// nonce.
func (p *player) sign(method, path string, data []byte) http.Header {
	p.nonce++
	h := http.Header{}
	h.Set(HeaderIdentity, p.id)
	h.Set(HeaderNonce, strconv.FormatUint(p.nonce, 10))
	h.Set(HeaderSignature, ledger.Sign(p.priv, ledger.RequestPayload(method, path, p.nonce, data)))
	return h
}

func (e testEnv) sendRaw(method, path string, data []byte, h http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (e testEnv) fund(t *testing.T, ps ...*player) {
	t.Helper()
	for _, p := range ps {
		w := e.send(t, p, http.MethodPost, "/api/faucet", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.send(t, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnsignedWritesAreRejected(t *testing.T) {
	e := newTestEnv(t)
	w := e.send(t, nil, http.MethodPost, "/api/proposals", createProposalRequest{BuyIn: 1, Cards: 1, Value: 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	alice := newPlayer(t)
	bob := newPlayer(t)
	forged := alice
	forged.priv = bob.priv
	w = e.send(t, &forged, http.MethodPost, "/api/proposals", createProposalRequest{BuyIn: 1, Cards: 1, Value: 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResentRequestIsRejected(t *testing.T) {
	e := newTestEnv(t)
	alice := newPlayer(t)
	e.fund(t, &alice)
	require.Equal(t, uint64(50), e.chain.Balance(alice.id))

	data, err := json.Marshal(createProposalRequest{BuyIn: 1, DrawIntervalSec: 5, RequiredPlayers: 3, Cards: 10, Value: 10})
	require.NoError(t, err)
	h := alice.sign(http.MethodPost, "/api/proposals", data)

	w := e.sendRaw(http.MethodPost, "/api/proposals", data, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for i := 0; i < 2; i++ {
		w = e.sendRaw(http.MethodPost, "/api/proposals", data, h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	}
	assert.Equal(t, uint64(40), e.chain.Balance(alice.id))

	w = e.send(t, nil, http.MethodGet, "/api/proposals", nil)
	var listed struct {
		Proposals []bingo.Proposal `json:"proposals"`
	}
	decode(t, w, &listed)
	assert.Len(t, listed.Proposals, 1)

	// An older nonce stays rejected after a newer one is used.
	stale := alice
	stale.nonce = 0
	w = e.send(t, &stale, http.MethodPost, "/api/faucet", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.send(t, &alice, http.MethodPost, "/api/faucet", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMissingNonceIsRejected(t *testing.T) {
	e := newTestEnv(t)
	alice := newPlayer(t)
	h := alice.sign(http.MethodPost, "/api/faucet", nil)
	h.Del(HeaderNonce)
	w := e.sendRaw(http.MethodPost, "/api/faucet", nil, h)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, uint64(0), e.chain.Balance(alice.id))
}

func TestGameOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	ps := []*player{}
	for i := 0; i < 3; i++ {
		p := newPlayer(t)
		ps = append(ps, &p)
	}
	e.fund(t, ps...)

	w := e.send(t, ps[0], http.MethodPost, "/api/proposals", createProposalRequest{
		BuyIn: 2, DrawIntervalSec: 5, RequiredPlayers: 3, Cards: 1, Value: 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created receiptResponse
	decode(t, w, &created)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, uint64(2), created.Paid)
	assert.Equal(t, uint64(48), e.chain.Balance(ps[0].id))

	w = e.send(t, nil, http.MethodGet, "/api/proposals", nil)
	var list struct {
		Proposals []bingo.Proposal `json:"proposals"`
	}
	decode(t, w, &list)
	require.Len(t, list.Proposals, 1)

	join := fmt.Sprintf("/api/proposals/%d/join", created.ID)
	w = e.send(t, ps[1], http.MethodPost, join, joinProposalRequest{Cards: 1, Value: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = e.send(t, ps[2], http.MethodPost, join, joinProposalRequest{Cards: 1, Value: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var joined receiptResponse
	decode(t, w, &joined)
	require.NotNil(t, joined.Promoted)
	assert.Equal(t, uint64(6), joined.Promoted.Jackpot)

	w = e.send(t, ps[1], http.MethodPost, join, joinProposalRequest{Cards: 1, Value: 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	draw := fmt.Sprintf("/api/games/%d/draw", created.ID)
	for i := 0; i < bingo.NumberCount; i++ {
		w = e.send(t, ps[i%3], http.MethodPost, draw, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		e.clock.Advance(5 * time.Second)
	}
	w = e.send(t, ps[0], http.MethodPost, draw, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.send(t, nil, http.MethodGet, "/api/players/"+ps[1].id+"/boards", nil)
	var owned struct {
		BoardIDs []uint64 `json:"board_ids"`
	}
	decode(t, w, &owned)
	require.Len(t, owned.BoardIDs, 1)

	claims := fmt.Sprintf("/api/games/%d/claims", created.ID)
	w = e.send(t, ps[0], http.MethodPost, claims, claimRequest{BoardID: owned.BoardIDs[0]})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.send(t, ps[1], http.MethodPost, claims, claimRequest{BoardID: owned.BoardIDs[0]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	winnings := fmt.Sprintf("/api/games/%d/winnings", created.ID)
	w = e.send(t, ps[1], http.MethodPost, winnings, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid struct {
		Amount uint64 `json:"amount"`
	}
	decode(t, w, &paid)
	assert.Equal(t, uint64(6), paid.Amount)
	assert.Equal(t, uint64(50-2+6), e.chain.Balance(ps[1].id))

	w = e.send(t, ps[1], http.MethodPost, winnings, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.send(t, nil, http.MethodGet, "/api/players/"+ps[1].id+"/badges", nil)
	assert.Contains(t, w.Body.String(), `"board_id"`)

	w = e.send(t, nil, http.MethodGet, "/api/ledger/verify", nil)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestErrorMapping(t *testing.T) {
	e := newTestEnv(t)
	alice := newPlayer(t)
	e.fund(t, &alice)

	w := e.send(t, &alice, http.MethodPost, "/api/proposals", createProposalRequest{
		BuyIn: 1, DrawIntervalSec: 500, RequiredPlayers: 3, Cards: 1, Value: 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	assert.Equal(t, string(bingo.KindInvalidDrawInterval), body.Error)

	w = e.send(t, &alice, http.MethodPost, "/api/proposals", createProposalRequest{
		BuyIn: 1, DrawIntervalSec: 5, RequiredPlayers: 3, Cards: 1, Value: 5000,
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = e.send(t, nil, http.MethodGet, "/api/games/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.send(t, nil, http.MethodGet, "/api/games/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.send(t, nil, http.MethodGet, "/api/boards/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventFeed(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	alice := newPlayer(t)
	e.fund(t, &alice)
	w := e.send(t, &alice, http.MethodPost, "/api/proposals", createProposalRequest{
		BuyIn: 1, DrawIntervalSec: 5, RequiredPlayers: 3, Cards: 2, Value: 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg eventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "ProposalCreated", msg.Type)

	var ev bingo.ProposalCreated
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	assert.Equal(t, alice.id, ev.Creator)
	assert.Len(t, ev.BoardIDs, 2)
}

func TestGameEventsFromArchive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := ledger.NewBlockchain(ledger.WithLogger(logger))
	games, err := application.NewGameOrchestrator(chain, bingo.DefaultRules(), logger)
	require.NoError(t, err)

	without := testEnv{router: NewServer(games, chain, config.Default(), logger).Router(), chain: chain}
	w := without.send(t, nil, http.MethodGet, "/api/games/1/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	gameID := uint64(1)
	srv := NewServer(games, chain, config.Default(), logger)
	srv.UseArchive(memArchive{1: {
		{BlockIndex: 2, GameID: &gameID, Type: "ProposalCreated", Payload: []byte(`{"proposal_id":1}`)},
		{BlockIndex: 5, GameID: &gameID, Type: "GamePromoted", Payload: []byte(`{"game_id":1}`)},
	}})
	e := testEnv{router: srv.Router(), chain: chain}

	w = e.send(t, nil, http.MethodGet, "/api/games/1/events", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		GameID uint64         `json:"game_id"`
		Events []eventMessage `json:"events"`
	}
	decode(t, w, &body)
	assert.Equal(t, uint64(1), body.GameID)
	require.Len(t, body.Events, 2)
	assert.Equal(t, 5, body.Events[1].Block)
	assert.Equal(t, "GamePromoted", body.Events[1].Type)
	assert.JSONEq(t, `{"game_id":1}`, string(body.Events[1].Payload))

	w = e.send(t, nil, http.MethodGet, "/api/games/2/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Empty(t, body.Events)

	w = e.send(t, nil, http.MethodGet, "/api/games/99/events", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStatusForUnknownErrors(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("disk on fire")))
	assert.Equal(t, http.StatusPaymentRequired, statusFor(fmt.Errorf("wrap: %w", ledger.ErrInsufficientFunds)))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(bingo.ErrDrawTooSoon))
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("join: %w", bingo.ErrJackpotOverflow)))
}
