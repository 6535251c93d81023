// Package api exposes the bingo orchestrator over HTTP and streams committed
// events over a websocket.
//
// Requests that act on behalf of a player are signed: the client sends its
// hex ed25519 public key in X-Bingo-Identity, a decimal nonce in
// X-Bingo-Nonce and the hex signature of "METHOD path\nnonce\nbody" in
// X-Bingo-Signature. Each identity's nonces must strictly increase, so a
// captured request cannot be sent twice.
package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/luca-patrignani/ledger-bingo/application"
	"github.com/luca-patrignani/ledger-bingo/config"
	"github.com/luca-patrignani/ledger-bingo/ledger"
	"github.com/luca-patrignani/ledger-bingo/store"
)

const (
	HeaderIdentity  = "X-Bingo-Identity"
	HeaderSignature = "X-Bingo-Signature"
	HeaderNonce     = "X-Bingo-Nonce"
)

// EventArchive is the read side of the block archive.
type EventArchive interface {
	GameEvents(gameID uint64) ([]store.Event, error)
}

type Server struct {
	games    *application.GameOrchestrator
	chain    *ledger.Blockchain
	cfg      config.Config
	logger   *slog.Logger
	nonces   *ledger.Nonces
	archive  EventArchive
	upgrader websocket.Upgrader
}

func NewServer(games *application.GameOrchestrator, chain *ledger.Blockchain, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		games:  games,
		chain:  chain,
		cfg:    cfg,
		logger: logger,
		nonces: ledger.NewNonces(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// UseArchive serves archived game history at /api/games/:id/events. Call it
// before Router.
func (s *Server) UseArchive(a EventArchive) {
	s.archive = a
}

// Router builds the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/ws/events", s.events)

	api := r.Group("/api")

	api.GET("/proposals", s.listProposals)
	api.GET("/proposals/:id", s.getProposal)
	api.GET("/games/:id", s.getGame)
	api.GET("/games/:id/draws", s.drawnNumbers)
	api.GET("/games/:id/boards", s.boardsInGame)
	api.GET("/boards/:id", s.boardData)
	api.GET("/players/:id/boards", s.boardsOwnedBy)
	api.GET("/players/:id/games", s.gamesOf)
	api.GET("/players/:id/badges", s.badgesOf)
	api.GET("/accounts/:id", s.balance)
	api.GET("/ledger/verify", s.verify)
	if s.archive != nil {
		api.GET("/games/:id/events", s.gameEvents)
	}

	signed := api.Group("", s.authenticate)
	signed.POST("/proposals", s.createProposal)
	signed.POST("/proposals/:id/join", s.joinProposal)
	signed.POST("/games/:id/draw", s.drawNumber)
	signed.POST("/games/:id/claims", s.claimBingo)
	signed.POST("/games/:id/winnings", s.getWinnings)
	if s.cfg.FaucetAmount > 0 {
		signed.POST("/faucet", s.faucet)
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", HeaderIdentity, HeaderSignature, HeaderNonce},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.CORSAllowedOrigins) == 0 || slices.Contains(s.cfg.CORSAllowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.CORSAllowedOrigins
	}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
