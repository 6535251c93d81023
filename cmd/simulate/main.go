package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/ledger-bingo/application"
	"github.com/luca-patrignani/ledger-bingo/config"
	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
	"github.com/luca-patrignani/ledger-bingo/ledger"
)

type settings struct {
	Players  int
	Cards    int
	BuyIn    uint64
	Interval uint64
	Funds    uint64
}

type player struct {
	Name string
	ID   string
}

type outcome struct {
	GameID  uint64
	Jackpot uint64
	Draws   int
	Winners []bingo.Winner
	Paid    map[string]uint64
	Players []player
	Blocks  int
}

func main() {
	var s settings
	flag.IntVar(&s.Players, "players", 5, "number of players")
	flag.IntVar(&s.Cards, "cards", 2, "cards bought by each player")
	flag.Uint64Var(&s.BuyIn, "buy-in", 1, "price of one card")
	flag.Uint64Var(&s.Interval, "interval", 10, "seconds between draws")
	flag.Uint64Var(&s.Funds, "funds", 100, "starting balance of each player")
	verbose := flag.Bool("v", false, "log every ledger operation")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)
	if *verbose {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("B", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ingo", pterm.FgDarkGray.ToStyle()),
	).Render()

	_ = config.LoadDotEnv(".env")
	cfg := config.Load()
	clock := ledger.NewManualClock(time.Now())
	chain := ledger.NewBlockchain(ledger.WithClock(clock), ledger.WithLogger(logger))
	games, err := application.NewGameOrchestrator(chain, cfg.Rules(), logger)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	out, err := play(s, games, chain, clock)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := chain.Verify(); err != nil {
		pterm.Error.Printfln("ledger does not verify: %v", err)
		os.Exit(1)
	}

	printOutcome(games, out)
}

// play runs one full game: funding, sign-up, draws until the first bingo,
// claims and payouts.
func play(s settings, games *application.GameOrchestrator, chain *ledger.Blockchain, clock *ledger.ManualClock) (outcome, error) {
	if s.Players < 1 {
		return outcome{}, fmt.Errorf("need at least one player")
	}
	out := outcome{Paid: make(map[string]uint64)}
	for i := 0; i < s.Players; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		if err != nil {
			return outcome{}, err
		}
		p := player{Name: fmt.Sprintf("Player%d", i), ID: ledger.Identity(pub)}
		if _, err := chain.Credit(p.ID, s.Funds); err != nil {
			return outcome{}, err
		}
		out.Players = append(out.Players, p)
	}

	price := s.BuyIn * uint64(s.Cards)
	rc, err := games.CreateProposal(ledger.Call{Caller: out.Players[0].ID, Value: price}, bingo.ProposalRequest{
		BuyIn:           s.BuyIn,
		DrawIntervalSec: s.Interval,
		RequiredPlayers: s.Players,
		Cards:           s.Cards,
	})
	if err != nil {
		return outcome{}, fmt.Errorf("create proposal: %w", err)
	}
	out.GameID = rc.ID
	pterm.Info.Printfln("%s opened game %d", out.Players[0].Name, rc.ID)

	for _, p := range out.Players[1:] {
		if _, err := games.JoinProposal(ledger.Call{Caller: p.ID, Value: price}, rc.ID, s.Cards); err != nil {
			return outcome{}, fmt.Errorf("%s join: %w", p.Name, err)
		}
		pterm.Info.Printfln("%s joined with %d cards", p.Name, s.Cards)
	}

	g, err := games.Game(rc.ID)
	if err != nil {
		return outcome{}, err
	}
	out.Jackpot = g.Jackpot
	pterm.Success.Printfln("Game %d started with a jackpot of %d", g.ID, g.Jackpot)

	spinner, _ := pterm.DefaultSpinner.Start("Drawing numbers ...")
	for len(out.Winners) == 0 {
		d, err := games.DrawNumber(out.Players[0].ID, rc.ID)
		if err != nil {
			spinner.Fail()
			return outcome{}, fmt.Errorf("draw: %w", err)
		}
		out.Draws = d.Sequence
		spinner.UpdateText(fmt.Sprintf("Draw %d: %d", d.Sequence, d.Number))

		drawn, err := games.DrawnNumbers(rc.ID)
		if err != nil {
			spinner.Fail()
			return outcome{}, err
		}
		for _, p := range out.Players {
			for bid := range games.BoardsOwnedBy(p.ID) {
				b, err := games.BoardData(bid)
				if err != nil || b.GameID != rc.ID || !bingo.IsWinningBoard(b.Cells, drawn) {
					continue
				}
				if err := games.ClaimBingo(p.ID, rc.ID, bid); err != nil {
					spinner.Fail()
					return outcome{}, fmt.Errorf("%s claim: %w", p.Name, err)
				}
				out.Winners = append(out.Winners, bingo.Winner{BoardID: bid, Player: p.ID})
			}
		}
		clock.Advance(time.Duration(s.Interval) * time.Second)
	}
	spinner.Success(fmt.Sprintf("Bingo after %d draws", out.Draws))

	for _, w := range out.Winners {
		if _, ok := out.Paid[w.Player]; ok {
			continue
		}
		amount, err := games.GetWinnings(w.Player, rc.ID)
		if err != nil {
			return outcome{}, fmt.Errorf("payout: %w", err)
		}
		out.Paid[w.Player] = amount
	}
	out.Blocks = len(chain.Blocks())
	return out, nil
}
