package main

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/ledger-bingo/application"
	"github.com/luca-patrignani/ledger-bingo/domain/board"
)

func nameOf(out outcome, id string) string {
	for _, p := range out.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// boardTable renders a board with drawn numbers highlighted.
func boardTable(b board.Board, drawn map[int]bool) string {
	data := pterm.TableData{{"B", "I", "N", "G", "O"}}
	for r := 0; r < board.Size; r++ {
		row := make([]string, board.Size)
		for c := 0; c < board.Size; c++ {
			switch v := b.Cells[c][r]; {
			case board.IsFree(c, r):
				row[c] = pterm.LightYellow("FREE")
			case drawn[v]:
				row[c] = pterm.BgGreen.Sprint(strconv.Itoa(v))
			default:
				row[c] = strconv.Itoa(v)
			}
		}
		data = append(data, row)
	}
	s, _ := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	return s
}

func getWinnerPanel(out outcome) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := ""
	for id, amount := range out.Paid {
		info += pterm.Sprintfln("%s won %d", pterm.LightCyan(nameOf(out, id)), amount)
	}
	info += pterm.Sprintfln("Jackpot: %d | Draws: %d | Blocks: %d", out.Jackpot, out.Draws, out.Blocks)
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|BINGO|")).WithTitleTopCenter().Sprint(info)}
}

func printOutcome(games *application.GameOrchestrator, out outcome) {
	drawnList, _ := games.DrawnNumbers(out.GameID)
	drawn := make(map[int]bool, len(drawnList))
	for _, n := range drawnList {
		drawn[n] = true
	}

	var boards []pterm.Panel
	for _, w := range out.Winners {
		b, err := games.BoardData(w.BoardID)
		if err != nil {
			continue
		}
		title := pterm.LightCyan(nameOf(out, w.Player)) + " board " + strconv.FormatUint(w.BoardID, 10)
		boards = append(boards, pterm.Panel{Data: pterm.DefaultBox.WithTitle(title).Sprint(boardTable(b, drawn))})
	}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		boards,
		{getWinnerPanel(out)},
	}).Render()
}
