package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/luca-patrignani/ledger-bingo/ledger"
)

// Archive writes blocks to the database. A nil database turns every write
// into a no-op so the server can run without Postgres.
type Archive struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewArchive(db *gorm.DB, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{db: db, logger: logger}
}

// SaveBlock stores b with its events and transfers in one transaction.
func (a *Archive) SaveBlock(b ledger.Block) error {
	if a.db == nil {
		return nil
	}
	block, events, transfers := records(b)
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		if len(transfers) > 0 {
			if err := tx.Create(&transfers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Run archives blocks until the channel closes or ctx is done.
func (a *Archive) Run(ctx context.Context, blocks <-chan ledger.Block) {
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-blocks:
			if !ok {
				return
			}
			if err := a.SaveBlock(b); err != nil {
				a.logger.Error("failed to archive block", "block", b.Index, "err", err)
			}
		}
	}
}

// GameEvents returns the archived events of a game, oldest first.
func (a *Archive) GameEvents(gameID uint64) ([]Event, error) {
	if a.db == nil {
		return nil, errors.New("archive has no database")
	}
	var events []Event
	err := a.db.Where("game_id = ?", gameID).Order("block_index asc, id asc").Find(&events).Error
	return events, err
}

func records(b ledger.Block) (Block, []Event, []Transfer) {
	at := time.Unix(b.Timestamp, 0).UTC()
	block := Block{
		Index:     b.Index,
		Hash:      b.Hash,
		PrevHash:  b.PrevHash,
		ActionID:  b.Action.ID,
		Caller:    b.Action.Caller,
		Method:    b.Action.Method,
		Value:     b.Action.Value,
		Seed:      b.Action.Seed,
		Timestamp: at,
		CreatedAt: at,
	}
	events := make([]Event, 0, len(b.Events))
	for _, ev := range b.Events {
		events = append(events, Event{
			BlockIndex: b.Index,
			GameID:     gameIDOf(ev.Payload),
			Type:       ev.Type,
			Payload:    datatypes.JSON(ev.Payload),
			CreatedAt:  at,
		})
	}
	transfers := make([]Transfer, 0, len(b.Transfers))
	for _, t := range b.Transfers {
		transfers = append(transfers, Transfer{
			BlockIndex: b.Index,
			FromAcct:   t.From,
			ToAcct:     t.To,
			Amount:     t.Amount,
			CreatedAt:  at,
		})
	}
	return block, events, transfers
}

// gameIDOf reads the game or proposal id out of an event payload. Both share
// one id space.
func gameIDOf(payload json.RawMessage) *uint64 {
	var ids struct {
		GameID     *uint64 `json:"game_id"`
		ProposalID *uint64 `json:"proposal_id"`
	}
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil
	}
	if ids.GameID != nil {
		return ids.GameID
	}
	return ids.ProposalID
}
