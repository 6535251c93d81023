package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/luca-patrignani/ledger-bingo/domain/bingo"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	MinBuyIn                 uint64
	MaxDrawIntervalSeconds   uint64
	MinPlayers               int
	MaxCardsPerPlayer        int
	Port                     string
	DatabaseURL              string
	CORSAllowedOrigins       []string
	FaucetAmount             uint64
	SubscriberBuffer         int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
}

func Default() Config {
	rules := bingo.DefaultRules()
	return Config{
		MinBuyIn:                 rules.MinBuyIn,
		MaxDrawIntervalSeconds:   rules.MaxDrawIntervalSec,
		MinPlayers:               rules.MinPlayers,
		MaxCardsPerPlayer:        rules.MaxCardsPerPlayer,
		Port:                     "8080",
		CORSAllowedOrigins:       []string{"*"},
		SubscriberBuffer:         64,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("BINGO_MIN_BUY_IN"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil && value > 0 {
			cfg.MinBuyIn = value
		}
	}
	if raw := os.Getenv("BINGO_MAX_DRAW_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.MaxDrawIntervalSeconds = value
		}
	}
	if raw := os.Getenv("BINGO_MIN_PLAYERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MinPlayers = value
		}
	}
	if raw := os.Getenv("BINGO_MAX_CARDS_PER_PLAYER"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxCardsPerPlayer = value
		}
	}
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}
	if raw := os.Getenv("BINGO_FAUCET_AMOUNT"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.FaucetAmount = value
		}
	}
	if raw := os.Getenv("BINGO_SUBSCRIBER_BUFFER"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SubscriberBuffer = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	return cfg
}

// Rules returns the game rules the configuration describes.
func (c Config) Rules() bingo.Rules {
	return bingo.Rules{
		MinBuyIn:           c.MinBuyIn,
		MaxDrawIntervalSec: c.MaxDrawIntervalSeconds,
		MinPlayers:         c.MinPlayers,
		MaxCardsPerPlayer:  c.MaxCardsPerPlayer,
	}
}

func (c Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSeconds) * time.Second
}
