package config

import (
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/go-playground/validator/v10"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	// HTTP

	Port int `arg:"env:PORT" help:"HTTP listen port." default:"8080" validate:"min=1,max=65535"`

	// TELEGRAM

	BotMode       string `arg:"--bot-mode,env:BOT_MODE" help:"How updates arrive: polling or webhook." default:"polling" validate:"oneof=polling webhook"`
	BotToken      string `arg:"--bot-token,env:TELEGRAM_BOT_TOKEN" help:"Telegram bot token." validate:"required"`
	PublicURL     string `arg:"--public-url,env:PUBLIC_URL" help:"Externally reachable base URL, webhook mode only." validate:"required_if=BotMode webhook,omitempty,url"`
	WebhookSecret string `arg:"--webhook-secret,env:WEBHOOK_SECRET" help:"Path secret of the webhook route." validate:"required_if=BotMode webhook"`

	// MARVEL

	MarvelPublicKey  string        `arg:"--marvel-public-key,env:MARVEL_PUBLIC_KEY" help:"Marvel API public key." validate:"required"`
	MarvelPrivateKey string        `arg:"--marvel-private-key,env:MARVEL_PRIVATE_KEY" help:"Marvel API private key." validate:"required"`
	MarvelBaseURL    string        `arg:"--marvel-base-url,env:MARVEL_BASE_URL" help:"Marvel API base URL." default:"https://gateway.marvel.com:443/v1/public" validate:"required,url"`
	PageSize         int           `arg:"--page-size,env:PAGE_SIZE" help:"Entities per listed page." default:"10" validate:"min=1,max=100"`
	HTTPTimeout      time.Duration `arg:"--http-timeout,env:HTTP_TIMEOUT" help:"Marvel API request timeout." default:"10s" validate:"gt=0"`

	// SESSIONS

	// Sessions idle for longer are dropped by the sweeper.
	SessionTTL   time.Duration `arg:"--session-ttl,env:SESSION_TTL" help:"Idle session lifetime." default:"24h" validate:"gt=0"`
	SessionSweep string        `arg:"--session-sweep,env:SESSION_SWEEP" help:"Cron schedule of the idle session sweep." default:"@every 10m" validate:"required"`

	// STORAGE, LOGS

	DatabaseURL  string `arg:"--database-url,env:DATABASE_URL" help:"Postgres DSN of the query journal; journal is off when empty."`
	// Bearer token of GET /journal/{chatID}; the route is not served without it.
	JournalToken string `arg:"--journal-token,env:JOURNAL_TOKEN" help:"Bearer token for reading the journal over HTTP." validate:"omitempty,min=16"`
	LogFile      string `arg:"--log-file,env:LOG_FILE" help:"Also write logs to this rotated file."`
}

// Webhook reports whether updates are pushed by Telegram.
func (c Config) Webhook() bool { return c.BotMode == ModeWebhook }

// Load parses flags and environment into a validated Config. A help request
// surfaces as arg.ErrHelp.
func Load(args []string) (Config, error) {
	var cfg Config

	p, err := arg.NewParser(arg.Config{Program: "marvel-chat-bot"}, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parser: %w", err)
	}
	if err := p.Parse(args); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
