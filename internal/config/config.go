package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	NBAStats NBAStats
	TTFL     TTFL
	Discord  Discord
}

type NBAStats struct {
	Timeout        time.Duration `envconfig:"NBA_TIMEOUT" default:"60s"`
	Proxy          string        `envconfig:"NBA_PROXY"`
	MaxRetries     int           `envconfig:"NBA_MAX_RETRIES" default:"3"`
	RateLimitSleep time.Duration `envconfig:"NBA_RATE_LIMIT_SLEEP" default:"1s"`
	GameLogSize    int           `envconfig:"NBA_GAME_LOG_SIZE" default:"10"`
	Season         string        `envconfig:"NBA_SEASON"`
}

type TTFL struct {
	CookieFile string `envconfig:"TTFL_COOKIE_FILE" default:"fantasy.trashtalk.co_cookies.txt"`
	LockDays   int    `envconfig:"TTFL_LOCK_DAYS" default:"30"`
}

type Discord struct {
	WebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`
	LegacyURL  string `envconfig:"DISCORD_TTFL"`
}

// URL returns the configured webhook, preferring DISCORD_WEBHOOK_URL.
func (d Discord) URL() string {
	if d.WebhookURL != "" {
		return d.WebhookURL
	}
	return d.LegacyURL
}

type BotConfig struct {
	Config
	TelegramBot TelegramBot
	Schedule    Schedule
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type Schedule struct {
	PicksCron string `envconfig:"PICKS_CRON" default:"0 17 * * *"`
	Timezone  string `envconfig:"TIMEZONE" default:"Europe/Paris"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":80"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func NewBot() (*BotConfig, error) {
	var c BotConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(c.Schedule.PicksCron); err != nil {
		return nil, fmt.Errorf("invalid PICKS_CRON %q: %w", c.Schedule.PicksCron, err)
	}
	return &c, nil
}
