package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "COIN_DIGEST_CONFIG"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	cryptoPanicKeyEnv = "CRYPTOPANIC_API_KEY"
	openAIKeyEnv      = "OPENAI_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	summaryModelEnv   = "SUMMARY_MODEL"

	// capacityFloorFactor keeps the tracker large enough that a few cycles'
	// worth of fetched articles cannot flush previously delivered identities.
	capacityFloorFactor = 4
)

// Duration wraps time.Duration so YAML accepts strings like "30m".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Tracker       TrackerConfig      `yaml:"tracker"`
	Source        SourceConfig       `yaml:"source"`
	Summary       SummaryConfig      `yaml:"summary"`
	Digest        DigestConfig       `yaml:"digest"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines the update cadence and per-cycle limits.
type SchedulerConfig struct {
	Interval     Duration `yaml:"interval"`
	Threshold    int      `yaml:"threshold"`
	FetchTimeout Duration `yaml:"fetchTimeout"`
}

// TrackerConfig bounds the in-memory seen set.
type TrackerConfig struct {
	Capacity int `yaml:"capacity"`
}

// SourceConfig selects the news provider strategy and its categories.
type SourceConfig struct {
	Provider    string            `yaml:"provider"`
	PageSize    int               `yaml:"pageSize"`
	Categories  []CategoryConfig  `yaml:"categories"`
	CryptoPanic CryptoPanicConfig `yaml:"cryptopanic"`
}

// CategoryNames lists the configured category names in declared order.
func (s SourceConfig) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, cat := range s.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// CategoryConfig describes a single monitored category. URL is only
// consulted by feed-backed providers.
type CategoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// CryptoPanicConfig defines how to contact the CryptoPanic API.
type CryptoPanicConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// SummaryConfig selects and configures the optional digest summarizer.
type SummaryConfig struct {
	Provider string   `yaml:"provider"`
	Model    string   `yaml:"model"`
	APIKey   string   `yaml:"apiKey"`
	Timeout  Duration `yaml:"timeout"`
}

// DigestConfig tunes digest rendering.
type DigestConfig struct {
	TopPerCategory int `yaml:"topPerCategory"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages and poll commands.
type TelegramConfig struct {
	BotToken        string `yaml:"botToken"`
	ChatID          string `yaml:"chatId"`
	APIBaseURL      string `yaml:"apiBaseUrl"`
	DisableCommands bool   `yaml:"disableCommands"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(cryptoPanicKeyEnv); v != "" {
		c.Source.CryptoPanic.APIKey = v
	}

	if v := os.Getenv(summaryModelEnv); v != "" {
		c.Summary.Model = v
	}

	switch c.Summary.Provider {
	case "openai":
		if v := os.Getenv(openAIKeyEnv); v != "" {
			c.Summary.APIKey = v
		}
	case "anthropic":
		if v := os.Getenv(anthropicKeyEnv); v != "" {
			c.Summary.APIKey = v
		}
	}
}

// normalize repairs out-of-range values left after file and env merging.
func (c *Config) normalize() {
	defaults := defaultConfig()

	if len(c.Source.Categories) == 0 {
		c.Source.Categories = defaults.Source.Categories
	}
	if c.Source.PageSize <= 0 {
		c.Source.PageSize = defaults.Source.PageSize
	}
	if c.Scheduler.Interval <= 0 {
		c.Scheduler.Interval = defaults.Scheduler.Interval
	}
	if c.Scheduler.Threshold <= 0 {
		c.Scheduler.Threshold = defaults.Scheduler.Threshold
	}
	if c.Scheduler.FetchTimeout <= 0 {
		c.Scheduler.FetchTimeout = defaults.Scheduler.FetchTimeout
	}

	floor := capacityFloorFactor * len(c.Source.Categories) * c.Source.PageSize
	if c.Tracker.Capacity < floor {
		log.Printf("config: tracker capacity %d below safety floor %d, raising", c.Tracker.Capacity, floor)
		c.Tracker.Capacity = floor
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Threshold != 0 {
		base.Scheduler.Threshold = override.Scheduler.Threshold
	}
	if override.Scheduler.FetchTimeout != 0 {
		base.Scheduler.FetchTimeout = override.Scheduler.FetchTimeout
	}

	if override.Tracker.Capacity != 0 {
		base.Tracker.Capacity = override.Tracker.Capacity
	}

	if override.Source.Provider != "" {
		base.Source.Provider = override.Source.Provider
	}
	if override.Source.PageSize != 0 {
		base.Source.PageSize = override.Source.PageSize
	}
	if len(override.Source.Categories) > 0 {
		base.Source.Categories = override.Source.Categories
	}
	if override.Source.CryptoPanic.Endpoint != "" {
		base.Source.CryptoPanic.Endpoint = override.Source.CryptoPanic.Endpoint
	}
	if override.Source.CryptoPanic.APIKey != "" {
		base.Source.CryptoPanic.APIKey = override.Source.CryptoPanic.APIKey
	}

	if override.Summary.Provider != "" {
		base.Summary.Provider = override.Summary.Provider
	}
	if override.Summary.Model != "" {
		base.Summary.Model = override.Summary.Model
	}
	if override.Summary.APIKey != "" {
		base.Summary.APIKey = override.Summary.APIKey
	}
	if override.Summary.Timeout != 0 {
		base.Summary.Timeout = override.Summary.Timeout
	}

	if override.Digest.TopPerCategory != 0 {
		base.Digest.TopPerCategory = override.Digest.TopPerCategory
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIBaseURL != "" {
		base.Notifications.Telegram.APIBaseURL = override.Notifications.Telegram.APIBaseURL
	}
	if override.Notifications.Telegram.DisableCommands {
		base.Notifications.Telegram.DisableCommands = true
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			Interval:     Duration(30 * time.Minute),
			Threshold:    3,
			FetchTimeout: Duration(30 * time.Second),
		},
		Tracker: TrackerConfig{Capacity: 1024},
		Source: SourceConfig{
			Provider: "cryptopanic",
			PageSize: 50,
			Categories: []CategoryConfig{
				{Name: "BTC"},
				{Name: "ETH"},
				{Name: "SOL"},
				{Name: "XRP"},
				{Name: "DOGE"},
			},
			CryptoPanic: CryptoPanicConfig{
				Endpoint: "https://cryptopanic.com/api/v1/posts/",
			},
		},
		Summary: SummaryConfig{
			Provider: "openai",
			Timeout:  Duration(15 * time.Second),
		},
		Digest: DigestConfig{TopPerCategory: 5},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIBaseURL: "https://api.telegram.org"},
		},
	}
}
