package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ShiftEvidence/internal/domain"
)

const (
	defaultInterval = 24 * time.Hour

	configPathEnv     = "SHIFT_EVIDENCE_CONFIG"
	corpusDSNEnv      = "CORPUS_DSN"
	analysisDSNEnv    = "ANALYSIS_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	CorpusStore   StoreConfig        `yaml:"corpusStore"`
	AnalysisStore StoreConfig        `yaml:"analysisStore"`
	Logging       LoggingConfig      `yaml:"logging"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Packet        PacketConfig       `yaml:"packet"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Shifts        []domain.Shift     `yaml:"shifts"`
}

// StoreConfig describes one SQL store connection.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig tunes the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig selects the shift and run labels for evidence runs.
type PipelineConfig struct {
	Shift     string          `yaml:"shift"`
	Method    string          `yaml:"method"`
	Version   string          `yaml:"version"`
	Notes     string          `yaml:"notes"`
	DryRun    bool            `yaml:"dryRun"`
	Selection SelectionConfig `yaml:"selection"`
}

// SelectionConfig carries the tunable thresholds of the selection policy.
type SelectionConfig struct {
	MaxPerPhase   int     `yaml:"maxPerPhase"`
	MinScore      float64 `yaml:"minScore"`
	MinAnchorHits int     `yaml:"minAnchorHits"`
	MinGroupHits  int     `yaml:"minGroupHits"`
	FullTextOnly  bool    `yaml:"fullTextOnly"`
	Backfill      bool    `yaml:"backfill"`
}

// Params converts the YAML selection block into domain parameters.
func (s SelectionConfig) Params() domain.SelectionParams {
	return domain.SelectionParams{
		MaxPerPhase:   s.MaxPerPhase,
		MinScore:      s.MinScore,
		MinAnchorHits: s.MinAnchorHits,
		MinGroupHits:  s.MinGroupHits,
		FullTextOnly:  s.FullTextOnly,
		Backfill:      s.Backfill,
	}
}

// PacketConfig locates the research packet outputs; empty paths disable
// packet assembly.
type PacketConfig struct {
	OutputJSON     string `yaml:"outputJson"`
	OutputMarkdown string `yaml:"outputMarkdown"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines whether and how often recurring runs execute.
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the interval string, defaulting to 24h.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	if s.Interval == "" {
		return defaultInterval
	}
	parsed, err := time.ParseDuration(s.Interval)
	if err != nil || parsed <= 0 {
		log.Printf("config: invalid scheduler interval %q, reverting to %s", s.Interval, defaultInterval)
		return defaultInterval
	}
	return parsed
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
	return cfg
}

// Validate fails fast on settings the application cannot start without.
func (c Config) Validate() error {
	for _, store := range []struct {
		name string
		cfg  StoreConfig
	}{
		{"corpusStore", c.CorpusStore},
		{"analysisStore", c.AnalysisStore},
	} {
		if store.cfg.Driver != "postgres" && store.cfg.Driver != "sqlite" {
			return fmt.Errorf("%s: unsupported driver %q", store.name, store.cfg.Driver)
		}
		if store.cfg.DSN == "" {
			return fmt.Errorf("%s: dsn is empty", store.name)
		}
	}
	if c.Pipeline.Shift == "" {
		return fmt.Errorf("pipeline: shift id is empty")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(corpusDSNEnv); v != "" {
		c.CorpusStore.DSN = v
	}

	if v := os.Getenv(analysisDSNEnv); v != "" {
		c.AnalysisStore.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.CorpusStore.Driver != "" {
		base.CorpusStore.Driver = override.CorpusStore.Driver
	}
	if override.CorpusStore.DSN != "" {
		base.CorpusStore.DSN = override.CorpusStore.DSN
	}

	if override.AnalysisStore.Driver != "" {
		base.AnalysisStore.Driver = override.AnalysisStore.Driver
	}
	if override.AnalysisStore.DSN != "" {
		base.AnalysisStore.DSN = override.AnalysisStore.DSN
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Pipeline.Shift != "" {
		base.Pipeline.Shift = override.Pipeline.Shift
	}
	if override.Pipeline.Method != "" {
		base.Pipeline.Method = override.Pipeline.Method
	}
	if override.Pipeline.Version != "" {
		base.Pipeline.Version = override.Pipeline.Version
	}
	if override.Pipeline.Notes != "" {
		base.Pipeline.Notes = override.Pipeline.Notes
	}
	if override.Pipeline.DryRun {
		base.Pipeline.DryRun = true
	}
	if override.Pipeline.Selection != (SelectionConfig{}) {
		base.Pipeline.Selection = override.Pipeline.Selection
	}

	if override.Packet.OutputJSON != "" {
		base.Packet.OutputJSON = override.Packet.OutputJSON
	}
	if override.Packet.OutputMarkdown != "" {
		base.Packet.OutputMarkdown = override.Packet.OutputMarkdown
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if len(override.Shifts) > 0 {
		base.Shifts = override.Shifts
	}

	return base
}

func defaultConfig() Config {
	return Config{
		CorpusStore:   StoreConfig{Driver: "sqlite", DSN: "data/corpus.db"},
		AnalysisStore: StoreConfig{Driver: "sqlite", DSN: "data/analysis.db"},
		Logging:       LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			Shift:   "republic_shift",
			Method:  "rule_based",
			Version: "v1",
			Selection: SelectionConfig{
				MaxPerPhase:   12,
				MinScore:      14,
				MinAnchorHits: 3,
				MinGroupHits:  2,
				Backfill:      true,
			},
		},
		Packet:    PacketConfig{},
		Scheduler: SchedulerConfig{Enabled: false, Interval: "24h"},
	}
}
