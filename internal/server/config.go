package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/truco/internal/registry"
	"github.com/cardroom/truco/internal/session"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Timing TimingSettings `hcl:"timing,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// TimingSettings controls the session timers, all in milliseconds
type TimingSettings struct {
	GracePeriodMs  int `hcl:"grace_period_ms,optional"`
	AdvanceDelayMs int `hcl:"advance_delay_ms,optional"`
	BotDelayMinMs  int `hcl:"bot_delay_min_ms,optional"`
	BotDelayMaxMs  int `hcl:"bot_delay_max_ms,optional"`
}

// TableConfig defines a table created at startup
type TableConfig struct {
	Name       string `hcl:"name,label"`
	Size       string `hcl:"size,optional"`
	ScoreLimit int    `hcl:"score_limit,optional"`
	CutDeck    bool   `hcl:"cut_deck,optional"`
	Bots       int    `hcl:"bots,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "truco-server.log",
		},
		Timing: TimingSettings{
			GracePeriodMs:  30000,
			AdvanceDelayMs: 3000,
			BotDelayMinMs:  500,
			BotDelayMaxMs:  2500,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "truco-server.log"
	}

	if config.Timing.GracePeriodMs == 0 {
		config.Timing.GracePeriodMs = 30000
	}
	if config.Timing.AdvanceDelayMs == 0 {
		config.Timing.AdvanceDelayMs = 3000
	}
	if config.Timing.BotDelayMinMs == 0 {
		config.Timing.BotDelayMinMs = 500
	}
	if config.Timing.BotDelayMaxMs == 0 {
		config.Timing.BotDelayMaxMs = 2500
	}

	// Apply defaults to tables
	for i := range config.Tables {
		if config.Tables[i].Size == "" {
			config.Tables[i].Size = "2v2"
		}
		if config.Tables[i].ScoreLimit == 0 {
			config.Tables[i].ScoreLimit = 30
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Timing.BotDelayMinMs > c.Timing.BotDelayMaxMs {
		return fmt.Errorf("bot delay minimum must not exceed maximum")
	}
	if c.Timing.GracePeriodMs < 0 || c.Timing.AdvanceDelayMs < 0 {
		return fmt.Errorf("timing values must not be negative")
	}

	for _, table := range c.Tables {
		size, ok := registry.ParseRoomSize(table.Size)
		if !ok {
			return fmt.Errorf("table %s: invalid size %s", table.Name, table.Size)
		}
		if table.ScoreLimit != 30 && table.ScoreLimit != 40 {
			return fmt.Errorf("table %s: score limit must be 30 or 40", table.Name)
		}
		if table.Bots < 0 || table.Bots > size.MaxPlayers() {
			return fmt.Errorf("table %s: bot count must be between 0 and %d", table.Name, size.MaxPlayers())
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionConfig converts the timing settings for the session manager
func (c *ServerConfig) SessionConfig() session.Config {
	return session.Config{
		GracePeriod:  time.Duration(c.Timing.GracePeriodMs) * time.Millisecond,
		AdvanceDelay: time.Duration(c.Timing.AdvanceDelayMs) * time.Millisecond,
		BotDelayMin:  time.Duration(c.Timing.BotDelayMinMs) * time.Millisecond,
		BotDelayMax:  time.Duration(c.Timing.BotDelayMaxMs) * time.Millisecond,
	}
}
