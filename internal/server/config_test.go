package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "truco-server.hcl")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}
	if cfg.Server.Address != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("Expected default address localhost:8080, got %s", cfg.GetServerAddress())
	}
	if cfg.Timing.GracePeriodMs != 30000 {
		t.Errorf("Expected default grace period 30000ms, got %d", cfg.Timing.GracePeriodMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestLoadServerConfigOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server {
  address = "0.0.0.0"
  port    = 9000
}

timing {
  grace_period_ms = 10000
  bot_delay_min_ms = 100
  bot_delay_max_ms = 400
}

table "lobby" {
  size        = "1v1"
  score_limit = 40
  cut_deck    = true
  bots        = 1
}
`)
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}
	if got := cfg.GetServerAddress(); got != "0.0.0.0:9000" {
		t.Errorf("GetServerAddress() = %s, want 0.0.0.0:9000", got)
	}
	if cfg.Timing.GracePeriodMs != 10000 {
		t.Errorf("Expected grace period 10000ms, got %d", cfg.Timing.GracePeriodMs)
	}
	if cfg.Timing.AdvanceDelayMs != 3000 {
		t.Errorf("Expected default advance delay to survive a partial block, got %d", cfg.Timing.AdvanceDelayMs)
	}
	if len(cfg.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(cfg.Tables))
	}
	table := cfg.Tables[0]
	if table.Name != "lobby" || table.Size != "1v1" || table.ScoreLimit != 40 || !table.CutDeck || table.Bots != 1 {
		t.Errorf("Unexpected table config: %+v", table)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config failed validation: %v", err)
	}
}

func TestLoadServerConfigTableDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server {}
timing {}

table "casual" {}
`)
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}
	table := cfg.Tables[0]
	if table.Size != "2v2" {
		t.Errorf("Expected default size 2v2, got %s", table.Size)
	}
	if table.ScoreLimit != 30 {
		t.Errorf("Expected default score limit 30, got %d", table.ScoreLimit)
	}
}

func TestLoadServerConfigMalformed(t *testing.T) {
	path := writeConfigFile(t, `server { address = `)
	if _, err := LoadServerConfig(path); err == nil {
		t.Error("Expected an error for malformed HCL")
	}
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *ServerConfig) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *ServerConfig) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "bot delay window inverted",
			mutate:  func(c *ServerConfig) { c.Timing.BotDelayMinMs = 500; c.Timing.BotDelayMaxMs = 100 },
			wantErr: true,
		},
		{
			name:    "negative grace period",
			mutate:  func(c *ServerConfig) { c.Timing.GracePeriodMs = -1 },
			wantErr: true,
		},
		{
			name: "bad table size",
			mutate: func(c *ServerConfig) {
				c.Tables = []TableConfig{{Name: "t", Size: "5v5", ScoreLimit: 30}}
			},
			wantErr: true,
		},
		{
			name: "bad score limit",
			mutate: func(c *ServerConfig) {
				c.Tables = []TableConfig{{Name: "t", Size: "1v1", ScoreLimit: 25}}
			},
			wantErr: true,
		},
		{
			name: "too many bots",
			mutate: func(c *ServerConfig) {
				c.Tables = []TableConfig{{Name: "t", Size: "1v1", ScoreLimit: 30, Bots: 3}}
			},
			wantErr: true,
		},
		{
			name: "full bot table is valid",
			mutate: func(c *ServerConfig) {
				c.Tables = []TableConfig{{Name: "t", Size: "3v3", ScoreLimit: 40, Bots: 6}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionConfigConversion(t *testing.T) {
	cfg := DefaultServerConfig()
	sc := cfg.SessionConfig()
	if sc.GracePeriod != 30*time.Second {
		t.Errorf("GracePeriod = %v, want 30s", sc.GracePeriod)
	}
	if sc.AdvanceDelay != 3*time.Second {
		t.Errorf("AdvanceDelay = %v, want 3s", sc.AdvanceDelay)
	}
	if sc.BotDelayMin != 500*time.Millisecond || sc.BotDelayMax != 2500*time.Millisecond {
		t.Errorf("Bot delay window = [%v, %v], want [500ms, 2.5s]", sc.BotDelayMin, sc.BotDelayMax)
	}
}
