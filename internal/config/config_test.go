package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Environment != Production {
		t.Errorf("expected production, got %s", cfg.Environment)
	}
	if cfg.Chains.Default != 10 {
		t.Errorf("expected default chain 10, got %d", cfg.Chains.Default)
	}
	if len(cfg.Chains.Supported) != 4 {
		t.Errorf("expected 4 supported chains, got %d", len(cfg.Chains.Supported))
	}
	if cfg.Trading.SlippageBps != 10 {
		t.Errorf("expected slippage 10 bps, got %d", cfg.Trading.SlippageBps)
	}
	if cfg.Poller.Interval != 10*time.Second {
		t.Errorf("expected poller interval 10s, got %v", cfg.Poller.Interval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestContractAddress(t *testing.T) {
	want := common.HexToAddress("0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D")

	cfg := DefaultConfig()
	if got := cfg.ContractAddress(); got != want {
		t.Errorf("ContractAddress() = %s, want %s", got.Hex(), want.Hex())
	}

	override := "0x0000000000000000000000000000000000000001"
	cfg.Contract.Address = override
	if got := cfg.ContractAddress(); got != common.HexToAddress(override) {
		t.Errorf("ContractAddress() with override = %s", got.Hex())
	}
}

func TestGetVirtualWalletContractUnknownEnv(t *testing.T) {
	if got := GetVirtualWalletContract("staging"); got != (common.Address{}) {
		t.Errorf("expected zero address, got %s", got.Hex())
	}
	if GetEVMContracts("staging") != nil {
		t.Error("expected nil contracts for unknown environment")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAlchemyKey:  "alchemy-key",
		EnvDuneKey:     "dune-key",
		EnvProviderURL: "http://127.0.0.1:1248",
	}
	cfg := DefaultConfig()
	cfg.Contract.Address = "0x0000000000000000000000000000000000000002"
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.APIKeys.Alchemy != "alchemy-key" {
		t.Errorf("Alchemy = %s", cfg.APIKeys.Alchemy)
	}
	if cfg.APIKeys.Dune != "dune-key" {
		t.Errorf("Dune = %s", cfg.APIKeys.Dune)
	}
	if cfg.Provider.URL != "http://127.0.0.1:1248" {
		t.Errorf("Provider.URL = %s", cfg.Provider.URL)
	}
	if cfg.Contract.Address != "0x0000000000000000000000000000000000000002" {
		t.Errorf("unset env var overwrote contract address: %s", cfg.Contract.Address)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"bad contract", func(c *Config) { c.Contract.Address = "0x123" }, "invalid contract address"},
		{"unknown default chain", func(c *Config) { c.Chains.Default = 56 }, "default chain"},
		{"unknown read chain", func(c *Config) { c.Chains.Read = 42161 }, "read chain"},
		{"unknown supported chain", func(c *Config) { c.Chains.Supported = append(c.Chains.Supported, 56) }, "supported chains"},
		{"slippage too high", func(c *Config) { c.Trading.SlippageBps = 10000 }, "slippage_bps"},
		{"zero poll interval", func(c *Config) { c.Poller.Interval = 0 }, "poller interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Chains.Default != 10 {
		t.Errorf("expected default chain 10, got %d", cfg.Chains.Default)
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# DeFiniX Daemon Configuration") {
		t.Errorf("config file missing header")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Environment = Development
	cfg.Chains.Default = 8453
	cfg.Provider.URL = "ws://127.0.0.1:8546"
	cfg.Poller.Interval = 30 * time.Second
	cfg.RPC.Listen = "127.0.0.1:9999"

	if err := cfg.Save(ConfigPath(dir)); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if loaded.Environment != Development {
		t.Errorf("Environment = %s, want development", loaded.Environment)
	}
	if loaded.Chains.Default != 8453 {
		t.Errorf("Chains.Default = %d, want 8453", loaded.Chains.Default)
	}
	if loaded.Provider.URL != "ws://127.0.0.1:8546" {
		t.Errorf("Provider.URL = %s", loaded.Provider.URL)
	}
	if loaded.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want 30s", loaded.Poller.Interval)
	}
	if loaded.RPC.Listen != "127.0.0.1:9999" {
		t.Errorf("RPC.Listen = %s", loaded.RPC.Listen)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("chains: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestSupportedChains(t *testing.T) {
	ids := DefaultConfig().SupportedChains()
	if len(ids) != 4 || ids[0] != 1 || ids[3] != 137 {
		t.Errorf("SupportedChains() = %v", ids)
	}
}
