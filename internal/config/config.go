// Package config holds the daemon configuration: API keys, the virtual wallet
// contract, chain selection, the wallet provider endpoint and the RPC listener.
// Values come from a YAML file, then environment overrides, then CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/definix-labs/definix/internal/chain"
)

// Environment selects which contract deployment and defaults are used.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// Environment variables read by ApplyEnv.
const (
	EnvAlchemyKey      = "ALCHEMY_API_KEY"
	EnvDuneKey         = "DUNE_API_KEY"
	EnvContractAddress = "DEFINIX_CONTRACT_ADDRESS"
	EnvProviderURL     = "DEFINIX_PROVIDER_URL"
)

// Config holds all configuration for the daemon.
type Config struct {
	// Environment is production or development.
	Environment Environment `yaml:"environment"`

	App      AppConfig      `yaml:"app"`
	APIKeys  APIKeysConfig  `yaml:"api_keys"`
	Contract ContractConfig `yaml:"contract"`
	Chains   ChainsConfig   `yaml:"chains"`
	Provider ProviderConfig `yaml:"provider"`
	Trading  TradingConfig  `yaml:"trading"`
	Poller   PollerConfig   `yaml:"poller"`
	RPC      RPCConfig      `yaml:"rpc"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AppConfig is informational metadata reported by the RPC API.
type AppConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// APIKeysConfig holds third-party API keys.
type APIKeysConfig struct {
	// Alchemy completes every chain RPC URL prefix.
	Alchemy string `yaml:"alchemy"`
	// Dune is carried for analytics clients; nothing in the daemon calls Dune.
	Dune string `yaml:"dune"`
}

// ContractConfig holds the virtual wallet contract location.
type ContractConfig struct {
	// Address overrides the per-environment address from evm_contracts.go.
	Address string `yaml:"address,omitempty"`
}

// ChainsConfig selects chains.
type ChainsConfig struct {
	// Default is the chain the session starts on.
	Default uint64 `yaml:"default"`
	// Read is the chain the read backend queries before a wallet connects.
	Read uint64 `yaml:"read"`
	// Supported is the list reported to clients.
	Supported []uint64 `yaml:"supported"`
	// FollowWallet moves reads to the wallet's chain after every switch.
	FollowWallet bool `yaml:"follow_wallet"`
}

// ProviderConfig describes the external wallet provider.
type ProviderConfig struct {
	// URL is an http(s), ws(s) or IPC endpoint speaking the EIP-1193 JSON-RPC
	// methods. Empty means no provider is available.
	URL string `yaml:"url"`
	// AutoProbe connects silently at startup when the provider already
	// authorized an account.
	AutoProbe bool `yaml:"auto_probe"`
}

// TradingConfig holds swap parameters.
type TradingConfig struct {
	// SlippageBps is the tolerance applied to quotes to derive minimum outputs.
	SlippageBps uint64 `yaml:"slippage_bps"`
}

// PollerConfig holds dashboard refresh settings.
type PollerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// RPCConfig holds the JSON-RPC listener settings.
type RPCConfig struct {
	Listen string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment: Production,
		App: AppConfig{
			Name:        "DeFiniX",
			Description: "Virtual Liquidity Engine using virtual wallets and stablecoins",
			Version:     "1.0.0",
		},
		Chains: ChainsConfig{
			Default:   uint64(chain.Optimism),
			Read:      uint64(chain.Optimism),
			Supported: []uint64{1, 10, 8453, 137},
		},
		Provider: ProviderConfig{
			AutoProbe: true,
		},
		Trading: TradingConfig{
			SlippageBps: 10,
		},
		Poller: PollerConfig{
			Enabled:  true,
			Interval: 10 * time.Second,
		},
		RPC: RPCConfig{
			Listen: "127.0.0.1:8645",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// LoadConfig loads configuration from dataDir/config.yaml.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(dataDir string) (*Config, error) {
	configPath := ConfigPath(dataDir)

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# DeFiniX Daemon Configuration\n# Generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides values from environment variables. Unset or empty
// variables leave the file value in place.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAlchemyKey); v != "" {
		c.APIKeys.Alchemy = v
	}
	if v := getenv(EnvDuneKey); v != "" {
		c.APIKeys.Dune = v
	}
	if v := getenv(EnvContractAddress); v != "" {
		c.Contract.Address = v
	}
	if v := getenv(EnvProviderURL); v != "" {
		c.Provider.URL = v
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Environment {
	case Production, Development:
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}

	if c.Contract.Address != "" && !common.IsHexAddress(c.Contract.Address) {
		return fmt.Errorf("invalid contract address %q", c.Contract.Address)
	}

	if !chain.IsSupported(chain.ID(c.Chains.Default)) {
		return fmt.Errorf("default chain: %w: %d", chain.ErrUnsupportedChain, c.Chains.Default)
	}
	if !chain.IsSupported(chain.ID(c.Chains.Read)) {
		return fmt.Errorf("read chain: %w: %d", chain.ErrUnsupportedChain, c.Chains.Read)
	}
	for _, id := range c.Chains.Supported {
		if !chain.IsSupported(chain.ID(id)) {
			return fmt.Errorf("supported chains: %w: %d", chain.ErrUnsupportedChain, id)
		}
	}

	if c.Trading.SlippageBps >= 10000 {
		return fmt.Errorf("slippage_bps must be below 10000, got %d", c.Trading.SlippageBps)
	}
	if c.Poller.Enabled && c.Poller.Interval <= 0 {
		return fmt.Errorf("poller interval must be positive, got %v", c.Poller.Interval)
	}

	return nil
}

// ContractAddress returns the virtual wallet contract address: the explicit
// override when set, otherwise the deployment for the configured environment.
func (c *Config) ContractAddress() common.Address {
	if c.Contract.Address != "" {
		return common.HexToAddress(c.Contract.Address)
	}
	return GetVirtualWalletContract(c.Environment)
}

// SupportedChains returns the configured supported chains as registry ids.
func (c *Config) SupportedChains() []chain.ID {
	out := make([]chain.ID, 0, len(c.Chains.Supported))
	for _, id := range c.Chains.Supported {
		out = append(out, chain.ID(id))
	}
	return out
}

// ConfigPath returns the full path to the config file for the given data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(expandPath(dataDir), ConfigFileName)
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
