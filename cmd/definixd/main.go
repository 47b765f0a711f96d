// Package main provides the definixd daemon - a wallet and virtual wallet
// contract gateway.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/chainclient"
	"github.com/definix-labs/definix/internal/config"
	"github.com/definix-labs/definix/internal/provider"
	"github.com/definix-labs/definix/internal/rpc"
	"github.com/definix-labs/definix/internal/web3"
	"github.com/definix-labs/definix/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	// Parse flags
	var (
		dataDir      = flag.String("data-dir", "~/.definix", "Data directory")
		configFile   = flag.String("config", "", "Config file path (default: <data-dir>/config.yaml)")
		apiAddr      = flag.String("api", "", "JSON-RPC API address, overrides config")
		providerURL  = flag.String("provider", "", "Wallet provider endpoint, overrides config")
		env          = flag.String("env", "", "Environment (production, development), overrides config")
		followWallet = flag.Bool("follow-wallet", false, "Move reads to the wallet's chain after every switch")
		noPoll       = flag.Bool("no-poll", false, "Disable the dashboard poller")
		logLevel     = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides config")
		showVersion  = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	// Set up logging (initial, may be overridden by config)
	initialLevel := *logLevel
	if initialLevel == "" {
		initialLevel = "info"
	}
	log := logging.New(&logging.Config{
		Level:      initialLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("definixd %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	// Load or create config file
	configDir := *dataDir
	if *configFile != "" {
		configDir = filepath.Dir(*configFile)
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Environment, then CLI flags, take precedence over the config file
	cfg.ApplyEnv(nil)
	if *apiAddr != "" {
		cfg.RPC.Listen = *apiAddr
	}
	if *providerURL != "" {
		cfg.Provider.URL = *providerURL
	}
	if *env != "" {
		cfg.Environment = config.Environment(*env)
	}
	if *followWallet {
		cfg.Chains.FollowWallet = true
	}
	if *noPoll {
		cfg.Poller.Enabled = false
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	// Update logging with config level
	log = logging.New(&logging.Config{
		Level:      cfg.Logging.Level,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	log.Info("Config loaded", "path", config.ConfigPath(configDir), "environment", cfg.Environment)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Chain backends for contract reads and receipts
	pool := chainclient.NewPool(cfg.APIKeys.Alchemy)
	defer pool.Close()
	if cfg.APIKeys.Alchemy == "" {
		log.Warn("No Alchemy API key configured, chain RPC requests will likely be rejected")
	}

	// Wallet provider
	var wallet provider.Provider
	if cfg.Provider.URL != "" {
		p, err := provider.Dial(ctx, cfg.Provider.URL)
		if err != nil {
			log.Warn("Wallet provider unavailable", "url", cfg.Provider.URL, "error", err)
		} else {
			defer p.Close()
			wallet = p
			log.Info("Wallet provider configured", "url", cfg.Provider.URL)
		}
	} else {
		log.Warn("No wallet provider configured, connect and writes are disabled")
	}

	svc, err := web3.NewService(&web3.ServiceConfig{
		Provider:        wallet,
		Backends:        pool,
		Contract:        cfg.ContractAddress(),
		DefaultChain:    chain.ID(cfg.Chains.Default),
		ReadChain:       chain.ID(cfg.Chains.Read),
		SupportedChains: cfg.SupportedChains(),
		APIKey:          cfg.APIKeys.Alchemy,
		SlippageBps:     cfg.Trading.SlippageBps,
		FollowChain:     cfg.Chains.FollowWallet,
	})
	if err != nil {
		log.Fatal("Failed to create web3 service", "error", err)
	}
	log.Info("Web3 service initialized", "contract", svc.Contract().Hex(), "read_chain", svc.ReadChain())

	var poller *web3.Poller
	if cfg.Poller.Enabled {
		poller = web3.NewPoller(svc, cfg.Poller.Interval)
	}

	// Start RPC server
	rpcServer := rpc.NewServer(svc, poller)
	if err := rpcServer.Start(cfg.RPC.Listen); err != nil {
		log.Fatal("Failed to start RPC server", "error", err)
	}

	if poller != nil {
		poller.Start()
		log.Info("Dashboard poller started", "interval", cfg.Poller.Interval)
	}

	if cfg.Provider.AutoProbe && wallet != nil {
		svc.StartProbe(ctx)
	}

	printBanner(log, cfg, rpcServer.Addr())

	// Log connection state transitions
	walletLog := log.Component("wallet")
	var (
		accountMu   sync.Mutex
		lastAccount string
	)
	unsubscribe := svc.Subscribe(func(st web3.State) {
		accountMu.Lock()
		defer accountMu.Unlock()
		if st.Account == lastAccount {
			return
		}
		lastAccount = st.Account
		if st.Connected {
			walletLog.Info("Wallet connected", "account", st.Account, "chain", st.ChainID)
		} else {
			walletLog.Info("Wallet disconnected")
		}
	})
	defer unsubscribe()

	// Start status ticker
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := svc.State()
				log.Info("Status", "connected", st.Connected, "chain", st.ChainID, "ws_clients", rpcServer.WSHub().ClientCount())
			}
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	log.Info("Shutting down...")

	// Graceful shutdown
	cancel()

	if poller != nil {
		poller.Stop()
	}
	if err := rpcServer.Stop(); err != nil {
		log.Error("Error stopping RPC server", "error", err)
	}

	log.Info("Goodbye!")
}

func printBanner(log *logging.Logger, cfg *config.Config, apiAddr string) {
	log.Info("")
	log.Info("=================================================")
	log.Infof("  %s (%s)", cfg.App.Name, cfg.Environment)
	log.Infof("  Version: %s", version)
	log.Info("=================================================")
	log.Info("")
	log.Infof("  Contract: %s", cfg.ContractAddress().Hex())
	log.Infof("  Default chain: %s", chain.Name(chain.ID(cfg.Chains.Default)))
	log.Infof("  Read chain: %s", chain.Name(chain.ID(cfg.Chains.Read)))
	log.Info("")
	log.Infof("  API: http://%s", apiAddr)
	log.Infof("  WS:  ws://%s/ws", apiAddr)
	log.Info("")
	log.Info("=================================================")
	log.Info("")
}
