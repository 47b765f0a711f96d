package web3

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/chainclient"
	cmock "github.com/definix-labs/definix/internal/chainclient/mock"
	"github.com/definix-labs/definix/internal/contracts/erc20"
	"github.com/definix-labs/definix/internal/contracts/virtualwallet"
	"github.com/definix-labs/definix/internal/provider"
	pmock "github.com/definix-labs/definix/internal/provider/mock"
	"github.com/definix-labs/definix/pkg/logging"
)

var (
	testAccount  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testContract = common.HexToAddress("0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D")
	testToken    = common.HexToAddress("0x4b2842f382bfc19f409b1874c0480db3b36199b3")
	testTxHash   = common.HexToHash("0x5a7ed3c1e0b0f7a2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f607182930")
)

type testEnv struct {
	svc     *Service
	wallet  *pmock.Provider
	backend *cmock.Backend
	vwABI   *abi.ABI
}

func newTestEnv(t *testing.T, mutate ...func(*ServiceConfig)) *testEnv {
	t.Helper()

	wallet := pmock.New().
		OnResult(provider.MethodAccounts, []string{}).
		OnResult(provider.MethodRequestAccounts, []string{testAccount.Hex()}).
		OnResult(provider.MethodChainID, "0xa")

	vwABI, err := virtualwallet.VirtualWalletMetaData.GetAbi()
	if err != nil {
		t.Fatal(err)
	}
	erc20ABI, err := erc20.ERC20MetaData.GetAbi()
	if err != nil {
		t.Fatal(err)
	}
	backend := cmock.New().
		Deploy(testContract, vwABI).
		Deploy(testToken, erc20ABI)

	cfg := &ServiceConfig{
		Provider:     wallet,
		Backends:     chainclient.Static{B: backend},
		Contract:     testContract,
		DefaultChain: chain.Optimism,
		APIKey:       "KEY",
		Logger:       logging.Discard(),
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &testEnv{svc: svc, wallet: wallet, backend: backend, vwABI: vwABI}
}

func (e *testEnv) connect(t *testing.T) {
	t.Helper()
	if _, err := e.svc.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

// mineOnSend answers eth_sendTransaction with testTxHash and stores its
// receipt with status before returning.
func (e *testEnv) mineOnSend(status uint64) {
	e.wallet.On(provider.MethodSendTransaction, func(context.Context, []interface{}) (interface{}, error) {
		e.backend.Mine(testTxHash, status, 7)
		return testTxHash.Hex(), nil
	})
}

func TestNewServiceDefaults(t *testing.T) {
	svc, err := NewService(nil)
	if err != nil {
		t.Fatalf("NewService(nil): %v", err)
	}

	st := svc.State()
	if st.ChainID != chain.Optimism {
		t.Errorf("ChainID = %d, want %d", st.ChainID, chain.Optimism)
	}
	if st.Phase != PhaseDisconnected || st.Connected || st.Loading || st.Failed() {
		t.Errorf("unexpected initial state %+v", st)
	}
	if len(st.SupportedChains) != 4 {
		t.Errorf("SupportedChains = %v", st.SupportedChains)
	}
	if svc.ReadChain() != 0 {
		t.Errorf("ReadChain() = %d without backends", svc.ReadChain())
	}
}

func TestNewServiceRejectsUnknownChains(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServiceConfig
	}{
		{"default", ServiceConfig{DefaultChain: 56}},
		{"read", ServiceConfig{ReadChain: 42161}},
		{"supported", ServiceConfig{SupportedChains: []chain.ID{chain.Base, 56}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if _, err := NewService(&cfg); !errors.Is(err, ErrUnsupportedChain) {
				t.Errorf("error = %v, want ErrUnsupportedChain", err)
			}
		})
	}
}

func TestNewServiceReadBindFailure(t *testing.T) {
	_, err := NewService(&ServiceConfig{
		Backends: chainclient.NewPool("").WithDialer(func(context.Context, string) (*ethclient.Client, error) {
			return nil, errors.New("connection refused")
		}),
		ReadChain: chain.Base,
		Logger:    logging.Discard(),
	})
	if err == nil {
		t.Fatal("expected error binding reads")
	}
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t)

	var mu sync.Mutex
	var states []State
	unsubscribe := env.svc.Subscribe(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	env.connect(t)

	mu.Lock()
	seen := len(states)
	sawLoading, sawConnecting := false, false
	for _, st := range states {
		sawLoading = sawLoading || st.Loading
		sawConnecting = sawConnecting || st.Phase == PhaseConnecting
	}
	last := states[len(states)-1]
	mu.Unlock()

	if !sawLoading {
		t.Error("no snapshot with Loading set")
	}
	if !sawConnecting {
		t.Error("no snapshot in connecting phase")
	}
	if !last.Connected || last.Loading {
		t.Errorf("last state = %+v", last)
	}

	unsubscribe()
	env.svc.Disconnect()

	mu.Lock()
	defer mu.Unlock()
	if len(states) != seen {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestStateSnapshotIsolated(t *testing.T) {
	env := newTestEnv(t)
	st := env.svc.State()
	st.SupportedChains[0] = 999

	if !reflect.DeepEqual(env.svc.State().SupportedChains, chain.Supported()) {
		t.Error("mutating a snapshot changed the service")
	}
}

func TestMinOutput(t *testing.T) {
	env := newTestEnv(t)
	if got := env.svc.MinOutput(big.NewInt(1000000)); got.Int64() != 999000 {
		t.Errorf("MinOutput(1000000) = %s, want 999000", got)
	}

	custom := newTestEnv(t, func(c *ServiceConfig) { c.SlippageBps = 50 })
	if got := custom.svc.MinOutput(big.NewInt(1000000)); got.Int64() != 995000 {
		t.Errorf("MinOutput at 50 bps = %s, want 995000", got)
	}
}

func TestRegistryHelpers(t *testing.T) {
	env := newTestEnv(t)

	if got := env.svc.ChainName(chain.Base); got != "Base Mainnet" {
		t.Errorf("ChainName(Base) = %s", got)
	}
	if got := env.svc.ChainName(56); got != chain.UnknownChainName {
		t.Errorf("ChainName(56) = %s", got)
	}
	if got := len(env.svc.SupportedTokens(chain.Optimism)); got != 4 {
		t.Errorf("SupportedTokens(Optimism) has %d entries", got)
	}
	if _, ok := env.svc.StablecoinAddress(chain.Polygon); !ok {
		t.Error("no stablecoin on Polygon")
	}
	if _, ok := env.svc.StablecoinAddress(56); ok {
		t.Error("stablecoin reported on unknown chain")
	}
	if env.svc.Contract() != testContract {
		t.Errorf("Contract() = %s", env.svc.Contract().Hex())
	}
}
