package web3

import (
	"context"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/pkg/logging"
)

// DefaultPollInterval is how often the dashboard is refreshed.
const DefaultPollInterval = 10 * time.Second

// Dashboard is one refresh of the connected account's view.
type Dashboard struct {
	Account      common.Address
	ChainID      uint64
	Balances     Balances
	USDqBalance  *big.Int
	WalletExists bool
	TotalWallets *big.Int
	UpdatedAt    time.Time
}

// Poller refreshes the dashboard while a wallet is connected. It refreshes
// immediately when the account changes and then on every tick.
type Poller struct {
	svc      *Service
	interval time.Duration
	log      *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	kick   chan struct{}
	unsub  func()
	wg     sync.WaitGroup

	mu        sync.RWMutex
	last      *Dashboard
	account   common.Address
	listeners []func(Dashboard)
}

// NewPoller creates a poller for svc. A non-positive interval uses DefaultPollInterval.
func NewPoller(svc *Service, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		svc:      svc,
		interval: interval,
		log:      logging.GetDefault().Component("poller"),
		ctx:      ctx,
		cancel:   cancel,
		kick:     make(chan struct{}, 1),
	}
}

// OnUpdate registers fn to receive every refreshed dashboard.
func (p *Poller) OnUpdate(fn func(Dashboard)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Start starts the poller background goroutine.
func (p *Poller) Start() {
	p.unsub = p.svc.Subscribe(p.onState)
	p.wg.Add(1)
	go p.run()
	p.log.Info("Dashboard poller started", "interval", p.interval)
}

// Stop stops the poller and waits for the loop to exit.
func (p *Poller) Stop() {
	if p.unsub != nil {
		p.unsub()
	}
	p.cancel()
	p.wg.Wait()
	p.log.Info("Dashboard poller stopped")
}

// Last returns the most recent dashboard, if any.
func (p *Poller) Last() (Dashboard, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Dashboard{}, false
	}
	return *p.last, true
}

// onState triggers a refresh when the connected account changes.
func (p *Poller) onState(st State) {
	account := common.HexToAddress(st.Account)

	p.mu.Lock()
	changed := account != p.account
	p.account = account
	if !st.Connected {
		p.last = nil
	}
	p.mu.Unlock()

	if changed && st.Connected {
		select {
		case p.kick <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(p.ctx)
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(p.ctx)
		case <-p.kick:
			p.Refresh(p.ctx)
		}
	}
}

// Refresh loads the dashboard once. It reports false when no wallet is
// connected or no read backend is configured.
func (p *Poller) Refresh(ctx context.Context) (Dashboard, bool) {
	account, ok := p.svc.Account()
	if !ok {
		return Dashboard{}, false
	}

	balances, err := p.svc.GetUserBalances(ctx, account)
	if err != nil {
		p.log.Debug("Skipping dashboard refresh", "error", err)
		return Dashboard{}, false
	}
	usdq, _ := p.svc.GetUSDqBalance(ctx, account)
	exists, _ := p.svc.WalletExists(ctx, account)
	total, _ := p.svc.GetTotalWallets(ctx)

	d := Dashboard{
		Account:      account,
		ChainID:      p.svc.ReadChain().Uint64(),
		Balances:     balances,
		USDqBalance:  usdq,
		WalletExists: exists,
		TotalWallets: total,
		UpdatedAt:    time.Now(),
	}

	p.mu.Lock()
	if current, connected := p.svc.Account(); !connected || current != account {
		p.mu.Unlock()
		return Dashboard{}, false
	}
	p.last = &d
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}
	return d, true
}
