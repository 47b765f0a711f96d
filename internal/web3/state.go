package web3

import (
	"time"

	"github.com/google/uuid"

	"github.com/definix-labs/definix/internal/chain"
)

// Phase is the connection phase. A failure is not a phase: it is the
// ErrorMessage overlay on whatever phase the service rests in.
type Phase string

const (
	PhaseDisconnected Phase = "disconnected"
	PhaseConnecting   Phase = "connecting"
	PhaseConnected    Phase = "connected"
)

// Operation names used in OpStatus, OpError and logs.
const (
	OpConnect             = "connect"
	OpCreateVirtualWallet = "createVirtualWallet"
	OpConvertToETH        = "convertToETH"
	OpConvertToUSDC       = "convertToUSDC"
	OpDepositToETH        = "depositToETH"
	OpDepositToUSDC       = "depositToUSDC"
	OpWithdrawETH         = "withdrawETH"
	OpWithdrawUSDC        = "withdrawUSDC"
	OpApproveToken        = "approveToken"
	OpConversionQuote     = "getConversionQuote"
	OpSwitchChain         = "switchChain"
)

// State is a snapshot of the observable connection state.
// Connected is true exactly when Account is non-empty.
type State struct {
	Account         string     `json:"account"`
	Connected       bool       `json:"connected"`
	Loading         bool       `json:"loading"`
	ErrorMessage    string     `json:"errorMessage"`
	ChainID         chain.ID   `json:"chainId"`
	SupportedChains []chain.ID `json:"supportedChains"`
	Phase           Phase      `json:"phase"`
	InFlight        int        `json:"inFlight"`
}

// Failed reports whether an error message is attached.
func (s State) Failed() bool { return s.ErrorMessage != "" }

// OpStatus is the per-operation outcome of one bracketed call.
type OpStatus struct {
	ID         uuid.UUID `json:"id"`
	Op         string    `json:"op"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Error      string    `json:"error,omitempty"`
}

// Duration returns how long the operation ran.
func (s OpStatus) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Succeeded reports whether the operation finished without error.
func (s OpStatus) Succeeded() bool {
	return !s.FinishedAt.IsZero() && s.Error == ""
}

// StateListener receives a snapshot after every state change. Listeners run
// on the goroutine that changed the state and must not block.
type StateListener func(State)

// Subscribe registers fn and returns a function that removes it.
func (s *Service) Subscribe(fn StateListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// State returns the current snapshot.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Service) stateLocked() State {
	st := State{
		Connected:       s.connected,
		Loading:         s.inflight > 0,
		ErrorMessage:    s.errMsg,
		ChainID:         s.chainID,
		SupportedChains: append([]chain.ID(nil), s.supported...),
		InFlight:        s.inflight,
	}
	if s.connected {
		st.Account = s.account.Hex()
	}
	switch {
	case s.connected:
		st.Phase = PhaseConnected
	case s.connecting:
		st.Phase = PhaseConnecting
	default:
		st.Phase = PhaseDisconnected
	}
	return st
}

// update applies fn under the lock and then notifies listeners.
func (s *Service) update(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := s.stateLocked()
	listeners := make([]StateListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Recent returns the statuses of the most recent bracketed operations, oldest first.
func (s *Service) Recent() []OpStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]OpStatus(nil), s.recent...)
}
