package web3

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const maxRecentOps = 32

// run executes fn inside the loading/error bracket. Entering clears the
// shared error and raises loading; leaving lowers loading and, on failure,
// records a human-readable message. Loading stays up while any bracketed
// call is in flight.
func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) (OpStatus, error) {
	st := OpStatus{ID: uuid.New(), Op: op, StartedAt: time.Now()}
	s.update(func() {
		s.inflight++
		s.errMsg = ""
	})
	s.log.Debug("Operation started", "op", op, "id", st.ID)

	err := fn(ctx)

	st.FinishedAt = time.Now()
	if err != nil {
		st.Error = err.Error()
	}
	s.update(func() {
		s.inflight--
		if err != nil {
			s.errMsg = humanMessage(op, err)
		}
		s.recent = append(s.recent, st)
		if len(s.recent) > maxRecentOps {
			s.recent = s.recent[len(s.recent)-maxRecentOps:]
		}
	})

	if err != nil {
		s.log.Warn("Operation failed", "op", op, "id", st.ID, "error", err)
		return st, &OpError{Op: op, Status: st, Err: err}
	}
	s.log.Debug("Operation finished", "op", op, "id", st.ID, "took", st.Duration())
	return st, nil
}
