package checkout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshmart/checkoutapi/internal/domain"
)

// sessionState holds the per-session checkout inputs that live between
// requests: the selected shipping option, the applied coupon, and the
// submission state. The submission state doubles as the mutual-exclusion
// guard against concurrent submits for the same session.
type sessionState struct {
	submission     domain.SubmissionState
	coupon         *domain.Coupon
	shippingOption string
	shippingCost   decimal.Decimal
}

type stateStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
}

func newStateStore() *stateStore {
	return &stateStore{sessions: make(map[uuid.UUID]*sessionState)}
}

func (s *stateStore) get(sessionID uuid.UUID) *sessionState {
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{submission: domain.SubmissionStateIdle}
		s.sessions[sessionID] = st
	}
	return st
}

// beginSubmit transitions the session to Submitting. It fails when a
// submission is already in flight, which is what makes double submits
// harmless.
func (s *stateStore) beginSubmit(sessionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(sessionID)
	if !st.submission.CanTransitionTo(domain.SubmissionStateSubmitting) {
		return false
	}
	st.submission = domain.SubmissionStateSubmitting
	return true
}

// endSubmit records the terminal state and immediately resets to Idle so
// the shopper can resubmit. It runs on every exit path.
func (s *stateStore) endSubmit(sessionID uuid.UUID, terminal domain.SubmissionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(sessionID)
	if st.submission.CanTransitionTo(terminal) {
		st.submission = terminal
	}
	st.submission = domain.SubmissionStateIdle
}

func (s *stateStore) setShipping(sessionID uuid.UUID, option string, cost decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(sessionID)
	st.shippingOption = option
	st.shippingCost = cost
}

func (s *stateStore) setCoupon(sessionID uuid.UUID, coupon *domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(sessionID).coupon = coupon
}

func (s *stateStore) clearCoupon(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(sessionID).coupon = nil
}

// snapshot returns the session's current inputs without holding the lock
// during downstream calls.
func (s *stateStore) snapshot(sessionID uuid.UUID) (coupon *domain.Coupon, shippingOption string, shippingCost decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(sessionID)
	return st.coupon, st.shippingOption, st.shippingCost
}
