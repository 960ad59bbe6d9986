package payment

import (
	"sync"
	"time"

	domainErrors "github.com/woiladev/marketplace-client/internal/domain/errors"
	"github.com/woiladev/marketplace-client/internal/domain/order"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/pkg/clock"
	"github.com/woiladev/marketplace-client/internal/pkg/generator"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

type State int

const (
	StateSelectProvider State = iota + 1
	StateEnterPhone
	StateConfirmDetails
	StateProcessing
	StateSuccess
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateSelectProvider:
		return "select_provider"
	case StateEnterPhone:
		return "enter_phone"
	case StateConfirmDetails:
		return "confirm_details"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

const (
	minPhoneDigits = 9

	DefaultProcessingDelay = 5 * time.Second
	DefaultSuccessDelay    = 3 * time.Second
)

// Simulator is the stand-in for a real mobile money rail: provider select,
// phone capture, confirm, a clock-driven wait, then an unconditional success
// callback. There is no failure branch; every run that reaches Processing
// and is not cancelled succeeds. The state machine shape is the UI contract
// a real webhook-driven integration has to preserve.
type Simulator struct {
	mu       sync.Mutex
	state    State
	provider order.Operator
	phone    string
	txID     string
	fired    bool

	clk clock.Clock
	gen *generator.Generator
	log *logger.Logger

	processingDelay time.Duration
	successDelay    time.Duration

	onSuccess func(transactionID string)
	onCancel  func(from State)
}

type Option func(*Simulator)

func WithDelays(processing, success time.Duration) Option {
	return func(s *Simulator) {
		s.processingDelay = processing
		s.successDelay = success
	}
}

func WithCancelCallback(fn func(from State)) Option {
	return func(s *Simulator) {
		s.onCancel = fn
	}
}

func NewSimulator(clk clock.Clock, log *logger.Logger, onSuccess func(transactionID string), opts ...Option) *Simulator {
	s := &Simulator{
		state:           StateSelectProvider,
		clk:             clk,
		gen:             generator.NewGenerator(),
		log:             log,
		processingDelay: DefaultProcessingDelay,
		successDelay:    DefaultSuccessDelay,
		onSuccess:       onSuccess,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulator) TransactionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txID
}

// SelectProvider moves select_provider -> enter_phone. The provider choice
// is cosmetic: both operators behave identically.
func (s *Simulator) SelectProvider(op order.Operator) error {
	if !order.ValidOperator(op) {
		return domainErrors.ErrInvalidProvider
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSelectProvider {
		return domainErrors.ErrInvalidTransition
	}
	s.provider = op
	s.state = StateEnterPhone
	return nil
}

// SubmitPhone moves enter_phone -> confirm_details when the raw input holds
// at least 9 digits.
func (s *Simulator) SubmitPhone(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEnterPhone {
		return domainErrors.ErrInvalidTransition
	}
	if countDigits(raw) < minPhoneDigits {
		return domainErrors.ErrInvalidPhoneNumber
	}
	s.phone = raw
	s.state = StateConfirmDetails
	return nil
}

// EditPhone steps back from confirm_details to enter_phone.
func (s *Simulator) EditPhone() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConfirmDetails {
		return domainErrors.ErrInvalidTransition
	}
	s.state = StateEnterPhone
	return nil
}

// Confirm runs the terminal leg: confirm_details -> processing, a fixed
// processing delay, then success and its fixed display delay, then the
// success callback exactly once. It blocks for the simulated ~8 seconds;
// callers drive it from their own goroutine when they need the UI live.
// A Cancel during the processing delay aborts before success.
func (s *Simulator) Confirm() error {
	s.mu.Lock()
	if s.state != StateConfirmDetails {
		s.mu.Unlock()
		return domainErrors.ErrInvalidTransition
	}
	s.state = StateProcessing
	s.txID = s.gen.PaymentReference(s.clk.Now())
	provider := s.provider
	s.mu.Unlock()

	s.log.Info("Simulated payment processing", "provider", string(provider), "transaction_id", s.txID)
	s.clk.Sleep(s.processingDelay)

	s.mu.Lock()
	if s.state != StateProcessing {
		s.mu.Unlock()
		return domainErrors.ErrInvalidTransition
	}
	s.state = StateSuccess
	s.mu.Unlock()

	s.clk.Sleep(s.successDelay)

	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return domainErrors.ErrPaymentFinalized
	}
	s.fired = true
	txID := s.txID
	s.mu.Unlock()

	monitoring.PaymentSimulationsTotal.WithLabelValues(string(provider)).Inc()
	s.log.Info("Simulated payment succeeded", "transaction_id", txID)
	if s.onSuccess != nil {
		s.onSuccess(txID)
	}
	return nil
}

// Cancel closes the flow from any state before success. Success is terminal:
// once reached the flow can no longer be cancelled or re-entered.
func (s *Simulator) Cancel() error {
	s.mu.Lock()
	if s.state == StateSuccess || s.state == StateCancelled || s.fired {
		s.mu.Unlock()
		return domainErrors.ErrPaymentFinalized
	}
	from := s.state
	s.state = StateCancelled
	s.mu.Unlock()

	s.log.Info("Simulated payment cancelled", "from", from.String())
	if s.onCancel != nil {
		s.onCancel(from)
	}
	return nil
}

func countDigits(raw string) int {
	count := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
