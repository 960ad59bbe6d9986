package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/woiladev/marketplace-client/internal/application/commands"
	"github.com/woiladev/marketplace-client/internal/application/payment"
	"github.com/woiladev/marketplace-client/internal/config"
	domainErrors "github.com/woiladev/marketplace-client/internal/domain/errors"
	"github.com/woiladev/marketplace-client/internal/domain/order"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/clock"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

// SubscriptionFlow drives the two-stage project subscription payment:
// choose a pricing tier, then pay through the simulated mobile money rail.
// Like checkout, a retry creates a new subscription record.
type SubscriptionFlow struct {
	mu             sync.Mutex
	subscriptionID int

	subs    *clients.SubscriptionsClient
	durable store.Store
	clk     clock.Clock
	log     *logger.Logger

	processingDelay time.Duration
	successDelay    time.Duration
}

type SubscriptionOption func(*SubscriptionFlow)

func WithSubscriptionDelays(processing, success time.Duration) SubscriptionOption {
	return func(f *SubscriptionFlow) {
		f.processingDelay = processing
		f.successDelay = success
	}
}

// WithSubscriptionPaymentConfig applies the configured simulated payment delays.
func WithSubscriptionPaymentConfig(cfg config.PaymentConfig) SubscriptionOption {
	return func(f *SubscriptionFlow) {
		f.processingDelay = cfg.ProcessingDelay()
		f.successDelay = cfg.SuccessDelay()
	}
}

func NewSubscriptionFlow(subs *clients.SubscriptionsClient, durable store.Store, clk clock.Clock, log *logger.Logger, opts ...SubscriptionOption) *SubscriptionFlow {
	f := &SubscriptionFlow{
		subs:            subs,
		durable:         durable,
		clk:             clk,
		log:             log,
		processingDelay: payment.DefaultProcessingDelay,
		successDelay:    payment.DefaultSuccessDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *SubscriptionFlow) SubscriptionID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscriptionID
}

// Subscribe creates the subscription record and returns the payment
// simulator the caller drives to completion. Subscriptions are always paid
// through the mobile money rail.
func (f *SubscriptionFlow) Subscribe(ctx context.Context, projectID int, level order.SubscriptionLevel, operator order.Operator) (*payment.Simulator, commands.Result) {
	if !order.ValidLevel(level) {
		return nil, commands.Fail("Unknown subscription level")
	}
	if !order.ValidOperator(operator) {
		return nil, commands.Fail("Unknown mobile money operator")
	}

	created, res := f.subs.Create(ctx, projectID, level, operator)
	if !res.Success {
		f.log.Warn("Subscription creation failed", "project_id", projectID, "error", res.Error)
		return nil, commands.Fail(res.Error)
	}

	f.mu.Lock()
	f.subscriptionID = created.ID
	f.mu.Unlock()

	monitoring.SubscriptionsCreatedTotal.Inc()
	f.log.Info("Subscription created", "subscription_id", created.ID, "project_id", projectID, "level", string(level))

	// Each simulator resolves the record it was created for, even when a
	// later Subscribe has moved the flow's fields on.
	subscriptionID := created.ID
	sim := payment.NewSimulator(
		f.clk,
		f.log,
		func(transactionID string) {
			f.confirm(ctx, subscriptionID, projectID, level, transactionID)
		},
		payment.WithDelays(f.processingDelay, f.successDelay),
		payment.WithCancelCallback(func(from payment.State) {
			f.abandon(subscriptionID, from)
		}),
	)

	// The simulator starts past provider selection: the operator was
	// already chosen with the tier.
	if err := sim.SelectProvider(operator); err != nil {
		return nil, commands.Fail(err.Error())
	}
	return sim, commands.Ok("Subscription created, awaiting payment")
}

func (f *SubscriptionFlow) confirm(ctx context.Context, subscriptionID, projectID int, level order.SubscriptionLevel, transactionID string) {
	if subscriptionID == 0 {
		f.log.Error("Subscription payment confirmation skipped", "error", domainErrors.ErrSubscriptionNotCreated.Error())
		return
	}

	res := f.subs.ConfirmPayment(ctx, subscriptionID, order.PaymentSuccess)
	if !res.Success {
		monitoring.PaymentConfirmationsTotal.WithLabelValues("subscription", "failed").Inc()
		f.log.Error("Subscription payment confirmation failed", "subscription_id", subscriptionID, "error", res.Error)
		return
	}
	monitoring.PaymentConfirmationsTotal.WithLabelValues("subscription", "success").Inc()

	store.SetJSON(f.durable, store.KeySubscription, order.SubscriptionMarker{
		ProjectID: projectID,
		Level:     level,
	})

	f.log.Info("Subscription payment confirmed", "subscription_id", subscriptionID, "transaction_id", transactionID)
}

// abandon records a cancelled payment; the subscription record stays
// unconfirmed server-side.
func (f *SubscriptionFlow) abandon(subscriptionID int, from payment.State) {
	monitoring.PaymentAbandonedTotal.WithLabelValues("subscription").Inc()
	f.log.Warn("Subscription payment cancelled, record left unconfirmed", "subscription_id", subscriptionID, "from", from.String())
}
