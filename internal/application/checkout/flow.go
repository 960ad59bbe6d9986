package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	appcart "github.com/woiladev/marketplace-client/internal/application/cart"
	"github.com/woiladev/marketplace-client/internal/application/commands"
	"github.com/woiladev/marketplace-client/internal/application/payment"
	"github.com/woiladev/marketplace-client/internal/config"
	domainErrors "github.com/woiladev/marketplace-client/internal/domain/errors"
	"github.com/woiladev/marketplace-client/internal/domain/order"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/pkg/clock"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

type Step int

const (
	StepDeliveryInfo Step = iota + 1
	StepPaymentMethod
	StepConfirmation
)

// DefaultGatewayDelay is the fabricated wait for payment methods that have
// no gateway at all (cash on delivery, bank transfer).
const DefaultGatewayDelay = 2 * time.Second

type DeliveryInfo struct {
	Name    string
	Phone   string
	Address string
	City    string
	Notes   string
}

// Flow is the three-step checkout wizard. Step 1 collects delivery fields
// locally; step 2 creates the server-side order and drives payment; step 3
// is the confirmation screen. A retry of step 2 creates a new order: there
// is no retry-same-id path.
type Flow struct {
	mu      sync.Mutex
	step    Step
	info    DeliveryInfo
	method  order.PaymentMethod
	orderID int

	cart   *appcart.Manager
	orders *clients.OrdersClient
	clk    clock.Clock
	log    *logger.Logger

	gatewayDelay    time.Duration
	processingDelay time.Duration
	successDelay    time.Duration
}

type Option func(*Flow)

func WithGatewayDelay(d time.Duration) Option {
	return func(f *Flow) {
		f.gatewayDelay = d
	}
}

func WithPaymentDelays(processing, success time.Duration) Option {
	return func(f *Flow) {
		f.processingDelay = processing
		f.successDelay = success
	}
}

// WithPaymentConfig applies the configured simulated payment delays.
func WithPaymentConfig(cfg config.PaymentConfig) Option {
	return func(f *Flow) {
		f.processingDelay = cfg.ProcessingDelay()
		f.successDelay = cfg.SuccessDelay()
	}
}

func NewFlow(cartManager *appcart.Manager, orders *clients.OrdersClient, clk clock.Clock, log *logger.Logger, opts ...Option) *Flow {
	f := &Flow{
		step:            StepDeliveryInfo,
		cart:            cartManager,
		orders:          orders,
		clk:             clk,
		log:             log,
		gatewayDelay:    DefaultGatewayDelay,
		processingDelay: payment.DefaultProcessingDelay,
		successDelay:    payment.DefaultSuccessDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) OrderID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// SetDeliveryInfo validates and stores step 1. No server call is made.
func (f *Flow) SetDeliveryInfo(info DeliveryInfo) commands.Result {
	if strings.TrimSpace(info.Name) == "" || strings.TrimSpace(info.Phone) == "" || strings.TrimSpace(info.Address) == "" {
		return commands.Fail("Name, phone and address are required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepDeliveryInfo {
		return commands.Fail("Delivery info can only be set at the first step")
	}
	f.info = info
	f.step = StepPaymentMethod
	return commands.Ok("")
}

// SubmitOrder creates the order server-side (the server derives the cart
// contents from the session) and starts payment. For mobile money it
// returns the payment simulator the caller must drive; the flow stays at
// step 2 until the simulator resolves. For every other method it fabricates
// success after a fixed delay and advances directly.
func (f *Flow) SubmitOrder(ctx context.Context, method order.PaymentMethod) (*payment.Simulator, commands.Result) {
	f.mu.Lock()
	if f.step != StepPaymentMethod {
		f.mu.Unlock()
		return nil, commands.Fail("Order can only be submitted at the payment step")
	}
	f.method = method
	f.mu.Unlock()

	if f.cart.TotalItems() == 0 {
		return nil, commands.Fail(domainErrors.ErrEmptyCart.Error())
	}

	created, res := f.orders.Checkout(ctx)
	if !res.Success {
		f.log.Warn("Order creation failed", "error", res.Error)
		return nil, commands.Fail(res.Error)
	}

	f.mu.Lock()
	f.orderID = created.ID
	f.mu.Unlock()

	monitoring.OrdersCreatedTotal.Inc()
	f.log.Info("Order created", "order_id", created.ID, "method", string(method))

	if method == order.MethodMobileMoney {
		// Each simulator resolves the order it was created for, even when a
		// later submission has moved f.orderID on.
		orderID := created.ID
		sim := payment.NewSimulator(
			f.clk,
			f.log,
			func(transactionID string) {
				f.confirm(ctx, orderID, transactionID)
			},
			payment.WithDelays(f.processingDelay, f.successDelay),
			payment.WithCancelCallback(func(from payment.State) {
				f.abandon(orderID, from)
			}),
		)
		return sim, commands.Ok("Order created, awaiting payment")
	}

	f.clk.Sleep(f.gatewayDelay)
	return nil, f.confirm(ctx, created.ID, "")
}

// confirm reports the payment to the server, clears the cart and advances
// to the confirmation step.
func (f *Flow) confirm(ctx context.Context, orderID int, transactionID string) commands.Result {
	if orderID == 0 {
		return commands.Fail(domainErrors.ErrOrderNotCreated.Error())
	}

	res := f.orders.ConfirmPayment(ctx, orderID, order.PaymentSuccess)
	if !res.Success {
		monitoring.PaymentConfirmationsTotal.WithLabelValues("order", "failed").Inc()
		f.log.Error("Payment confirmation failed", "order_id", orderID, "error", res.Error)
		return commands.Fail(res.Error)
	}
	monitoring.PaymentConfirmationsTotal.WithLabelValues("order", "success").Inc()

	// The server consumed its cart rows at checkout, so in authenticated
	// mode only the local view is stale; the guest cart still has to be
	// wiped from storage.
	if f.cart.Mode() == appcart.ModeAuthenticated {
		f.cart.ClearView()
	} else {
		f.cart.Clear(ctx)
	}

	f.mu.Lock()
	f.step = StepConfirmation
	f.mu.Unlock()

	f.log.Info("Payment confirmed", "order_id", orderID, "transaction_id", transactionID)
	return commands.Ok("Payment confirmed")
}

// abandon records a cancelled payment. The created order stays in its
// unconfirmed state server-side; no cleanup call exists.
func (f *Flow) abandon(orderID int, from payment.State) {
	monitoring.PaymentAbandonedTotal.WithLabelValues("order").Inc()
	f.log.Warn("Payment cancelled, order left unconfirmed", "order_id", orderID, "from", from.String())
}
