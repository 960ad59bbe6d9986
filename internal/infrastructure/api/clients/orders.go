package clients

import (
	"context"

	"github.com/woiladev/marketplace-client/internal/domain/order"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

type OrdersClient struct {
	api *api.Client
}

func NewOrdersClient(apiClient *api.Client) *OrdersClient {
	return &OrdersClient{api: apiClient}
}

type checkoutResponse struct {
	Message string      `json:"message"`
	Order   order.Order `json:"order"`
}

// Checkout creates an order from the session's server cart. The request
// carries no body: the server derives the contents from the session.
func (c *OrdersClient) Checkout(ctx context.Context) (order.Order, api.Result) {
	res := c.api.AuthRequest(ctx, "POST", "/checkout", nil)
	if !res.Success {
		return order.Order{}, res
	}
	var body checkoutResponse
	if !res.Decode(&body) {
		return order.Order{}, res
	}
	return body.Order, res
}

func (c *OrdersClient) ConfirmPayment(ctx context.Context, orderID int, status order.PaymentStatus) api.Result {
	return c.api.AuthRequest(ctx, "POST", "/payment/confirm", map[string]any{
		"order_id":       orderID,
		"payment_status": status,
	})
}

func (c *OrdersClient) List(ctx context.Context) ([]order.Order, api.Result) {
	res := c.api.AuthRequest(ctx, "GET", "/orders", nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Orders []order.Order `json:"orders"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Orders, res
}
