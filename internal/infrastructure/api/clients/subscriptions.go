package clients

import (
	"context"

	"github.com/woiladev/marketplace-client/internal/domain/order"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

type SubscriptionsClient struct {
	api *api.Client
}

func NewSubscriptionsClient(apiClient *api.Client) *SubscriptionsClient {
	return &SubscriptionsClient{api: apiClient}
}

type subscriptionResponse struct {
	Message      string             `json:"message"`
	Subscription order.Subscription `json:"subscription"`
}

func (c *SubscriptionsClient) Create(ctx context.Context, projectID int, level order.SubscriptionLevel, operator order.Operator) (order.Subscription, api.Result) {
	res := c.api.AuthRequest(ctx, "POST", "/subscriptions", map[string]any{
		"project_id":         projectID,
		"subscription_level": level,
		"operator":           operator,
	})
	if !res.Success {
		return order.Subscription{}, res
	}
	var body subscriptionResponse
	if !res.Decode(&body) {
		return order.Subscription{}, res
	}
	return body.Subscription, res
}

func (c *SubscriptionsClient) ConfirmPayment(ctx context.Context, subscriptionID int, status order.PaymentStatus) api.Result {
	return c.api.AuthRequest(ctx, "POST", "/subscriptions/payment/confirm", map[string]any{
		"subscription_id": subscriptionID,
		"payment_status":  status,
	})
}

func (c *SubscriptionsClient) List(ctx context.Context) ([]order.Subscription, api.Result) {
	res := c.api.AuthRequest(ctx, "GET", "/subscriptions", nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Subscriptions []order.Subscription `json:"subscriptions"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Subscriptions, res
}
