package clients

import (
	"context"
	"fmt"

	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

type CartClient struct {
	api *api.Client
}

func NewCartClient(apiClient *api.Client) *CartClient {
	return &CartClient{api: apiClient}
}

// ServerCartRow is one entry of the authoritative server cart. ID is the
// cart row identity the update/delete endpoints address; ProductID is the
// product the row holds.
type ServerCartRow struct {
	ID        int           `json:"id"`
	ProductID int           `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Product   ServerProduct `json:"product"`
}

type ServerProduct struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Seller   string `json:"seller"`
}

type cartResponse struct {
	Cart []ServerCartRow `json:"cart"`
}

// List fetches the full server cart.
func (c *CartClient) List(ctx context.Context) ([]ServerCartRow, api.Result) {
	res := c.api.AuthRequest(ctx, "GET", "/cart", nil)
	if !res.Success {
		return nil, res
	}
	var body cartResponse
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Cart, res
}

// Add creates the row or increments its quantity by the given delta.
func (c *CartClient) Add(ctx context.Context, productID, quantity int) api.Result {
	return c.api.AuthRequest(ctx, "POST", "/cart", map[string]int{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// UpdateQuantity sets the quantity of a cart row by its row id.
func (c *CartClient) UpdateQuantity(ctx context.Context, rowID, quantity int) api.Result {
	return c.api.AuthRequest(ctx, "PUT", fmt.Sprintf("/cart/%d", rowID), map[string]int{
		"quantity": quantity,
	})
}

// Delete removes a cart row by its row id.
func (c *CartClient) Delete(ctx context.Context, rowID int) api.Result {
	return c.api.AuthRequest(ctx, "DELETE", fmt.Sprintf("/cart/%d", rowID), nil)
}
