package clients

import (
	"context"
	"fmt"
	"io"

	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

type ProjectsClient struct {
	api *api.Client
}

func NewProjectsClient(apiClient *api.Client) *ProjectsClient {
	return &ProjectsClient{api: apiClient}
}

type Project struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url"`
	BasicPrice   *int   `json:"basic_price,omitempty"`
	ClassicPrice *int   `json:"classic_price,omitempty"`
	PremiumPrice *int   `json:"premium_price,omitempty"`
}

// NewProject is the back-office creation payload. Tier prices are optional:
// nil fields are not appended to the multipart body at all.
type NewProject struct {
	Name         string
	Description  string
	Category     string
	BasicPrice   *int
	ClassicPrice *int
	PremiumPrice *int
	ImageName    string
	Image        io.Reader
}

func (c *ProjectsClient) List(ctx context.Context, page, limit int) ([]Project, api.Result) {
	path := fmt.Sprintf("/projects?page=%d&limit=%d", page, limit)
	res := c.api.Request(ctx, "GET", path, nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Projects []Project `json:"projects"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Projects, res
}

func (c *ProjectsClient) Get(ctx context.Context, id int) (Project, api.Result) {
	res := c.api.Request(ctx, "GET", fmt.Sprintf("/projects/%d", id), nil)
	if !res.Success {
		return Project{}, res
	}
	var body struct {
		Project Project `json:"project"`
	}
	if !res.Decode(&body) {
		return Project{}, res
	}
	return body.Project, res
}

func (c *ProjectsClient) Create(ctx context.Context, p NewProject) api.Result {
	form := api.NewForm().
		Field("name", p.Name).
		OptionalField("description", p.Description).
		OptionalField("category", p.Category).
		OptionalInt("basic_price", p.BasicPrice).
		OptionalInt("classic_price", p.ClassicPrice).
		OptionalInt("premium_price", p.PremiumPrice)
	if p.Image != nil {
		form.File("image", p.ImageName, p.Image)
	}
	return c.api.MultipartRequest(ctx, "POST", "/projects", form)
}

func (c *ProjectsClient) Update(ctx context.Context, id int, p NewProject) api.Result {
	form := api.NewForm().
		OptionalField("name", p.Name).
		OptionalField("description", p.Description).
		OptionalField("category", p.Category).
		OptionalInt("basic_price", p.BasicPrice).
		OptionalInt("classic_price", p.ClassicPrice).
		OptionalInt("premium_price", p.PremiumPrice)
	if p.Image != nil {
		form.File("image", p.ImageName, p.Image)
	}
	return c.api.MultipartRequest(ctx, "POST", fmt.Sprintf("/projects/%d", id), form)
}

func (c *ProjectsClient) Delete(ctx context.Context, id int) api.Result {
	return c.api.AuthRequest(ctx, "DELETE", fmt.Sprintf("/projects/%d", id), nil)
}
