package clients

import (
	"context"
	"fmt"

	"github.com/woiladev/marketplace-client/internal/domain/session"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

// StepsClient serves the formalization steps catalog backing the platform's
// guided forms.
type StepsClient struct {
	api *api.Client
}

func NewStepsClient(apiClient *api.Client) *StepsClient {
	return &StepsClient{api: apiClient}
}

type Step struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func (c *StepsClient) List(ctx context.Context) ([]Step, api.Result) {
	res := c.api.Request(ctx, "GET", "/steps", nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Steps []Step `json:"steps"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Steps, res
}

func (c *StepsClient) Get(ctx context.Context, id int) (Step, api.Result) {
	res := c.api.Request(ctx, "GET", fmt.Sprintf("/steps/%d", id), nil)
	if !res.Success {
		return Step{}, res
	}
	var body struct {
		Step Step `json:"step"`
	}
	if !res.Decode(&body) {
		return Step{}, res
	}
	return body.Step, res
}

type UsersClient struct {
	api *api.Client
}

func NewUsersClient(apiClient *api.Client) *UsersClient {
	return &UsersClient{api: apiClient}
}

func (c *UsersClient) Profile(ctx context.Context) (session.User, api.Result) {
	res := c.api.AuthRequest(ctx, "GET", "/users/me", nil)
	if !res.Success {
		return session.User{}, res
	}
	var body struct {
		User session.User `json:"user"`
	}
	if !res.Decode(&body) {
		return session.User{}, res
	}
	return body.User, res
}

func (c *UsersClient) UpdateProfile(ctx context.Context, name, email string) api.Result {
	return c.api.AuthRequest(ctx, "PUT", "/users/me", map[string]string{
		"name":  name,
		"email": email,
	})
}

// List is the admin back-office user listing.
func (c *UsersClient) List(ctx context.Context, page, limit int) ([]session.User, api.Result) {
	path := fmt.Sprintf("/users?page=%d&limit=%d", page, limit)
	res := c.api.AuthRequest(ctx, "GET", path, nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Users []session.User `json:"users"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Users, res
}

type BlogClient struct {
	api *api.Client
}

func NewBlogClient(apiClient *api.Client) *BlogClient {
	return &BlogClient{api: apiClient}
}

type BlogPost struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type BlogComment struct {
	ID      int    `json:"id"`
	PostID  int    `json:"post_id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (c *BlogClient) Posts(ctx context.Context, page, limit int) ([]BlogPost, api.Result) {
	path := fmt.Sprintf("/blog?page=%d&limit=%d", page, limit)
	res := c.api.Request(ctx, "GET", path, nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Posts []BlogPost `json:"posts"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Posts, res
}

func (c *BlogClient) Post(ctx context.Context, id int) (BlogPost, api.Result) {
	res := c.api.Request(ctx, "GET", fmt.Sprintf("/blog/%d", id), nil)
	if !res.Success {
		return BlogPost{}, res
	}
	var body struct {
		Post BlogPost `json:"post"`
	}
	if !res.Decode(&body) {
		return BlogPost{}, res
	}
	return body.Post, res
}

func (c *BlogClient) Comments(ctx context.Context, postID int) ([]BlogComment, api.Result) {
	res := c.api.Request(ctx, "GET", fmt.Sprintf("/blog/%d/comments", postID), nil)
	if !res.Success {
		return nil, res
	}
	var body struct {
		Comments []BlogComment `json:"comments"`
	}
	if !res.Decode(&body) {
		return nil, res
	}
	return body.Comments, res
}

func (c *BlogClient) AddComment(ctx context.Context, postID int, content string) api.Result {
	return c.api.AuthRequest(ctx, "POST", fmt.Sprintf("/blog/%d/comments", postID), map[string]string{
		"content": content,
	})
}

type ContactClient struct {
	api *api.Client
}

func NewContactClient(apiClient *api.Client) *ContactClient {
	return &ContactClient{api: apiClient}
}

func (c *ContactClient) Submit(ctx context.Context, name, email, subject, message string) api.Result {
	return c.api.Request(ctx, "POST", "/contact", map[string]string{
		"name":    name,
		"email":   email,
		"subject": subject,
		"message": message,
	})
}
