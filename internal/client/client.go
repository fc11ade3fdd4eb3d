// Package client talks to a HeartShare server over its JSON API and change feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/heartshare/internal/feed"
	"github.com/erazemk/heartshare/internal/imaging"
	"github.com/erazemk/heartshare/internal/localstate"
	"github.com/erazemk/heartshare/internal/model"
)

// ErrNotFound is returned when an item does not exist or was already claimed.
var ErrNotFound = errors.New("item not found")

// Error is a non-success API reply.
type Error struct {
	Status  int
	Message string
	Fields  model.FieldErrors
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (%d field errors)", e.Message, len(e.Fields))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is an API client for one server.
type Client struct {
	base   *url.URL
	client *http.Client
}

// New creates a client for the server at baseURL (http or https).
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}
	return &Client{
		base: u,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// URL resolves an absolute path against the server.
func (c *Client) URL(path string) string {
	return c.base.JoinPath(path).String()
}

// List returns the donated items, newest first.
func (c *Client) List(ctx context.Context) ([]model.DonatedItem, error) {
	var items []model.DonatedItem
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Placeholders returns the server's placeholder catalog.
func (c *Client) Placeholders(ctx context.Context) ([]model.PlaceholderItem, error) {
	var items []model.PlaceholderItem
	if err := c.do(ctx, http.MethodGet, "/api/placeholders", nil, &items); err != nil {
		return nil, fmt.Errorf("listing placeholders: %w", err)
	}
	return items, nil
}

type donateRequest struct {
	model.Donation
	ImageURL string `json:"image_url,omitempty"`
}

// Donate lists a new item. Validation failures come back as *Error with Fields set.
func (c *Client) Donate(ctx context.Context, d model.Donation, image []byte, mime string) (*model.DonatedItem, error) {
	req := donateRequest{Donation: d}
	if len(image) > 0 {
		req.ImageURL = imaging.DataURL(image, mime)
	}

	var item model.DonatedItem
	if err := c.do(ctx, http.MethodPost, "/api/items", req, &item); err != nil {
		return nil, fmt.Errorf("donating item: %w", err)
	}
	return &item, nil
}

type claimResponse struct {
	ContactEmail string `json:"contact_email"`
}

// Claim removes a donated item and returns the donor email.
func (c *Client) Claim(ctx context.Context, id string) (string, error) {
	var resp claimResponse
	if err := c.do(ctx, http.MethodPost, "/api/items/"+url.PathEscape(id)+"/claim", nil, &resp); err != nil {
		return "", fmt.Errorf("claiming item: %w", err)
	}
	return resp.ContactEmail, nil
}

// Changes subscribes to the server's change feed.
func (c *Client) Changes(ctx context.Context) (<-chan model.ChangeEvent, error) {
	u := *c.base.JoinPath("/api/changes")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return feed.Dial(ctx, u.String())
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error  string            `json:"error"`
		Fields model.FieldErrors `json:"fields"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	return &Error{Status: resp.StatusCode, Message: body.Error, Fields: body.Fields}
}

// Claimer claims donated items on the server and records placeholder
// claims in the local state file.
type Claimer struct {
	API   *Client
	State *localstate.Store
}

func (c Claimer) ClaimItem(ctx context.Context, id string) (string, error) {
	return c.API.Claim(ctx, id)
}

func (c Claimer) ClaimPlaceholder(id string) error {
	return c.State.Add(id)
}
