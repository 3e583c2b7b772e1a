// Package api is the typed HTTP client for the purchase log server. It is
// the only transport the view controller and the terminal client talk to.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bobalog/bobalog-go/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Client talks to the purchase log API on behalf of one user. It is not safe
// for concurrent use while logging in; after login its methods may be called
// from multiple goroutines.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	userID  int64
}

// New creates a client for the server at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// UserID returns the id of the logged-in user, or 0 before login.
func (c *Client) UserID() int64 {
	return c.userID
}

// Register creates an account and stores the returned credential.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	req := model.CreateUserRequest{Name: name, Email: email, Password: password}

	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return err
	}

	c.token = resp.Token
	c.userID = resp.User.ID
	return nil
}

// Login authenticates and stores the returned credential.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := model.LoginRequest{Email: email, Password: password}

	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return err
	}

	c.token = resp.Token
	c.userID = resp.User.ID
	return nil
}

// Logout discards the held credential. The token itself is stateless; the
// server keeps no session to invalidate.
func (c *Client) Logout() {
	c.token = ""
	c.userID = 0
}

// FetchLog retrieves the unfiltered purchase log, most recent date first.
func (c *Client) FetchLog(ctx context.Context) ([]model.Purchase, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	var purchases []model.Purchase
	path := fmt.Sprintf("/purchases/%d", c.userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// FetchFiltered retrieves purchases through the filter endpoint selected by
// the request's mode.
func (c *Client) FetchFiltered(ctx context.Context, filter model.FilterRequest) ([]model.Purchase, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	var path string
	switch filter.Mode {
	case model.FilterTemporal:
		path = fmt.Sprintf("/purchases/by-time/%d/%s", c.userID, url.PathEscape(filter.Window))
	case model.FilterPriceOrder:
		path = fmt.Sprintf("/purchases/by-price/%d/%s", c.userID, url.PathEscape(filter.Direction))
	case model.FilterFlavourRank:
		path = fmt.Sprintf("/purchases/by-flavour/%d/%s", c.userID, url.PathEscape(filter.Flavour))
	default:
		return nil, model.ErrChooseOneFilter
	}

	var purchases []model.Purchase
	if err := c.do(ctx, http.MethodGet, path, nil, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// FetchRanking retrieves the global top-7 flavour ranking.
func (c *Client) FetchRanking(ctx context.Context) ([]model.FlavourTotal, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	var totals []model.FlavourTotal
	if err := c.do(ctx, http.MethodGet, "/purchases/ranking", nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// GetPurchase retrieves one purchase for edit pre-population. A nil result
// means the record does not exist for this user.
func (c *Client) GetPurchase(ctx context.Context, purchaseID int64) (*model.Purchase, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	var p *model.Purchase
	path := fmt.Sprintf("/purchases/%d/%d", c.userID, purchaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePurchase stores a new purchase and returns the canonical record.
func (c *Client) CreatePurchase(ctx context.Context, req model.PurchaseRequest) (*model.Purchase, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	req.OwnerID = c.userID
	var p *model.Purchase
	if err := c.do(ctx, http.MethodPost, "/purchases", req, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePurchase replaces every field of an existing purchase.
func (c *Client) UpdatePurchase(ctx context.Context, req model.PurchaseRequest) (*model.Purchase, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	req.OwnerID = c.userID
	var p *model.Purchase
	if err := c.do(ctx, http.MethodPut, "/purchases", req, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePurchase removes a purchase. Deleting an id that does not exist for
// this user is acknowledged the same way as a real delete.
func (c *Client) DeletePurchase(ctx context.Context, purchaseID int64) error {
	if c.token == "" {
		return ErrNotLoggedIn
	}

	path := fmt.Sprintf("/purchases/%d/%d", c.userID, purchaseID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return fmt.Errorf("server: %s", payload.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
