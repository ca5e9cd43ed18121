// Package client talks to the nobudget API. FetchAll loads the four
// collections the dashboard needs in parallel; the aggregation itself lives
// in the report package.
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

	"golang.org/x/sync/errgroup"

	"nobudget/internal/core"
	"nobudget/internal/report"
)

// ErrFetch marks a failed FetchAll; callers show one generic failure state.
var ErrFetch = errors.New("Failed to fetch data")

// APIError is a non-2xx response. Message is the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Health is the /api/health response.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. http://localhost:5001.
// A nil httpClient gets a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// FetchAll loads expenses, income and both category sets concurrently and
// succeeds only if all four do.
func (c *Client) FetchAll(ctx context.Context) (report.Snapshot, error) {
	var snap report.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Expenses, err = c.Expenses(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Income, err = c.Income(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = c.Categories(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.IncomeCategories, err = c.IncomeCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Snapshot{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return snap, nil
}

func (c *Client) Expenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	err := c.do(ctx, http.MethodGet, c.path(core.KindExpenses), nil, &out)
	return out, err
}

func (c *Client) Income(ctx context.Context) ([]core.Income, error) {
	var out []core.Income
	err := c.do(ctx, http.MethodGet, c.path(core.KindIncome), nil, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return c.names(ctx, core.KindCategories)
}

func (c *Client) IncomeCategories(ctx context.Context) ([]string, error) {
	return c.names(ctx, core.KindIncomeCategories)
}

// CreateExpense posts a raw payload so the server applies its own
// validation and normalization.
func (c *Client) CreateExpense(ctx context.Context, p core.Payload) (core.Expense, error) {
	var out core.Expense
	err := c.do(ctx, http.MethodPost, c.path(core.KindExpenses), p, &out)
	return out, err
}

func (c *Client) UpdateExpense(ctx context.Context, id string, p core.Payload) (core.Expense, error) {
	var out core.Expense
	err := c.do(ctx, http.MethodPut, c.path(core.KindExpenses, id), p, &out)
	return out, err
}

func (c *Client) CreateIncome(ctx context.Context, p core.Payload) (core.Income, error) {
	var out core.Income
	err := c.do(ctx, http.MethodPost, c.path(core.KindIncome), p, &out)
	return out, err
}

func (c *Client) UpdateIncome(ctx context.Context, id string, p core.Payload) (core.Income, error) {
	var out core.Income
	err := c.do(ctx, http.MethodPut, c.path(core.KindIncome, id), p, &out)
	return out, err
}

// AddName adds a name to one of the two category sets.
func (c *Client) AddName(ctx context.Context, kind core.Kind, name string) error {
	return c.do(ctx, http.MethodPost, c.path(kind), core.Payload{"name": name}, nil)
}

// Delete removes a record by id, or a name from a category set.
func (c *Client) Delete(ctx context.Context, kind core.Kind, key string) error {
	return c.do(ctx, http.MethodDelete, c.path(kind, key), nil, nil)
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	return out, err
}

// Summary asks the server for its computed dashboard figures.
func (c *Client) Summary(ctx context.Context) (report.Summary, error) {
	var out report.Summary
	err := c.do(ctx, http.MethodGet, "/api/summary", nil, &out)
	return out, err
}

// Chart downloads a rendered chart ("categories" or "daily"). It returns
// nil when the server has nothing to plot.
func (c *Client) Chart(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/charts/"+url.PathEscape(name)+".png", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get chart %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) names(ctx context.Context, kind core.Kind) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, c.path(kind), nil, &out)
	return out, err
}

func (c *Client) path(kind core.Kind, key ...string) string {
	p := "/api/" + string(kind)
	for _, k := range key {
		p += "/" + url.PathEscape(k)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
