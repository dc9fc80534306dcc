package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the stock endpoint for the hosted to-do service.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0/me/todo"

// Client implements Service over HTTP with an oauth2-authenticated
// transport.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewClient builds a Client from a token source. The derived http.Client
// attaches bearer tokens on every request; token refresh is the token
// source's problem.
func NewClient(ctx context.Context, ts oauth2.TokenSource, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    oauth2.NewClient(ctx, ts),
		Logger:  logger,
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do issues one JSON request. A nil in skips the request body; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, rawurl string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("client-request-id", uuid.NewString())

	if c.Logger != nil {
		c.Logger.Debug("gateway call", "method", method, "url", rawurl)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w", method, rawurl, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			serr.Code = eb.Error.Code
			serr.Message = eb.Error.Message
		}
		return serr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

func (c *Client) ListLists(ctx context.Context, filter string) ([]List, error) {
	u := c.BaseURL + "/lists"
	if filter != "" {
		u += "?$filter=" + url.QueryEscape(filter)
	}
	var page struct {
		Value []List `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
		return nil, err
	}
	return page.Value, nil
}

func (c *Client) CreateList(ctx context.Context, name string) (*List, error) {
	in := struct {
		DisplayName string `json:"displayName"`
	}{DisplayName: name}
	var out List
	if err := c.do(ctx, http.MethodPost, c.BaseURL+"/lists", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTasksDelta fetches one delta page. An empty link starts a full
// sync; otherwise link is either a continuation token from a previous
// run or a next-page pointer from the current one, both opaque URLs.
func (c *Client) GetTasksDelta(ctx context.Context, listID, link string) (*DeltaPage, error) {
	u := link
	if u == "" {
		u = fmt.Sprintf("%s/lists/%s/tasks/delta", c.BaseURL, url.PathEscape(listID))
	}
	var page DeltaPage
	if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateTask(ctx context.Context, listID string, payload TaskPayload) (*Task, error) {
	u := fmt.Sprintf("%s/lists/%s/tasks", c.BaseURL, url.PathEscape(listID))
	var out Task
	if err := c.do(ctx, http.MethodPost, u, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, payload TaskPayload) (*Task, error) {
	u := fmt.Sprintf("%s/lists/%s/tasks/%s", c.BaseURL, url.PathEscape(listID), url.PathEscape(taskID))
	var out Task
	if err := c.do(ctx, http.MethodPatch, u, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, listID, taskID string) (*Task, error) {
	u := fmt.Sprintf("%s/lists/%s/tasks/%s", c.BaseURL, url.PathEscape(listID), url.PathEscape(taskID))
	var out Task
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLinkedResource(ctx context.Context, listID, taskID string, payload LinkedResourcePayload) (*LinkedResource, error) {
	u := fmt.Sprintf("%s/lists/%s/tasks/%s/linkedResources", c.BaseURL, url.PathEscape(listID), url.PathEscape(taskID))
	var out LinkedResource
	if err := c.do(ctx, http.MethodPost, u, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLinkedResource(ctx context.Context, listID, taskID, resourceID string, payload LinkedResourcePayload) (*LinkedResource, error) {
	u := fmt.Sprintf("%s/lists/%s/tasks/%s/linkedResources/%s",
		c.BaseURL, url.PathEscape(listID), url.PathEscape(taskID), url.PathEscape(resourceID))
	var out LinkedResource
	if err := c.do(ctx, http.MethodPatch, u, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Service = (*Client)(nil)
