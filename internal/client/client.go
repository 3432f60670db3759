// Package client talks to a running hostelpass server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hostelpass/internal/api"
	"hostelpass/internal/auth"
	"hostelpass/internal/errors"
	"hostelpass/internal/models"
	"hostelpass/internal/registry"
)

// DefaultServer is used when neither --server nor HOSTEL_SERVER is set.
const DefaultServer = "http://localhost:8080"

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login stores the returned token on the client for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (auth.Account, error) {
	var acc auth.Account
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{"username": username, "password": password}, &acc)
	if err == nil {
		c.Token = acc.Token
	}
	return acc, err
}

func (c *Client) List(ctx context.Context, q registry.Query) ([]models.Resident, error) {
	values := url.Values{}
	set := func(k, v string) {
		if v != "" {
			values.Set(k, v)
		}
	}
	set("block", string(q.Block))
	set("gender", string(q.Gender))
	set("status", string(q.Status))
	set("q", q.Search)
	set("sort", q.Sort)

	path := "/api/students"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	var out []models.Resident
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (models.Resident, error) {
	var out models.Resident
	err := c.do(ctx, http.MethodGet, "/api/students/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (registry.Stats, error) {
	var out registry.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out)
	return out, err
}

func (c *Client) Scan(ctx context.Context, text string) (api.ScanResult, error) {
	var out api.ScanResult
	err := c.do(ctx, http.MethodPost, "/api/scan", map[string]string{"text": text}, &out)
	return out, err
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// do sends payload as JSON and decodes a 2xx body into out. Error responses
// come back as AppErrors carrying the server's code and message.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "encode request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "%s %s", method, path)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "read response")
	}

	if resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(data, &eb) != nil || eb.Message == "" {
			eb.Message = fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		code := errors.ErrorCode(eb.Code)
		if code == "" {
			code = errors.ErrUnknown
		}
		return errors.New(code, eb.Message).WithDetail("status", resp.StatusCode)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "decode response")
	}
	return nil
}
