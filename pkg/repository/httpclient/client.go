// Package httpclient implements the repository contracts on top of a remote
// configuration/asset service speaking the engine's REST contract. Usage
// counting is not implemented here; the remote service records usage when an
// asset is created.
package httpclient

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

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

const defaultTimeout = 15 * time.Second

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithAuthToken sends a bearer token on every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client talks to a remote form-engine service.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	token   string
}

var (
	_ repository.TemplateRepository = (*Client)(nil)
	_ repository.AssetRepository    = (*Client)(nil)
)

// New builds a client for the service rooted at baseURL, e.g.
// "https://plm.internal/api/v1".
func New(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("httpclient: base url is required")
	}
	c := &Client{
		base:    baseURL,
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// ListTemplates fetches summaries, filtered by entity type when one is given.
func (c *Client) ListTemplates(ctx context.Context, entityType model.EntityType) ([]model.TemplateSummary, error) {
	path := "/configurations"
	if entityType != "" {
		path += "?type=" + url.QueryEscape(string(entityType))
	}
	var out []model.TemplateSummary
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTemplate fetches one template by id.
func (c *Client) GetTemplate(ctx context.Context, id string) (model.ConfigurationTemplate, error) {
	var out model.ConfigurationTemplate
	if err := c.do(ctx, http.MethodGet, "/configurations/"+url.PathEscape(id), nil, &out); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return out, nil
}

// CreateTemplate posts a new template; the service assigns id, counts, and
// the default flag.
func (c *Client) CreateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	var out model.ConfigurationTemplate
	if err := c.do(ctx, http.MethodPost, "/configurations", tpl, &out); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return out, nil
}

// UpdateTemplate puts the full replacement document.
func (c *Client) UpdateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	var out model.ConfigurationTemplate
	if err := c.do(ctx, http.MethodPut, "/configurations/"+url.PathEscape(tpl.ID), tpl, &out); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return out, nil
}

// ToggleTemplate switches the active flag server-side.
func (c *Client) ToggleTemplate(ctx context.Context, id string, active bool) (model.ConfigurationTemplate, error) {
	body := struct {
		Active bool `json:"active"`
	}{Active: active}
	var out model.ConfigurationTemplate
	if err := c.do(ctx, http.MethodPut, "/configurations/"+url.PathEscape(id)+"/toggle", body, &out); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return out, nil
}

// DeleteTemplate removes the template server-side.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/configurations/"+url.PathEscape(id), nil, nil)
}

// ListAssets fetches assets, filtered by entity type when one is given.
func (c *Client) ListAssets(ctx context.Context, entityType model.EntityType) ([]repository.AssetRecord, error) {
	path := "/assets"
	if entityType != "" {
		path += "?type=" + url.QueryEscape(string(entityType))
	}
	var out []repository.AssetRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAsset fetches one asset by id.
func (c *Client) GetAsset(ctx context.Context, id string) (repository.AssetRecord, error) {
	var out repository.AssetRecord
	if err := c.do(ctx, http.MethodGet, "/assets/"+url.PathEscape(id), nil, &out); err != nil {
		return repository.AssetRecord{}, err
	}
	return out, nil
}

// CreateAsset posts an assembled payload.
func (c *Client) CreateAsset(ctx context.Context, payload forms.AssetPayload) (repository.AssetRecord, error) {
	var out repository.AssetRecord
	if err := c.do(ctx, http.MethodPost, "/assets", payload, &out); err != nil {
		return repository.AssetRecord{}, err
	}
	return out, nil
}

// UpdateAsset puts the replacement payload for one asset.
func (c *Client) UpdateAsset(ctx context.Context, id string, payload forms.AssetPayload) (repository.AssetRecord, error) {
	var out repository.AssetRecord
	if err := c.do(ctx, http.MethodPut, "/assets/"+url.PathEscape(id), payload, &out); err != nil {
		return repository.AssetRecord{}, err
	}
	return out, nil
}

// DeleteAsset removes one asset server-side.
func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/assets/"+url.PathEscape(id), nil, nil)
}

// wireError is the service's error envelope.
type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

// decodeError maps the service error envelope back onto the repository
// sentinels so callers can branch with errors.Is regardless of the store.
func (c *Client) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var we wireError
	if err := json.Unmarshal(data, &we); err == nil && we.Error.Code != "" {
		switch we.Error.Code {
		case "NOT_FOUND":
			return fmt.Errorf("%w: %s", repository.ErrNotFound, we.Error.Message)
		case "DEFAULT_TEMPLATE":
			return fmt.Errorf("%w: %s", repository.ErrDefaultTemplate, we.Error.Message)
		case "TEMPLATE_IN_USE":
			return fmt.Errorf("%w: %s", repository.ErrTemplateInUse, we.Error.Message)
		case "ENTITY_TYPE_FIXED":
			return fmt.Errorf("%w: %s", repository.ErrEntityTypeFixed, we.Error.Message)
		case "NO_SECTIONS":
			return fmt.Errorf("%w: %s", repository.ErrNoSections, we.Error.Message)
		case "VALIDATION_ERROR":
			return fmt.Errorf("%w: %s", repository.ErrInvalidTemplate, we.Error.Message)
		}
		return fmt.Errorf("httpclient: %s: %s", we.Error.Code, we.Error.Message)
	}
	if resp.StatusCode == http.StatusNotFound {
		return repository.ErrNotFound
	}
	return fmt.Errorf("httpclient: unexpected status %s", resp.Status)
}
