// Package client is the record store as seen from the CLI: it talks to the
// gin server over HTTP with a bearer token.
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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/utils"
)

const defaultTimeout = 30 * time.Second

// apiError mirrors the server's error body.
type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type listResponse struct {
	UserID       string                  `json:"user_id"`
	Applications []models.JobApplication `json:"applications"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logrus.Logger
}

var _ repositories.ApplicationRepository = (*Client)(nil)

// New returns a client for the server at baseURL. A nil httpClient gets a
// default with a timeout.
func New(baseURL, token string, httpClient *http.Client, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		log:     log,
	}
}

func (c *Client) collection(userID string) string {
	return c.baseURL + "/users/" + url.PathEscape(userID) + "/applications"
}

func (c *Client) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	const op = "Client.List"

	var out listResponse
	if err := c.do(ctx, op, http.MethodGet, c.collection(userID), nil, &out); err != nil {
		return nil, err
	}
	if out.Applications == nil {
		out.Applications = []models.JobApplication{}
	}
	return out.Applications, nil
}

func (c *Client) Create(ctx context.Context, userID string, app models.JobApplication) error {
	const op = "Client.Create"
	return c.do(ctx, op, http.MethodPost, c.collection(userID), app, nil)
}

func (c *Client) Update(ctx context.Context, userID string, app models.JobApplication) error {
	const op = "Client.Update"
	target := c.collection(userID) + "/" + url.PathEscape(app.ID)
	return c.do(ctx, op, http.MethodPut, target, app, nil)
}

func (c *Client) Delete(ctx context.Context, userID, id string) error {
	const op = "Client.Delete"
	target := c.collection(userID) + "/" + url.PathEscape(id)
	return c.do(ctx, op, http.MethodDelete, target, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	reqID := uuid.NewString()
	start := time.Now()

	var payload io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to encode request", err)
		}
		payload = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"req_id": reqID,
			"method": method,
			"url":    target,
		}).Debug("request failed")
		return utils.E(utils.CodeUnavailable, op, "server unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to read response", err)
	}

	c.log.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     method,
		"url":        target,
		"status":     resp.StatusCode,
		"bytes":      len(raw),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("response")

	if resp.StatusCode/100 != 2 {
		return decodeError(op, resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to decode response", err)
	}
	return nil
}

func decodeError(op string, status int, raw []byte) error {
	var ae apiError
	_ = json.Unmarshal(raw, &ae)
	if ae.Code == "" {
		ae.Code = utils.CodeFor(status)
	}
	if ae.Message == "" {
		ae.Message = http.StatusText(status)
	}
	return utils.E(ae.Code, op, ae.Message, fmt.Errorf("status %d", status))
}
