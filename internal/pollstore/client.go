// Package pollstore talks to a remote planner.json endpoint. The
// document is always fetched and replaced wholesale; the last write
// wins. Transport failures flip an offline flag instead of erroring
// the caller's flow, so the app keeps working against its local copy.
package pollstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/werkgeheugen/backend/internal/logger"
	"github.com/werkgeheugen/backend/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client reads and writes the shared planner document over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	offline    atomic.Bool
}

// NewClient creates a planner client for the given document URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Offline reports whether the last remote call failed.
func (c *Client) Offline() bool {
	return c.offline.Load()
}

// Fetch retrieves the current planner document. A transport or decode
// failure marks the client offline and returns the error; callers are
// expected to keep their local document in that case.
func (c *Client) Fetch(ctx context.Context) (*models.PlannerDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.markOffline("planner_fetch_failed", err)
		return nil, fmt.Errorf("failed to fetch planner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.markOffline("planner_fetch_failed", err)
		return nil, err
	}

	var doc models.PlannerDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		c.markOffline("planner_decode_failed", err)
		return nil, fmt.Errorf("failed to decode planner: %w", err)
	}

	c.markOnline()
	return &doc, nil
}

// Save replaces the remote document with the given one.
func (c *Client) Save(ctx context.Context, doc *models.PlannerDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode planner: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.markOffline("planner_save_failed", err)
		return fmt.Errorf("failed to save planner: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.markOffline("planner_save_failed", err)
		return err
	}

	c.markOnline()
	return nil
}

func (c *Client) markOffline(event string, err error) {
	if c.offline.CompareAndSwap(false, true) && c.logger != nil {
		// Error text can echo remote response content, sanitize it.
		c.logger.Warn(event, zap.String("error", logpkg.SanitizeError(err)))
	}
}

func (c *Client) markOnline() {
	if c.offline.CompareAndSwap(true, false) && c.logger != nil {
		c.logger.Info("planner_back_online")
	}
}
