// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/models"
)

// DefaultBallotsRoot is the shared namespace prefix all clients of the same
// event read and write under.
const DefaultBallotsRoot = "/pub/voteboard/ballots"

// ErrNotFound is returned by Get when the remote object does not exist.
var ErrNotFound = errors.New("remote: not found")

// Client talks to the homeserver key-value namespace. Reads are public;
// writes require an active session from the identity provider.
type Client struct {
	baseURL     string
	ballotsRoot string
	session     identity.Provider
	http        *http.Client
	logger      *slog.Logger
}

func NewClient(baseURL, ballotsRoot string, session identity.Provider, logger *slog.Logger) *Client {
	if ballotsRoot == "" {
		ballotsRoot = DefaultBallotsRoot
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		ballotsRoot: strings.TrimRight(ballotsRoot, "/"),
		session:     session,
		http:        &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// BallotPath returns the canonical path for a voter's ballot object. One
// object per voter - the latest write wins.
func (c *Client) BallotPath(voterID string) string {
	return c.ballotsRoot + "/" + voterID + ".json"
}

// IndexPath returns the path of the optional ballot index.
func (c *Client) IndexPath() string {
	return c.ballotsRoot + "/index.json"
}

// SummaryPath returns the path of the optional precomputed summary.
func (c *Client) SummaryPath() string {
	return c.ballotsRoot + "/summary.json"
}

// Put JSON-serializes v and writes it at path. Fails with
// identity.ErrNoSession while unauthenticated; both that and homeserver
// rejections are retryable from the caller's point of view.
func (c *Client) Put(ctx context.Context, path string, v interface{}) error {
	sess, err := c.session.Session()
	if err != nil {
		return err
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("homeserver rejected write to %s: status %d", path, resp.StatusCode)
	}

	return nil
}

// Get reads the JSON object at path into v. Missing objects return
// ErrNotFound.
func (c *Client) Get(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("homeserver rejected read of %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}

// SendBallot delivers one ballot to the homeserver. An empty path falls back
// to the canonical per-voter path for the ballot's voter. Matches the
// outbox.Sender signature so the queue can use it directly.
func (c *Client) SendBallot(ctx context.Context, ballot models.Ballot, path string) error {
	if path == "" {
		path = c.BallotPath(ballot.VoterID)
	}

	if err := c.Put(ctx, path, ballot); err != nil {
		return err
	}

	c.logger.Info("ballot delivered", "voter", ballot.VoterID, "path", path)
	return nil
}
