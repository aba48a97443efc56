// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trello reads boards, lists and cards from the Trello REST API.
// Every call is read-only and authenticated with an API key and token.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/storycards/internal/httputil"
	"github.com/pdiddy/storycards/pkg/types"
)

const (
	// DefaultAPIURL is the Trello REST API base.
	DefaultAPIURL = "https://api.trello.com/1"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "storycards/0.1"

	// maxErrorBody bounds how much of an error response is quoted.
	maxErrorBody = 512
)

var (
	// ErrUnauthorized is returned when Trello rejects the key or token.
	ErrUnauthorized = errors.New("trello: unauthorized (check API key and token)")

	// ErrNotFound is returned when a board, list or card does not exist.
	ErrNotFound = errors.New("trello: not found")
)

// Client is a read-only Trello API client.
type Client struct {
	http   *http.Client
	cfg    types.TrelloConfig
	logger *slog.Logger
}

// New returns a client for cfg. Missing settings get defaults; a nil
// logger discards.
func New(cfg types.TrelloConfig, logger *slog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Boards returns the open boards of the authenticated member.
func (c *Client) Boards(ctx context.Context) ([]types.Board, error) {
	var boards []types.Board
	err := c.get(ctx, "/members/me/boards", url.Values{"fields": {"name"}, "filter": {"open"}}, &boards)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	return boards, nil
}

// Lists returns the open lists of a board in board order.
func (c *Client) Lists(ctx context.Context, boardID string) ([]types.List, error) {
	var lists []types.List
	err := c.get(ctx, "/boards/"+url.PathEscape(boardID)+"/lists", url.Values{"fields": {"name"}, "filter": {"open"}}, &lists)
	if err != nil {
		return nil, fmt.Errorf("listing lists of board %s: %w", boardID, err)
	}
	return lists, nil
}

// Cards returns the cards of a list in list order. Only ID and Name are
// populated; use Card for the full record.
func (c *Client) Cards(ctx context.Context, listID string) ([]types.RawCard, error) {
	var cards []types.RawCard
	err := c.get(ctx, "/lists/"+url.PathEscape(listID)+"/cards", url.Values{"fields": {"name"}}, &cards)
	if err != nil {
		return nil, fmt.Errorf("listing cards of list %s: %w", listID, err)
	}
	return cards, nil
}

// Card returns the name, description and labels of a card.
func (c *Client) Card(ctx context.Context, cardID string) (types.RawCard, error) {
	var card types.RawCard
	err := c.get(ctx, "/cards/"+url.PathEscape(cardID), url.Values{"fields": {"name,desc,labels"}}, &card)
	if err != nil {
		return types.RawCard{}, fmt.Errorf("fetching card %s: %w", cardID, err)
	}
	return card, nil
}

// get issues an authenticated GET for path and decodes the JSON body
// into out. Credentials are never included in returned errors.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.cfg.APIKey)
	q.Set("token", c.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("trello request", "path", path)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, httputil.Policy{
		MaxRetries: c.cfg.MaxRetries,
		Logger:     c.logger,
	})
	if err != nil {
		// url.Error quotes the full URL, token included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}
	return nil
}
