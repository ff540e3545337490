// Package backend talks to the board backend: health, board rows and ticket
// logging.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/sharpboard/internal/config"
	"github.com/yourusername/sharpboard/internal/metrics"
	"github.com/yourusername/sharpboard/internal/models"
)

// Errors returned by the client
var (
	ErrMissingBaseURL     = errors.New("backend base URL is not configured")
	ErrBackendUnreachable = errors.New("backend not reachable")
	ErrBoardFetchFailed   = errors.New("board fetch failed")
	ErrTicketRejected     = errors.New("ticket rejected by backend")
)

// RequestIDHeader carries the client-generated id of a ticket request
const RequestIDHeader = "X-Request-ID"

const (
	endpointHealth = "health"
	endpointBoard  = "board"
	endpointTicket = "ticket"

	healthCacheKey = "health"
)

// HealthStatus is the result of a backend health check
type HealthStatus struct {
	OK        bool          `json:"ok"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checked_at"`
	Cached    bool          `json:"cached"`
}

type healthResult struct {
	status HealthStatus
	err    error
}

// Client is the backend HTTP client
type Client struct {
	cfg       config.BackendConfig
	transport *transport
	health    *cache.Cache
	inflight  singleflight.Group
	logger    *logrus.Logger
}

// NewClient creates a backend client
func NewClient(cfg *config.BackendConfig, logger *logrus.Logger) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	tc := DefaultTransportConfig()
	if cfg.Timeout > 0 {
		tc.Timeout = cfg.Timeout
	}
	tc.MaxRetries = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		tc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		tc.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.RateLimit > 0 {
		tc.RateLimit = cfg.RateLimit
	}

	// A zero TTL disables caching
	var healthCache *cache.Cache
	if cfg.HealthCacheTTL > 0 {
		healthCache = cache.New(cfg.HealthCacheTTL, cfg.HealthCacheTTL*2)
	}

	return &Client{
		cfg:       *cfg,
		transport: newTransport(tc, logger),
		health:    healthCache,
		logger:    logger,
	}, nil
}

// Health pings the backend. The backend is up when the health endpoint
// answers 2xx with {"ok": true}; anything else returns an error wrapping
// ErrBackendUnreachable. Results are cached for the configured TTL and
// concurrent checks share one request.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	if c.health != nil {
		if cached, found := c.health.Get(healthCacheKey); found {
			res := cached.(healthResult)
			res.status.Cached = true
			return res.status, res.err
		}
	}

	v, _, _ := c.inflight.Do(healthCacheKey, func() (interface{}, error) {
		status, err := c.checkHealth(ctx)
		metrics.SetBackendUp(status.OK)

		res := healthResult{status: status, err: err}
		if c.health != nil && ctx.Err() == nil {
			c.health.SetDefault(healthCacheKey, res)
		}
		return res, nil
	})
	res := v.(healthResult)
	return res.status, res.err
}

func (c *Client) checkHealth(ctx context.Context) (HealthStatus, error) {
	start := time.Now()
	status := HealthStatus{CheckedAt: start}

	resp, err := c.transport.do(ctx, http.MethodGet, c.cfg.URL(c.cfg.HealthPath), nil, nil)
	if err != nil {
		metrics.RecordBackendRequest(endpointHealth, time.Since(start), "transport")
		return status, fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordBackendRequest(endpointHealth, time.Since(start), "status")
		return status, fmt.Errorf("%w: HTTP %d", ErrBackendUnreachable, resp.StatusCode)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordBackendRequest(endpointHealth, time.Since(start), "decode")
		return status, fmt.Errorf("%w: decode health: %v", ErrBackendUnreachable, err)
	}

	status.Latency = time.Since(start)
	metrics.RecordBackendRequest(endpointHealth, status.Latency, "")
	if !body.OK {
		return status, fmt.Errorf("%w: health reported not ok", ErrBackendUnreachable)
	}
	status.OK = true
	return status, nil
}

// Board fetches the raw board rows. Only the "rows" member of the response
// is consumed; a missing or non-array rows member is an empty board.
func (c *Client) Board(ctx context.Context) ([]json.RawMessage, error) {
	start := time.Now()

	resp, err := c.transport.do(ctx, http.MethodGet, c.cfg.URL(c.cfg.BoardPath), nil, nil)
	if err != nil {
		metrics.RecordBackendRequest(endpointBoard, time.Since(start), "transport")
		return nil, fmt.Errorf("%w: %v", ErrBoardFetchFailed, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordBackendRequest(endpointBoard, time.Since(start), "status")
		return nil, fmt.Errorf("%w: HTTP %d", ErrBoardFetchFailed, resp.StatusCode)
	}

	var body struct {
		Rows json.RawMessage `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordBackendRequest(endpointBoard, time.Since(start), "decode")
		return nil, fmt.Errorf("%w: decode board: %v", ErrBoardFetchFailed, err)
	}
	metrics.RecordBackendRequest(endpointBoard, time.Since(start), "")

	var rows []json.RawMessage
	if err := json.Unmarshal(body.Rows, &rows); err != nil {
		c.logger.WithField("component", "backend").Debug("Board response has no rows array")
		return []json.RawMessage{}, nil
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, nil
}

// LogTicket posts a ticket to the backend ticket log
func (c *Client) LogTicket(ctx context.Context, ticket models.TicketRequest) (*models.TicketResponse, error) {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket: %w", err)
	}

	requestID := uuid.New().String()
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.transport.do(ctx, http.MethodPost, c.cfg.URL(c.cfg.TicketPath), payload, header)
	if err != nil {
		metrics.RecordBackendRequest(endpointTicket, time.Since(start), "transport")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordBackendRequest(endpointTicket, time.Since(start), "status")
		return nil, fmt.Errorf("%w: HTTP %d", ErrTicketRejected, resp.StatusCode)
	}

	var out models.TicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordBackendRequest(endpointTicket, time.Since(start), "decode")
		return nil, fmt.Errorf("failed to decode ticket response: %w", err)
	}
	metrics.RecordBackendRequest(endpointTicket, time.Since(start), "")
	out.RequestID = requestID

	c.logger.WithFields(logrus.Fields{
		"component":  "backend",
		"request_id": requestID,
		"legs":       len(ticket.Legs),
		"ok":         out.OK,
	}).Debug("Ticket logged")

	if !out.OK {
		return &out, ErrTicketRejected
	}
	return &out, nil
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Close releases idle connections
func (c *Client) Close() error {
	c.transport.close()
	return nil
}

// Ping reports backend reachability as an error, for readiness checks
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}
