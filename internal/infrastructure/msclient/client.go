// Package msclient talks to the other platform services over NATS
// request/reply. Each client wraps the shared connection and translates
// transport failures into upstream errors so callers can compensate.
package msclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"nexus/internal/shared/config"
	sharedErrors "nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

// Client holds the shared NATS connection and request settings.
type Client struct {
	nc      *nats.Conn
	timeout time.Duration
	logger  logger.Interface
}

// Connect establishes the NATS connection used by all service clients.
func Connect(cfg *config.NATSConfig, log logger.Interface) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		nc:      nc,
		timeout: timeout,
		logger:  log.Named("msclient"),
	}, nil
}

// Close drains and closes the NATS connection.
func (c *Client) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

// envelope is the request frame every service on the bus accepts.
type envelope struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// reply is the response frame every service on the bus returns.
type reply struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// request performs one request/reply round trip. The reply payload is
// decoded into out when out is non-nil.
func (c *Client) request(ctx context.Context, subject, action string, data interface{}, out interface{}) error {
	payload, err := json.Marshal(envelope{Action: action, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(reqCtx, subject, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
			return sharedErrors.NewUpstreamError(fmt.Sprintf("%s request timed out", action), err)
		}
		return sharedErrors.NewUpstreamError(fmt.Sprintf("%s request failed", action), err)
	}

	var resp reply
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return sharedErrors.NewUpstreamError(fmt.Sprintf("invalid %s response", action), err)
	}
	if !resp.Success {
		return sharedErrors.NewUpstreamError(fmt.Sprintf("%s rejected: %s", action, resp.Error), nil)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return sharedErrors.NewUpstreamError(fmt.Sprintf("invalid %s response payload", action), err)
		}
	}
	return nil
}
