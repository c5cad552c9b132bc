package live

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
)

// Client mirrors a live server's sheet into a local sink
type Client struct {
	url     string
	sink    styling.Sink
	log     *zap.Logger
	dialer  *websocket.Dialer
	applied atomic.Uint64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithClientLogger sets the client's logger
func WithClientLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDialer replaces the websocket dialer
func WithDialer(d *websocket.Dialer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// NewClient creates a client for the websocket url that inserts every rule
// it receives into sink
func NewClient(url string, sink styling.Sink, opts ...ClientOption) *Client {
	c := &Client{
		url:    url,
		sink:   sink,
		log:    zap.NewNop(),
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("live-client")
	return c
}

// Applied returns the number of rules inserted into the sink so far
func (c *Client) Applied() uint64 {
	return c.applied.Load()
}

// Run connects and applies rules until ctx is done or the connection drops.
// Calling Run again resumes from the rules already applied.
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		msg, err := Decode(data)
		if err != nil {
			c.log.Debug("Bad frame", zap.Error(err))
			continue
		}

		switch m := msg.(type) {
		case *Control:
			if m.Command == ControlHello {
				hello := EncodeControl(ControlHello, c.applied.Load())
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.BinaryMessage, hello); err != nil {
					return err
				}
			}
		case *Rules:
			if err := c.apply(m); err != nil {
				return err
			}
		}
	}
}

// apply inserts the part of m the sink has not seen yet
func (c *Client) apply(m *Rules) error {
	have := c.applied.Load()
	if m.Seq > have {
		return fmt.Errorf("missing rules %d..%d", have, m.Seq)
	}

	for i, rule := range m.Rules {
		if m.Seq+uint64(i) < have {
			continue
		}
		// a rejected rule still counts so positions stay in step with the server
		if _, err := c.sink.InsertRule(rule); err != nil {
			c.log.Warn("Sink rejected mirrored rule", zap.String("rule", rule), zap.Error(err))
		}
		c.applied.Add(1)
	}
	return nil
}

// ErrClosed is returned by Wait when the client stopped before the target
// was reached
var ErrClosed = errors.New("live client closed")

// Wait runs the client in the background and returns once at least n rules
// have been applied
func (c *Client) Wait(ctx context.Context, n uint64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.Applied() >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if c.Applied() >= n {
				return nil
			}
			if err == nil {
				err = ErrClosed
			}
			return err
		case <-ticker.C:
		}
	}
}
