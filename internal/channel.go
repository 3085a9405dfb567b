package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Channel maintains the persistent push connection for one cafe room
// and feeds decoded events to the sink in arrival order.
//
// Reconnect policy: fixed delay before every reconnect attempt, the
// first one after a drop included, bounded attempts per outage. The
// attempt budget resets after a successful connect, and the sink is
// told about every re-established connection so it can resync state
// pushed while the channel was down.
type Channel struct {
	url     string
	origin  string
	room    string
	token   string
	retries int
	delay   time.Duration
	sink    EventSink
	logger  *zap.SugaredLogger
}

func NewChannel(cfg *Config, sink EventSink, logger *zap.SugaredLogger) *Channel {
	return &Channel{
		url:     cfg.PushChannelURL,
		origin:  originFor(cfg.PushChannelURL),
		room:    "cafe_" + cfg.CafeID,
		token:   cfg.BackendToken,
		retries: cfg.ReconnectRetries,
		delay:   cfg.ReconnectDelay,
		sink:    sink,
		logger:  logger,
	}
}

// Run blocks until the context is cancelled or the retry budget for a
// single outage is spent.
func (ch *Channel) Run(ctx context.Context) error {
	attempts := 0
	connected := false

	for {
		conn, err := ch.connect()
		if err != nil {
			attempts++
			if attempts > ch.retries {
				return fmt.Errorf("%w: %s", ErrRetriesExceeded, err)
			}
			ch.logger.Errorf("push channel connect failed (attempt %d/%d): %s", attempts, ch.retries, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ch.delay):
			}
			continue
		}

		attempts = 0
		if connected {
			pushReconnectsTotal.Inc()
			ch.logger.Infow("push channel reconnected", "room", ch.room)
			ch.sink.HandleReconnected()
		} else {
			ch.logger.Infow("push channel connected", "room", ch.room)
			connected = true
		}

		err = ch.serve(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ch.logger.Errorf("push channel dropped: %s", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ch.delay):
		}
	}
}

func (ch *Channel) connect() (*websocket.Conn, error) {
	cfg, err := websocket.NewConfig(ch.url, ch.origin)
	if err != nil {
		return nil, err
	}
	if ch.token != "" {
		cfg.Header = make(http.Header)
		cfg.Header.Set("Authorization", "Bearer "+ch.token)
	}

	conn, err := websocket.DialConfig(cfg)
	if err != nil {
		return nil, err
	}

	if err = websocket.JSON.Send(conn, joinFrame(ch.room)); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// serve reads frames until the connection drops or the context is
// cancelled. Cancellation sends a best-effort leave before closing so
// the server can tear down the room membership.
func (ch *Channel) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = websocket.JSON.Send(conn, leaveFrame(ch.room))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()
	defer close(done)

	for {
		var frame Frame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			return fmt.Errorf("%w: %s", ErrChannelClosed, err)
		}
		ch.dispatch(frame)
	}
}

func (ch *Channel) dispatch(frame Frame) {
	pushEventsTotal.WithLabelValues(frame.Event).Inc()

	switch frame.Event {
	case EventNewOrder:
		ch.sink.HandleNewOrder(frame.Payload)
	case EventOrderUpdated, EventOrderStatusUpdated:
		ch.sink.HandleOrderUpdated(frame.Payload)
	case EventOrderCancelled:
		ch.sink.HandleOrderCancelled()
	default:
		ch.logger.Debugf("ignoring push event %q", frame.Event)
	}
}

func originFor(wsURL string) string {
	return "http" + strings.TrimPrefix(wsURL, "ws")
}
