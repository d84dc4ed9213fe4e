// Package feed streams live trade ticks from the Upbit websocket API.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// DefaultEndpoint is the public Upbit websocket endpoint.
const DefaultEndpoint = "wss://api.upbit.com/websocket/v1"

// Config tunes connection behavior. Zero fields fall back to the
// defaults below.
type Config struct {
	Endpoint          string
	Markets           []string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	Buffer            int
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = time.Second
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.Buffer <= 0 {
		c.Buffer = 1024
	}
}

// Stream is a reconnecting trade-tick subscription. Ticks arrive on
// Ticks(); the channel closes when Run returns.
type Stream struct {
	cfg Config
	log *logrus.Logger

	ticks chan market.TickEvent

	connMu sync.Mutex
	conn   *websocket.Conn
}

// NewStream validates the config and prepares a stream. Run must be
// called to connect.
func NewStream(cfg Config, log *logrus.Logger) (*Stream, error) {
	if len(cfg.Markets) == 0 {
		return nil, fmt.Errorf("feed: no markets to subscribe")
	}
	cfg.applyDefaults()
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Stream{
		cfg:   cfg,
		log:   log,
		ticks: make(chan market.TickEvent, cfg.Buffer),
	}, nil
}

// Ticks returns the delivery channel. Closed once Run returns.
func (s *Stream) Ticks() <-chan market.TickEvent { return s.ticks }

// Run connects, subscribes, and pumps ticks until the context is
// canceled. Connection drops trigger reconnect with exponential backoff
// and a fresh subscription.
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.ticks)

	delay := s.cfg.ReconnectDelay
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.WithError(err).WithField("delay", delay).Warn("feed disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > s.cfg.MaxReconnectDelay {
			delay = s.cfg.MaxReconnectDelay
		}
	}
}

// runOnce performs one connect-subscribe-read cycle and returns the
// error that ended it.
func (s *Stream) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.Endpoint, err)
	}
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	defer conn.Close()

	if err := s.subscribe(conn); err != nil {
		return err
	}
	s.log.WithField("markets", s.cfg.Markets).Info("feed subscribed")

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go s.pingLoop(pingCtx, conn)

	// Close the connection when ctx ends so ReadMessage unblocks.
	go func() {
		<-pingCtx.Done()
		conn.Close()
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		tick, ok := parseTrade(payload)
		if !ok {
			continue
		}
		select {
		case s.ticks <- tick:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// subscribe sends the Upbit subscription frame: a ticket section, a
// trade-type section with market codes, and the SIMPLE format section.
func (s *Stream) subscribe(conn *websocket.Conn) error {
	req := []any{
		map[string]string{"ticket": ulid.Make().String()},
		map[string]any{"type": "trade", "codes": s.cfg.Markets},
		map[string]string{"format": "SIMPLE"},
	}
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (s *Stream) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				// Reader sees the dead connection and reconnects.
				return
			}
		}
	}
}

// simpleTrade is the SIMPLE-format trade frame Upbit sends.
type simpleTrade struct {
	Type            string  `json:"ty"`
	Code            string  `json:"cd"`
	TradePrice      float64 `json:"tp"`
	TradeVolume     float64 `json:"tv"`
	TimestampMillis int64   `json:"tms"`
}

// parseTrade converts a raw frame to a tick, dropping non-trade frames
// and malformed payloads.
func parseTrade(payload []byte) (market.TickEvent, bool) {
	var t simpleTrade
	if err := json.Unmarshal(payload, &t); err != nil {
		return market.TickEvent{}, false
	}
	if t.Type != "trade" || t.Code == "" || t.TradePrice <= 0 {
		return market.TickEvent{}, false
	}
	return market.TickEvent{
		Market:          t.Code,
		Price:           t.TradePrice,
		Volume:          t.TradeVolume,
		TimestampMillis: t.TimestampMillis,
	}, true
}
