package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sahara-community/pulse/internal/domain"
)

type SessionState int32

const (
	StateConnecting SessionState = iota
	StateOpen
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

var (
	ErrSessionClosed = errors.New("session closed")
	ErrSlowConsumer  = errors.New("session send buffer full")
)

// Conn is the part of *websocket.Conn a session uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// InboundHandler processes one client frame. Returned errors are logged;
// they never close the session.
type InboundHandler func(ctx context.Context, s *Session, data []byte) error

type Options struct {
	SendBuffer     int
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	InboundRate    float64
	InboundBurst   int
}

func DefaultOptions() Options {
	return Options{
		SendBuffer:     64,
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
		InboundRate:    5,
		InboundBurst:   10,
	}
}

// Session is the registry-visible state of one live connection.
type Session struct {
	id        string
	topic     string
	principal *domain.Principal
	conn      Conn
	registry  *Registry
	opts      Options
	inbound   InboundHandler
	limiter   *rate.Limiter

	mu        sync.Mutex
	state     SessionState
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(conn Conn, registry *Registry, topic string, principal *domain.Principal, opts Options) *Session {
	defaults := DefaultOptions()
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaults.WriteWait
	}
	if opts.InboundRate <= 0 {
		opts.InboundRate = defaults.InboundRate
	}
	if opts.InboundBurst <= 0 {
		opts.InboundBurst = defaults.InboundBurst
	}
	return &Session{
		id:        uuid.NewString(),
		topic:     topic,
		principal: principal,
		conn:      conn,
		registry:  registry,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Limit(opts.InboundRate), opts.InboundBurst),
		state:     StateConnecting,
		send:      make(chan []byte, opts.SendBuffer),
		done:      make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Topic() string { return s.topic }

func (s *Session) Principal() (domain.Principal, bool) {
	if s.principal == nil {
		return domain.Principal{}, false
	}
	return *s.principal, true
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleInbound attaches the handler for client frames. Must be called before Run.
func (s *Session) HandleInbound(h InboundHandler) {
	s.inbound = h
}

// Open registers the session on its topic and marks it Open in the same
// critical section, so a publish can never see an Open session that is
// not registered.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnecting {
		return fmt.Errorf("cannot open session in state %s", s.state)
	}
	s.registry.Subscribe(s.topic, s)
	s.state = StateOpen
	return nil
}

// Close moves the session to Closed and releases its registry membership.
// Safe to call from any goroutine, any number of times.
func (s *Session) Close() {
	if s.markClosed() {
		s.closeConn()
	}
}

// markClosed does the bookkeeping half of Close without touching the
// transport. It reports whether this call performed the transition.
func (s *Session) markClosed() bool {
	closed := false
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()

		s.registry.DropSession(s.id)
		close(s.done)
		closed = true
	})
	return closed
}

// closeConn may block up to WriteWait while the write pump holds the
// connection's write lock.
func (s *Session) closeConn() {
	deadline := time.Now().Add(s.opts.WriteWait)
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	_ = s.conn.Close()
}

// Done is closed once the session reaches Closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Deliver enqueues an encoded frame without blocking. A session whose
// buffer is full is closed rather than allowed to stall the publisher;
// its transport is torn down on a separate goroutine.
func (s *Session) Deliver(frame []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- frame:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		if s.markClosed() {
			go s.closeConn()
		}
		return ErrSlowConsumer
	}
}

// Send encodes a payload for this session only.
func (s *Session) Send(payload domain.Payload) error {
	frame, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Deliver(frame)
}

// Run pumps frames until the peer goes away, the transport fails or ctx
// is cancelled. The session is always Closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	if s.State() != StateOpen {
		return fmt.Errorf("cannot run session in state %s", s.State())
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writePump(ctx)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	s.readLoop(ctx)
	return nil
}

func (s *Session) readLoop(ctx context.Context) {
	if s.opts.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.opts.MaxMessageSize)
	}
	if s.opts.PongWait > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		})
	}

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.ErrorContext(
					ctx, "Error reading message",
					slog.String("session", s.id),
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
			} else {
				slog.DebugContext(
					ctx, "WebSocket closed",
					slog.String("session", s.id),
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
			}
			return
		}

		if s.opts.PongWait > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		}

		if s.inbound == nil {
			continue
		}

		if !s.limiter.Allow() {
			slog.WarnContext(
				ctx, "Inbound message rate limited",
				slog.String("session", s.id),
				slog.String("topic", s.topic),
				slog.String("module", "socket"),
			)
			continue
		}

		if err := s.inbound(ctx, s, data); err != nil {
			slog.InfoContext(
				ctx, "Inbound message rejected",
				slog.String("session", s.id),
				slog.String("topic", s.topic),
				slog.String("error", err.Error()),
				slog.String("module", "socket"),
			)
		}
	}
}

func (s *Session) writePump(ctx context.Context) {
	var ping <-chan time.Time
	if s.opts.PingInterval > 0 {
		ticker := time.NewTicker(s.opts.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-s.done:
			return
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("session", s.id),
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				s.Close()
				return
			}
		case <-ping:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		}
	}
}
