// Package live streams a style sheet to connected clients over websockets.
// The server is itself a styling sink: every rule the engine inserts is
// stored and pushed to all synced sessions, in insertion order.
package live

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	sendBuffer   = 256
)

// Server handles websocket sessions and holds the sheet they mirror
type Server struct {
	upgrader websocket.Upgrader
	sheet    *sheet.Text
	log      *zap.Logger

	// mu orders inserts against session syncs so every session sees each
	// rule exactly once
	mu       sync.Mutex
	sessions map[uint64]*Session
	nextID   atomic.Uint64
}

var _ styling.Sink = (*Server)(nil)

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server's logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSheet makes the server store rules in an existing sheet
func WithSheet(t *sheet.Text) Option {
	return func(s *Server) {
		if t != nil {
			s.sheet = t
		}
	}
}

// WithCheckOrigin sets the upgrade origin check. All origins are accepted by
// default.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = check
	}
}

// NewServer creates a live server with an empty sheet unless WithSheet is given
func NewServer(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log:      zap.NewNop(),
		sessions: make(map[uint64]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sheet == nil {
		s.sheet = sheet.NewText(sheet.WithLogger(s.log))
	}
	s.log = s.log.Named("live")
	return s
}

// Sheet returns the sheet holding all rules inserted so far
func (s *Server) Sheet() *sheet.Text {
	return s.sheet
}

// InsertRule stores rule and broadcasts it
func (s *Server) InsertRule(rule string) (styling.RuleHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.sheet.InsertRule(rule)
	if err != nil {
		return nil, err
	}

	frame := EncodeRules(uint64(h.(int)), []string{rule})
	for _, sess := range s.sessions {
		if sess.synced {
			sess.enqueue(frame)
		}
	}
	return h, nil
}

// SessionCount returns the number of connected sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ServeHTTP upgrades the request and runs the session until the client
// goes away
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	sess := &Session{
		ID:      s.nextID.Add(1),
		conn:    conn,
		server:  s,
		send:    make(chan []byte, sendBuffer),
		closing: make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	sess.run()
}

// Close disconnects all sessions
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
}

// sync sends the rules the client is missing and marks the session for
// broadcasts, atomically with respect to InsertRule
func (s *Server) sync(sess *Session, have uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := s.sheet.Since(int(min(have, uint64(s.sheet.Len()))))
	if len(missing) > 0 {
		sess.enqueue(EncodeRules(have, missing))
	}
	sess.synced = true
	s.log.Debug("Session synced", zap.Uint64("session", sess.ID), zap.Uint64("have", have), zap.Int("sent", len(missing)))
}

// Session is one connected client
type Session struct {
	ID     uint64
	conn   *websocket.Conn
	server *Server
	send   chan []byte

	// guarded by server.mu
	synced bool

	closeOnce sync.Once
	closing   chan struct{}
}

func (sess *Session) run() {
	log := sess.server.log.With(zap.Uint64("session", sess.ID))
	defer func() {
		sess.server.remove(sess)
		sess.close()
		log.Debug("Session closed")
	}()

	go sess.writer(log)

	sess.server.mu.Lock()
	total := uint64(sess.server.sheet.Len())
	sess.server.mu.Unlock()
	sess.enqueue(EncodeControl(ControlHello, total))

	sess.conn.SetReadLimit(64 * 1024)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("Unexpected close", zap.Error(err))
			}
			return
		}
		if kind != websocket.BinaryMessage {
			log.Debug("Ignoring text message", zap.Int("bytes", len(data)))
			continue
		}
		sess.handle(log, data)
	}
}

func (sess *Session) handle(log *zap.Logger, data []byte) {
	msg, err := Decode(data)
	if err != nil {
		log.Debug("Bad frame", zap.Error(err))
		return
	}
	ctl, ok := msg.(*Control)
	if !ok {
		log.Debug("Ignoring rules frame from client")
		return
	}

	switch ctl.Command {
	case ControlHello:
		var have uint64
		if len(ctl.Args) > 0 {
			have = ctl.Args[0]
		}
		sess.server.sync(sess, have)
	case ControlPing:
		sess.enqueue(EncodeControl(ControlPong))
	default:
		log.Debug("Unknown control command", zap.String("command", ctl.Command))
	}
}

// enqueue queues a frame without blocking. A session that cannot keep up
// is dropped; it resyncs on reconnect.
func (sess *Session) enqueue(frame []byte) {
	select {
	case sess.send <- frame:
	case <-sess.closing:
	default:
		sess.server.log.Warn("Send buffer full, dropping session", zap.Uint64("session", sess.ID))
		sess.close()
	}
}

func (sess *Session) close() {
	sess.closeOnce.Do(func() {
		close(sess.closing)
		_ = sess.conn.Close()
	})
}

func (sess *Session) writer(log *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug("Failed to write frame", zap.Error(err))
				}
				sess.close()
				return
			}

		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sess.close()
				return
			}

		case <-sess.closing:
			_ = sess.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
