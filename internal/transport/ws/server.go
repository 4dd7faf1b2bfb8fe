package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mobmart/storefront/internal/mob"

	"github.com/gorilla/websocket"
)

// Coordinator — переходы мобов, которые обслуживает этот транспорт.
type Coordinator interface {
	Start(conn mob.Conn, productRef, userID string) (*mob.StartResult, error)
	Join(conn mob.Conn, sessionID, userID string) error
	Info(sessionID string) (*mob.Info, error)
	DropConn(conn mob.Conn)
}

type Server struct {
	upgrader websocket.Upgrader
	coord    Coordinator

	pingEvery time.Duration
}

func NewServer(coord Coordinator) *Server {
	return &Server{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn)
	slog.Debug("ws connected", "remote", conn.RemoteAddr())

	go s.writeLoop(c)
	s.readLoop(c)

	// закрытие транспорта -> снятие участия во всех сессиях, ровно один раз
	s.coord.DropConn(c)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "err", err)
	}
	slog.Debug("ws disconnected", "remote", conn.RemoteAddr())
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.handleMessage(c, msg)
	}
}

// handleMessage выполняет один переход. Паника внутри перехода не валит
// event loop: превращается в unicast error запросившему.
func (s *Server) handleMessage(c *wsConn, msg Message) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("ws handler panic", "type", msg.Type, "panic", rec)
			_ = c.Send(TypeError, ErrorPayload{Message: "internal error"})
		}
	}()

	switch msg.Type {
	case TypeStartSession:
		var p StartSessionPayload
		if decode(msg.Payload, &p) != nil {
			_ = c.Send(TypeStartAck, StartAckPayload{Success: false, Error: mob.ErrMissingFields.Error()})
			return
		}
		res, err := s.coord.Start(c, p.ProductRef, p.UserID)
		if err != nil {
			_ = c.Send(TypeStartAck, StartAckPayload{Success: false, Error: err.Error()})
			return
		}
		_ = c.Send(TypeStartAck, StartAckPayload{
			Success:       true,
			SessionID:     res.SessionID,
			TimeRemaining: res.TimeRemaining,
		})

	case TypeJoinSession:
		var p JoinSessionPayload
		if decode(msg.Payload, &p) != nil {
			_ = c.Send(TypeError, ErrorPayload{Message: mob.ErrMobNotFound.Error()})
			return
		}
		if err := s.coord.Join(c, p.SessionID, p.UserID); err != nil {
			_ = c.Send(TypeError, ErrorPayload{Message: err.Error()})
		}

	case TypeGetSessionInfo:
		var p GetSessionInfoPayload
		if decode(msg.Payload, &p) != nil {
			_ = c.Send(TypeError, ErrorPayload{Message: mob.ErrMobNotFound.Error()})
			return
		}
		info, err := s.coord.Info(p.SessionID)
		if err != nil {
			_ = c.Send(TypeError, ErrorPayload{Message: err.Error()})
			return
		}
		_ = c.Send(TypeSessionInfo, info)

	default:
		// ignore
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(event string, payload any) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(Message{Type: event, Payload: payload})
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}
