package mob

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// События, которые координатор отдаёт в fan-out.
const (
	EventSessionUpdate = "session-update"
	EventSessionEnd    = "session-end"
)

const DefaultDuration = 15 * time.Minute

// StartResult — ack инициатору.
type StartResult struct {
	SessionID     string `json:"sessionId"`
	TimeRemaining int64  `json:"timeRemaining"`
}

// Update рассылается всем участникам сессии на каждом join/drop.
type Update struct {
	Members       []string `json:"members"`
	Discount      int      `json:"discount"`
	TimeRemaining int64    `json:"timeRemaining"`
}

// Info — ответ на get-session-info, только запросившему.
type Info struct {
	Members       []string `json:"members"`
	Discount      int      `json:"discount"`
	TimeRemaining int64    `json:"timeRemaining"`
	ProductRef    string   `json:"productRef"`
}

// EndEvent — терминальное событие по истечении таймера.
type EndEvent struct {
	SessionID  string   `json:"sessionId"`
	Members    []string `json:"members"`
	Discount   int      `json:"discount"`
	ProductRef string   `json:"productRef"`
}

// Coordinator управляет жизненным циклом сессий: start/join/info/drop/expiry.
// Все переходы сериализуются мьютексом — аналог однопоточного event loop:
// read-modify-write members/discount всегда атомарен относительно других переходов.
type Coordinator struct {
	mu       sync.Mutex
	registry *Registry
	hub      Broadcaster
	sched    Scheduler
	now      func() time.Time
	duration time.Duration

	// conn -> id сессий, в которых соединение состоит.
	// Drop снимает участие во всех, не только в первой найденной.
	byConn map[Conn]map[string]struct{}
}

type Option func(*Coordinator)

func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) { c.sched = s }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithDuration(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.duration = d
		}
	}
}

func NewCoordinator(registry *Registry, hub Broadcaster, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry: registry,
		hub:      hub,
		sched:    RealScheduler{},
		now:      time.Now,
		duration: DefaultDuration,
		byConn:   make(map[Conn]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start создаёт сессию с инициатором в составе и взводит таймер истечения.
func (c *Coordinator) Start(conn Conn, productRef, userID string) (*StartResult, error) {
	productRef = strings.TrimSpace(productRef)
	userID = strings.TrimSpace(userID)
	if productRef == "" || userID == "" {
		return nil, ErrMissingFields
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Session{
		ProductRef: productRef,
		Members:    []Participant{{UserID: userID, Conn: conn}},
		Discount:   DiscountFor(1),
		StartedAt:  c.now(),
		Duration:   c.duration,
	}
	id := c.registry.Create(s)
	s.expiry = c.sched.Schedule(c.duration, func() { c.expire(id) })

	c.hub.Join(id, conn)
	c.index(conn, id)

	slog.Info("mob started", "mob", id, "user", userID, "product", productRef)

	return &StartResult{SessionID: id, TimeRemaining: s.TimeRemaining(c.now())}, nil
}

// Join добавляет участника и рассылает обновлённое состояние всем в сессии,
// включая нового участника.
func (c *Coordinator) Join(conn Conn, sessionID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.registry.Get(sessionID)
	if !ok {
		return ErrMobNotFound
	}
	if s.memberIndex(userID) >= 0 {
		return ErrAlreadyJoined
	}

	s.Members = append(s.Members, Participant{UserID: userID, Conn: conn})
	s.Discount = DiscountFor(len(s.Members))

	c.hub.Join(sessionID, conn)
	c.index(conn, sessionID)

	c.hub.Broadcast(sessionID, EventSessionUpdate, Update{
		Members:       s.UserIDs(),
		Discount:      s.Discount,
		TimeRemaining: s.TimeRemaining(c.now()),
	})

	slog.Info("mob joined", "mob", sessionID, "user", userID, "members", len(s.Members))

	return nil
}

// Info — read-only снапшот сессии для запросившего соединения.
func (c *Coordinator) Info(sessionID string) (*Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.registry.Get(sessionID)
	if !ok {
		return nil, ErrMobNotFound
	}

	return &Info{
		Members:       s.UserIDs(),
		Discount:      s.Discount,
		TimeRemaining: s.TimeRemaining(c.now()),
		ProductRef:    s.ProductRef,
	}, nil
}

// DropConn снимает участие соединения во всех его сессиях.
// Вызывается ровно один раз при закрытии транспорта; для соединений
// без участия — no-op.
func (c *Coordinator) DropConn(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.byConn[conn]
	if len(ids) == 0 {
		delete(c.byConn, conn)
		return
	}
	delete(c.byConn, conn)

	for id := range ids {
		s, ok := c.registry.Get(id)
		if !ok {
			continue
		}

		kept := s.Members[:0]
		removed := 0
		for _, m := range s.Members {
			if m.Conn == conn {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		s.Members = kept
		c.hub.Leave(id, conn)

		if removed == 0 {
			continue
		}

		if len(s.Members) == 0 {
			// таймер гасим до удаления, чтобы не поймать повторную финализацию
			if s.expiry != nil {
				s.expiry.Stop()
			}
			c.registry.Delete(id)
			slog.Info("mob ended, no participants left", "mob", id)
			continue
		}

		s.Discount = DiscountFor(len(s.Members))
		c.hub.Broadcast(id, EventSessionUpdate, Update{
			Members:       s.UserIDs(),
			Discount:      s.Discount,
			TimeRemaining: s.TimeRemaining(c.now()),
		})
	}
}

// expire — колбэк таймера. Гонка с drop-to-zero разрешается идемпотентным
// Delete реестра: кто первым удалил, тот и финализировал.
func (c *Coordinator) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.registry.Get(id)
	if !ok {
		return
	}

	c.hub.Broadcast(id, EventSessionEnd, EndEvent{
		SessionID:  id,
		Members:    s.UserIDs(),
		Discount:   s.Discount,
		ProductRef: s.ProductRef,
	})

	for _, m := range s.Members {
		c.unindex(m.Conn, id)
		c.hub.Leave(id, m.Conn)
	}
	c.registry.Delete(id)

	slog.Info("mob expired", "mob", id, "members", len(s.Members))
}

func (c *Coordinator) index(conn Conn, id string) {
	ids, ok := c.byConn[conn]
	if !ok {
		ids = make(map[string]struct{})
		c.byConn[conn] = ids
	}
	ids[id] = struct{}{}
}

func (c *Coordinator) unindex(conn Conn, id string) {
	if ids, ok := c.byConn[conn]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(c.byConn, conn)
		}
	}
}
