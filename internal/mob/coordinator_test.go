package mob

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	Event   string
	Payload any
}

type fakeConn struct {
	id     string
	events []sentEvent
}

func (c *fakeConn) Send(event string, payload any) error {
	c.events = append(c.events, sentEvent{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) reset() { c.events = nil }

// fakeHub доставляет broadcast прямо в fakeConn.Send, как настоящий Hub.
type fakeHub struct {
	rooms map[string]map[Conn]struct{}
}

func newFakeHub() *fakeHub {
	return &fakeHub{rooms: make(map[string]map[Conn]struct{})}
}

func (h *fakeHub) Join(sessionID string, c Conn) {
	rs, ok := h.rooms[sessionID]
	if !ok {
		rs = make(map[Conn]struct{})
		h.rooms[sessionID] = rs
	}
	rs[c] = struct{}{}
}

func (h *fakeHub) Leave(sessionID string, c Conn) {
	if rs, ok := h.rooms[sessionID]; ok {
		delete(rs, c)
		if len(rs) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

func (h *fakeHub) Broadcast(sessionID, event string, payload any) {
	for c := range h.rooms[sessionID] {
		_ = c.Send(event, payload)
	}
}

type manualTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler не запускает таймеры сам — тест дергает Fire.
type manualScheduler struct {
	timers []*manualTimer
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Fire(i int) {
	t := s.timers[i]
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.fn()
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeHub, *manualScheduler, *fakeClock) {
	t.Helper()
	hub := newFakeHub()
	sched := &manualScheduler{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCoordinator(NewRegistry(), hub,
		WithScheduler(sched),
		WithClock(clock.Now),
	)
	return c, hub, sched, clock
}

func lastUpdate(t *testing.T, c *fakeConn) Update {
	t.Helper()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Event == EventSessionUpdate {
			return c.events[i].Payload.(Update)
		}
	}
	t.Fatalf("conn %s: no %s event", c.id, EventSessionUpdate)
	return Update{}
}

func countEvents(c *fakeConn, event string) int {
	n := 0
	for _, e := range c.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func TestStartValidation(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	_, err := c.Start(&fakeConn{}, "", "user-a")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = c.Start(&fakeConn{}, "p1", "  ")
	assert.ErrorIs(t, err, ErrMissingFields)

	// неудачный старт не оставляет записей в реестре
	assert.Equal(t, 0, c.registry.Len())
}

func TestStartAck(t *testing.T) {
	c, hub, sched, _ := newTestCoordinator(t)

	conn := &fakeConn{id: "a"}
	res, err := c.Start(conn, "p1", "A")
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.EqualValues(t, 900, res.TimeRemaining)

	s, ok := c.registry.Get(res.SessionID)
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, s.UserIDs())
	assert.Equal(t, 0, s.Discount)

	// инициатор уже в комнате рассылки, таймер взведён
	_, inRoom := hub.rooms[res.SessionID][conn]
	assert.True(t, inRoom)
	require.Len(t, sched.timers, 1)
}

func TestJoinNotFound(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	err := c.Join(&fakeConn{}, "deadbeef", "B")
	assert.ErrorIs(t, err, ErrMobNotFound)
}

func TestJoinDuplicate(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	res, err := c.Start(&fakeConn{id: "a"}, "p1", "A")
	require.NoError(t, err)

	err = c.Join(&fakeConn{id: "a2"}, res.SessionID, "A")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	s, _ := c.registry.Get(res.SessionID)
	assert.Len(t, s.Members, 1)
}

func TestJoinBroadcastsToEveryone(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p1", "A")
	require.NoError(t, err)

	b := &fakeConn{id: "b"}
	require.NoError(t, c.Join(b, res.SessionID, "B"))

	// обновление получают все, включая нового участника
	upA := lastUpdate(t, a)
	upB := lastUpdate(t, b)
	assert.Equal(t, upA, upB)
	assert.Equal(t, []string{"A", "B"}, upA.Members)
	assert.Equal(t, 5, upA.Discount)
}

func TestDiscountPerJoinCount(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p1", "u0")
	require.NoError(t, err)

	conns := []*fakeConn{a}
	for i := 1; i < 10; i++ {
		nc := &fakeConn{id: string(rune('b' + i))}
		require.NoError(t, c.Join(nc, res.SessionID, "u"+string(rune('0'+i))))
		conns = append(conns, nc)

		up := lastUpdate(t, a)
		assert.Len(t, up.Members, i+1)
		assert.Equal(t, DiscountFor(i+1), up.Discount)
	}
}

func TestInfoReadOnly(t *testing.T) {
	c, _, _, clock := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p42", "A")
	require.NoError(t, err)

	info, err := c.Info(res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "p42", info.ProductRef)
	assert.Equal(t, []string{"A"}, info.Members)
	assert.EqualValues(t, 900, info.TimeRemaining)

	// timeRemaining монотонно не возрастает и не уходит в минус
	prev := info.TimeRemaining
	for _, d := range []time.Duration{30 * time.Second, 10 * time.Minute, time.Hour} {
		clock.Advance(d)
		info, err = c.Info(res.SessionID)
		require.NoError(t, err)
		assert.LessOrEqual(t, info.TimeRemaining, prev)
		assert.GreaterOrEqual(t, info.TimeRemaining, int64(0))
		prev = info.TimeRemaining
	}

	_, err = c.Info("missing")
	assert.ErrorIs(t, err, ErrMobNotFound)
}

func TestDropSoleMemberDeletesSession(t *testing.T) {
	c, hub, sched, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p1", "A")
	require.NoError(t, err)

	a.reset()
	c.DropConn(a)

	_, err = c.Info(res.SessionID)
	assert.ErrorIs(t, err, ErrMobNotFound)
	assert.Empty(t, a.events, "некому рассылать — broadcast не шлём")
	assert.True(t, sched.timers[0].stopped, "таймер должен быть погашен до удаления")
	assert.Empty(t, hub.rooms)

	// таймер, выстреливший после drop-to-zero, не даёт второго session-end
	sched.Fire(0)
	assert.Zero(t, countEvents(a, EventSessionEnd))
}

func TestDropOneOfSeveral(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p1", "A")
	require.NoError(t, err)

	b := &fakeConn{id: "b"}
	cc := &fakeConn{id: "c"}
	require.NoError(t, c.Join(b, res.SessionID, "B"))
	require.NoError(t, c.Join(cc, res.SessionID, "C"))

	a.reset()
	b.reset()
	cc.reset()
	c.DropConn(b)

	up := lastUpdate(t, a)
	assert.Equal(t, []string{"A", "C"}, up.Members)
	assert.Equal(t, 5, up.Discount)
	assert.Equal(t, up, lastUpdate(t, cc))
	assert.Empty(t, b.events, "ушедший не получает обновлений")
}

func TestExpiryBroadcastsEndOnce(t *testing.T) {
	c, _, sched, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p7", "A")
	require.NoError(t, err)

	b := &fakeConn{id: "b"}
	require.NoError(t, c.Join(b, res.SessionID, "B"))

	sched.Fire(0)

	for _, conn := range []*fakeConn{a, b} {
		require.Equal(t, 1, countEvents(conn, EventSessionEnd))
	}
	end := a.events[len(a.events)-1].Payload.(EndEvent)
	assert.Equal(t, res.SessionID, end.SessionID)
	assert.Equal(t, []string{"A", "B"}, end.Members)
	assert.Equal(t, 5, end.Discount)
	assert.Equal(t, "p7", end.ProductRef)

	_, err = c.Info(res.SessionID)
	assert.ErrorIs(t, err, ErrMobNotFound)

	// повторный join к завершённой сессии
	err = c.Join(&fakeConn{}, res.SessionID, "C")
	assert.ErrorIs(t, err, ErrMobNotFound)
}

func TestDropUnwindsAllSessionsOfConn(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	b := &fakeConn{id: "b"}

	res1, err := c.Start(a, "p1", "A")
	require.NoError(t, err)
	res2, err := c.Start(b, "p2", "B")
	require.NoError(t, err)

	// b состоит в двух сессиях одновременно
	require.NoError(t, c.Join(b, res1.SessionID, "B"))

	c.DropConn(b)

	s1, ok := c.registry.Get(res1.SessionID)
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, s1.UserIDs())

	_, ok = c.registry.Get(res2.SessionID)
	assert.False(t, ok, "вторая сессия опустела и должна быть удалена")
}

func TestDropUnknownConnIsNoop(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	res, err := c.Start(&fakeConn{id: "a"}, "p1", "A")
	require.NoError(t, err)

	c.DropConn(&fakeConn{id: "stranger"})

	s, ok := c.registry.Get(res.SessionID)
	require.True(t, ok)
	assert.Len(t, s.Members, 1)
}

// Сценарий из приёмки: A стартует, B..E входят, затем B отваливается.
func TestScenarioFiveMembersThenDrop(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)

	a := &fakeConn{id: "a"}
	res, err := c.Start(a, "p1", "A")
	require.NoError(t, err)
	require.EqualValues(t, 900, res.TimeRemaining)

	b := &fakeConn{id: "b"}
	require.NoError(t, c.Join(b, res.SessionID, "B"))
	up := lastUpdate(t, a)
	assert.Equal(t, []string{"A", "B"}, up.Members)
	assert.Equal(t, 5, up.Discount)

	for _, u := range []string{"C", "D", "E"} {
		require.NoError(t, c.Join(&fakeConn{id: u}, res.SessionID, u))
	}
	up = lastUpdate(t, a)
	assert.Len(t, up.Members, 5)
	assert.Equal(t, 10, up.Discount)

	c.DropConn(b)
	up = lastUpdate(t, a)
	assert.Len(t, up.Members, 4)
	assert.Equal(t, 5, up.Discount)
}
