package mob

import "time"

// Conn — транспортное соединение участника. Реализуется в transport/ws.
type Conn interface {
	Send(event string, payload any) error
}

// Broadcaster — комнаты рассылки, по одной на сессию.
type Broadcaster interface {
	Join(sessionID string, c Conn)
	Leave(sessionID string, c Conn)
	Broadcast(sessionID, event string, payload any)
}

// Timer — handle отложенного колбэка истечения сессии.
type Timer interface {
	Stop() bool
}

// Scheduler абстрагирует time.AfterFunc, чтобы тесты могли управлять временем.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

type RealScheduler struct{}

func (RealScheduler) Schedule(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type Participant struct {
	UserID string
	Conn   Conn
}

// Session — один "моб". Владелец времени жизни — Registry.
type Session struct {
	ID         string
	ProductRef string
	Members    []Participant // порядок вставки = порядок join
	Discount   int
	StartedAt  time.Time
	Duration   time.Duration

	expiry Timer
}

func (s *Session) memberIndex(userID string) int {
	for i, m := range s.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// TimeRemaining — остаток в секундах, не бывает отрицательным.
func (s *Session) TimeRemaining(now time.Time) int64 {
	rem := s.Duration - now.Sub(s.StartedAt)
	if rem < 0 {
		rem = 0
	}
	return int64(rem / time.Second)
}

// UserIDs — снапшот участников для payload-ов.
func (s *Session) UserIDs() []string {
	out := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		out = append(out, m.UserID)
	}
	return out
}
