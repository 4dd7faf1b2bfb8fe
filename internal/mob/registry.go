package mob

import "github.com/google/uuid"

// Registry — in-memory реестр активных сессий. Не потокобезопасен сам по себе:
// все обращения идут под мьютексом координатора.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create генерирует свежий id и сохраняет сессию. Существующие записи
// никогда не перезаписываются.
func (r *Registry) Create(s *Session) string {
	id := uuid.NewString()
	for {
		if _, ok := r.sessions[id]; !ok {
			break
		}
		id = uuid.NewString()
	}
	s.ID = id
	r.sessions[id] = s

	return id
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Delete идемпотентен: удаление отсутствующего id — no-op.
func (r *Registry) Delete(id string) {
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	return len(r.sessions)
}
