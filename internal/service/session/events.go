package session

import "github.com/liangzhu/ds-tutor/backend/internal/model/chat"

// Event kinds pushed to live listeners.
const (
	EventTurnAppended = "turn"
	EventCleared      = "cleared"
)

// Event tells live listeners the transcript changed so they can re-render.
type Event struct {
	Kind string     `json:"kind"`
	Turn *chat.Turn `json:"turn,omitempty"`
}

// Subscribe registers a listener for transcript events. The returned cancel
// function must be called when the listener goes away. Slow listeners drop
// events rather than stall a mutation.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 8)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Service) broadcast(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
