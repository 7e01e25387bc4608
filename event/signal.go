// Package event provides typed, synchronous observer lists.
package event

// Signal delivers values of type T to its subscribers in subscription order.
// It is not safe for concurrent use; editor state lives on the main thread.
type Signal[T any] struct {
	nextId   int
	handlers []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.nextId++
	id := s.nextId
	s.handlers = append(s.handlers, subscription[T]{id: id, fn: fn})
	return func() {
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler that was subscribed when Emit started.
func (s *Signal[T]) Emit(value T) {
	if len(s.handlers) == 0 {
		return
	}
	snapshot := make([]subscription[T], len(s.handlers))
	copy(snapshot, s.handlers)
	for _, h := range snapshot {
		h.fn(value)
	}
}

// Len returns the number of live subscriptions.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
