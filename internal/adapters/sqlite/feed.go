package sqlite

import (
	"sync"

	"segnalibro/internal/domain"
)

// feed fans change events out to subscribers. Each subscriber owns an
// unbounded FIFO drained by its own pump goroutine, so emitters never
// block and every subscriber sees events in emit order.
type feed struct {
	mu     sync.Mutex
	subs   []*subscriber
	closed bool
}

func newFeed() *feed {
	return &feed{}
}

type subscriber struct {
	mu    sync.Mutex
	queue []domain.Event
	wake  chan struct{}
	out   chan domain.Event
	done  chan struct{}
	once  sync.Once
}

func (f *feed) subscribe() (<-chan domain.Event, func()) {
	sub := &subscriber{
		wake: make(chan struct{}, 1),
		out:  make(chan domain.Event),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(sub.out)
		return sub.out, func() {}
	}
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	go sub.pump()
	return sub.out, func() {
		f.mu.Lock()
		for i, s := range f.subs {
			if s == sub {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		sub.stop()
	}
}

func (f *feed) emit(ev domain.Event) {
	f.mu.Lock()
	subs := append([]*subscriber(nil), f.subs...)
	f.mu.Unlock()
	for _, sub := range subs {
		sub.push(ev)
	}
}

func (f *feed) close() {
	f.mu.Lock()
	subs := f.subs
	f.subs = nil
	f.closed = true
	f.mu.Unlock()
	for _, sub := range subs {
		sub.stop()
	}
}

func (s *subscriber) push(ev domain.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscriber) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			ev := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
		}
	}
}
