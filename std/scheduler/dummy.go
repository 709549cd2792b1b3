package scheduler

import (
	"sync"
	"time"

	"github.com/ndn-go/face/std/types/priority_queue"
)

type dummyEvent struct {
	at   time.Time
	f    func()
	done bool
}

// DummyScheduler is a Scheduler whose clock only moves when
// MoveForward is called, letting tests drive PIT timeout and
// registration-timeout behavior deterministically instead of racing
// real wall-clock timers. Pending events sit in a min-priority queue
// ordered by deadline, the same structure the teacher's
// `std/types/priority_queue` gives a timer wheel, so a MoveForward
// that spans several deadlines always fires them earliest-first.
// Cancellation is lazy: Token.Cancel just marks the event done, and
// MoveForward skips done events as it pops them off the queue.
type DummyScheduler struct {
	mu     sync.Mutex
	now    time.Time
	events priority_queue.Queue[*dummyEvent, int64]
	seq    uint32
}

// NewDummyScheduler starts the clock at the Unix epoch, a fixed
// starting point for deterministic test fixtures.
func NewDummyScheduler() *DummyScheduler {
	return &DummyScheduler{
		now:    time.Unix(0, 0).UTC(),
		events: priority_queue.New[*dummyEvent, int64](),
	}
}

func (s *DummyScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *DummyScheduler) Schedule(d time.Duration, f func()) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := &dummyEvent{at: s.now.Add(d), f: f}
	s.events.Push(ev, ev.at.UnixNano())
	return &dummyToken{ev: ev}
}

// Nonce returns a deterministic, incrementing 4-byte value rather than
// a random one: tests that assert on observed nonces need them to be
// reproducible across runs.
func (s *DummyScheduler) Nonce() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// MoveForward advances the simulated clock by d and fires, in
// scheduled-time order, every pending event whose deadline is now at
// or before the new time.
func (s *DummyScheduler) MoveForward(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	deadline := s.now.UnixNano()
	var due []*dummyEvent
	for s.events.Len() > 0 && s.events.PeekPriority() <= deadline {
		ev := s.events.Pop()
		if !ev.done {
			due = append(due, ev)
		}
	}
	s.mu.Unlock()

	for _, ev := range due {
		s.mu.Lock()
		fire := !ev.done
		ev.done = true
		s.mu.Unlock()
		if fire && ev.f != nil {
			ev.f()
		}
	}
}

type dummyToken struct {
	ev *dummyEvent
}

func (t *dummyToken) Cancel() {
	t.ev.done = true
}
