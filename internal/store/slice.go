// Package store holds the client state: one Slice per screen, each updated
// only by its own operations. Every asynchronous operation takes a ticket
// when it starts and commits through it when the response arrives; commits
// from superseded tickets are dropped.
package store

import (
	"log/slog"
	"sync"
)

// Status is the lifecycle of one operation.
type Status string

// Operation statuses.
const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Change is sent to subscribers after every applied update.
type Change struct {
	Slice string `json:"slice"`
	Op    string `json:"op"`
	Epoch uint64 `json:"epoch"`
}

// Ticket identifies one in-flight operation.
type Ticket struct {
	op    string
	epoch uint64
	seq   uint64 // zero for operations that only guard against Reset
}

// Op returns the operation name the ticket was issued for.
func (t Ticket) Op() string {
	return t.op
}

// Slice is a mutex-guarded state value with generation checking. Readers get
// copies produced by the clone function.
type Slice[T any] struct {
	name   string
	clone  func(T) T
	logger *slog.Logger

	mu    sync.Mutex
	state T
	epoch uint64
	seqs  map[string]uint64

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int
}

// NewSlice creates a slice holding initial.
func NewSlice[T any](name string, initial T, clone func(T) T, logger *slog.Logger) *Slice[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Slice[T]{
		name:   name,
		clone:  clone,
		logger: logger,
		state:  clone(initial),
		epoch:  1,
		seqs:   map[string]uint64{},
		subs:   map[int]chan Change{},
	}
}

// Name returns the slice name.
func (s *Slice[T]) Name() string {
	return s.name
}

// Get returns a copy of the current state.
func (s *Slice[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clone(s.state)
}

// Epoch returns the current generation. It only moves on Reset.
func (s *Slice[T]) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Begin starts a latest-wins operation: any earlier ticket for the same op
// is superseded. start, if non-nil, is applied immediately (typically
// setting a loading status).
func (s *Slice[T]) Begin(op string, start func(*T)) Ticket {
	s.mu.Lock()
	s.seqs[op]++
	t := Ticket{op: op, epoch: s.epoch, seq: s.seqs[op]}
	if start != nil {
		start(&s.state)
	}
	s.mu.Unlock()

	s.notify(op, t.epoch)
	return t
}

// Attach starts an operation that may run concurrently with others of the
// same op (such as two skill additions). Only Reset invalidates it.
func (s *Slice[T]) Attach(op string, start func(*T)) Ticket {
	s.mu.Lock()
	t := Ticket{op: op, epoch: s.epoch}
	if start != nil {
		start(&s.state)
	}
	s.mu.Unlock()

	s.notify(op, t.epoch)
	return t
}

// Current reports whether t would still be accepted by Commit.
func (s *Slice[T]) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(t)
}

func (s *Slice[T]) currentLocked(t Ticket) bool {
	if t.epoch != s.epoch {
		return false
	}
	return t.seq == 0 || s.seqs[t.op] == t.seq
}

// Commit applies fn if t is still current and reports whether it did.
func (s *Slice[T]) Commit(t Ticket, fn func(*T)) bool {
	s.mu.Lock()
	if !s.currentLocked(t) {
		epoch := s.epoch
		s.mu.Unlock()
		s.logger.Debug("dropping stale response",
			"slice", s.name, "op", t.op, "ticket_epoch", t.epoch, "epoch", epoch)
		return false
	}
	fn(&s.state)
	s.mu.Unlock()

	s.notify(t.op, t.epoch)
	return true
}

// Update applies a local, synchronous mutation.
func (s *Slice[T]) Update(op string, fn func(*T)) {
	s.mu.Lock()
	fn(&s.state)
	epoch := s.epoch
	s.mu.Unlock()

	s.notify(op, epoch)
}

// Reset replaces the state and invalidates every outstanding ticket.
func (s *Slice[T]) Reset(initial T) {
	s.mu.Lock()
	s.state = s.clone(initial)
	s.epoch++
	s.seqs = map[string]uint64{}
	epoch := s.epoch
	s.mu.Unlock()

	s.notify("reset", epoch)
}

// Subscribe returns a channel of changes and a cancel function. A subscriber
// that falls more than buffer changes behind misses notifications rather
// than blocking writers.
func (s *Slice[T]) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Slice[T]) notify(op string, epoch uint64) {
	c := Change{Slice: s.name, Op: op, Epoch: epoch}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
