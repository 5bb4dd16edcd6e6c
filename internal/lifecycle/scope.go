// Package lifecycle ties asynchronous results to the component that started
// them. A Scope hands out Tokens; results are applied only while their token
// is still valid, so nothing lands on a torn-down or superseded component.
package lifecycle

import (
	"context"
	"sync"
)

// Op names a kind of asynchronous operation.
type Op string

const (
	OpLoad  Op = "load"
	OpSave  Op = "save"
	OpProbe Op = "probe"
	OpItems Op = "items"
)

// Token identifies one started operation. Ctx is cancelled when the scope
// closes or when a newer operation of the same kind begins.
type Token struct {
	Op  Op
	Gen uint64
	Ctx context.Context
}

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Scope owns the contexts of a component's in-flight operations.
// The zero value is not usable; call NewScope.
type Scope struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	slots  map[Op]*slot
	closed bool
}

// NewScope creates a scope rooted at parent.
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		ctx:    ctx,
		cancel: cancel,
		slots:  make(map[Op]*slot),
	}
}

// Begin starts an operation of kind op, superseding any earlier one of the
// same kind. On a closed scope the returned token is already invalid and its
// context already cancelled.
func (s *Scope) Begin(op Op) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[op]
	if !ok {
		sl = &slot{}
		s.slots[op] = sl
	}
	if sl.cancel != nil {
		sl.cancel()
	}
	sl.gen++

	ctx, cancel := context.WithCancel(s.ctx)
	sl.cancel = cancel
	if s.closed {
		cancel()
	}
	return Token{Op: op, Gen: sl.gen, Ctx: ctx}
}

// Valid reports whether tok is the latest token of its kind and the scope is
// still open.
func (s *Scope) Valid(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	sl, ok := s.slots[tok.Op]
	return ok && sl.gen == tok.Gen
}

// Finish releases the context of tok once its result has been applied.
// Stale tokens are ignored.
func (s *Scope) Finish(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[tok.Op]
	if !ok || sl.gen != tok.Gen || sl.cancel == nil {
		return
	}
	sl.cancel()
	sl.cancel = nil
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every in-flight context and invalidates every token.
// It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, sl := range s.slots {
		if sl.cancel != nil {
			sl.cancel()
			sl.cancel = nil
		}
	}
	s.cancel()
}
