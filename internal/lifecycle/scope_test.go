package lifecycle

import (
	"context"
	"testing"
)

func TestScope_BeginSupersedes(t *testing.T) {
	s := NewScope(context.Background())

	first := s.Begin(OpSave)
	second := s.Begin(OpSave)

	if s.Valid(first) {
		t.Error("older token of the same kind should be invalid")
	}
	if !s.Valid(second) {
		t.Error("latest token should be valid")
	}
	if first.Ctx.Err() == nil {
		t.Error("superseded token's context should be cancelled")
	}
	if second.Ctx.Err() != nil {
		t.Error("latest token's context should be live")
	}
}

func TestScope_KindsAreIndependent(t *testing.T) {
	s := NewScope(context.Background())

	save := s.Begin(OpSave)
	probe := s.Begin(OpProbe)

	if !s.Valid(save) || !s.Valid(probe) {
		t.Error("tokens of different kinds should not invalidate each other")
	}
}

func TestScope_Close(t *testing.T) {
	s := NewScope(context.Background())
	load := s.Begin(OpLoad)
	items := s.Begin(OpItems)

	s.Close()
	s.Close()

	if !s.Closed() {
		t.Error("Closed() = false after Close")
	}
	for _, tok := range []Token{load, items} {
		if s.Valid(tok) {
			t.Errorf("token %s should be invalid after Close", tok.Op)
		}
		if tok.Ctx.Err() == nil {
			t.Errorf("token %s context should be cancelled after Close", tok.Op)
		}
	}

	late := s.Begin(OpLoad)
	if s.Valid(late) {
		t.Error("tokens begun after Close must be invalid")
	}
	if late.Ctx.Err() == nil {
		t.Error("tokens begun after Close must carry a cancelled context")
	}
}

func TestScope_Finish(t *testing.T) {
	s := NewScope(context.Background())
	tok := s.Begin(OpProbe)

	s.Finish(tok)

	if tok.Ctx.Err() == nil {
		t.Error("Finish should release the token's context")
	}
	if !s.Valid(tok) {
		t.Error("Finish does not supersede the token")
	}
}

func TestScope_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScope(parent)
	tok := s.Begin(OpLoad)

	cancel()

	if tok.Ctx.Err() == nil {
		t.Error("cancelling the parent should cancel operation contexts")
	}
}
