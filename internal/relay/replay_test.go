package relay

import "testing"

func env(num int, to ...string) *Envelope {
	return &Envelope{Intent: Peer, Num: num, To: to}
}

func TestReplayBuffer_CoversFromEmpty(t *testing.T) {
	b := newReplayBuffer(4)
	if !b.coversFrom(0) {
		t.Errorf("empty buffer should cover any lastNum")
	}
	if !b.coversFrom(99) {
		t.Errorf("empty buffer should cover any lastNum")
	}
}

func TestReplayBuffer_CoversFromBoundary(t *testing.T) {
	b := newReplayBuffer(4)
	b.add(env(5, "a"), []byte("five"))
	b.add(env(6, "a"), []byte("six"))

	if !b.coversFrom(4) {
		t.Errorf("lastNum one below earliest should be covered")
	}
	if b.coversFrom(3) {
		t.Errorf("lastNum two below earliest should not be covered")
	}
}

func TestReplayBuffer_Eviction(t *testing.T) {
	b := newReplayBuffer(2)
	b.add(env(1, "a"), []byte("one"))
	b.add(env(2, "a"), []byte("two"))
	b.add(env(3, "a"), []byte("three"))

	earliest, ok := b.earliestNum()
	if !ok || earliest != 2 {
		t.Errorf("expected earliest 2 after eviction, got %d (ok=%v)", earliest, ok)
	}
}

func TestReplayBuffer_SinceFiltersByRecipient(t *testing.T) {
	b := newReplayBuffer(8)
	b.add(env(1, "a", "b"), []byte("to-both"))
	b.add(env(2, "a"), []byte("to-a-only"))
	b.add(env(3, "b"), []byte("to-b-only"))

	aMsgs := b.since(0, "a")
	if len(aMsgs) != 2 {
		t.Fatalf("expected 2 messages for a, got %d", len(aMsgs))
	}
	if string(aMsgs[0]) != "to-both" || string(aMsgs[1]) != "to-a-only" {
		t.Errorf("unexpected order/content: %v", aMsgs)
	}
}

func TestReplayBuffer_SinceRespectsLastNum(t *testing.T) {
	b := newReplayBuffer(8)
	b.add(env(1, "a"), []byte("one"))
	b.add(env(2, "a"), []byte("two"))

	msgs := b.since(1, "a")
	if len(msgs) != 1 || string(msgs[0]) != "two" {
		t.Errorf("expected only envelope after Num 1, got %v", msgs)
	}
}

func TestEnvelope_RecipientsIsTo(t *testing.T) {
	e := &Envelope{To: []string{"a", "b"}}
	got := e.Recipients()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Recipients() = %v, want [a b]", got)
	}
}
