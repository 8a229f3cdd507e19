package store

import (
	"math/rand"
	"testing"
)

func newChats(n int) *Chats {
	r := NewChats()
	for i := 1; i <= n; i++ {
		c := NewConversation(int64(i), "chat", KindGroup, 0)
		c.Touch(int64(100 - i))
		r.Add(c)
	}
	return r
}

func TestChats_AddSelectsFirst(t *testing.T) {
	r := NewChats()
	if _, ok := r.Selected(); ok {
		t.Error("empty registry should have no selection")
	}
	if r.SelectedIndex() != -1 {
		t.Errorf("SelectedIndex() = %d, want -1", r.SelectedIndex())
	}

	r.Add(NewConversation(7, "a", KindDirect, 1))
	if c, ok := r.Selected(); !ok || c.ID != 7 {
		t.Error("first conversation should be selected")
	}
	if r.Add(NewConversation(7, "dup", KindDirect, 1)) {
		t.Error("adding a known id should be a no-op")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

// Selected index 2 of 5 moves to index 0 after a re-sort.
func TestChats_SortKeepsSelectionIdentity(t *testing.T) {
	r := newChats(5)
	r.SetSelected(2)
	sel, _ := r.Selected()

	sel.Touch(1000)
	r.Sort()

	after, _ := r.Selected()
	if after.ID != sel.ID {
		t.Errorf("selected conversation changed from %d to %d", sel.ID, after.ID)
	}
	if r.SelectedIndex() != 0 {
		t.Errorf("SelectedIndex() = %d, want 0", r.SelectedIndex())
	}
}

func TestChats_SortPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		r := newChats(8)
		r.SetSelected(rng.Intn(8))
		sel, _ := r.Selected()

		for _, c := range r.List() {
			c.Touch(int64(rng.Intn(10000) + 1000))
		}
		r.Sort()

		after, _ := r.Selected()
		if after.ID != sel.ID {
			t.Fatalf("trial %d: selection changed from %d to %d", trial, sel.ID, after.ID)
		}
		list := r.List()
		for i := 1; i < len(list); i++ {
			if list[i-1].LastActivity() < list[i].LastActivity() {
				t.Fatalf("trial %d: not sorted at %d", trial, i)
			}
		}
	}
}

func TestChats_SortStableOnTies(t *testing.T) {
	r := NewChats()
	for i := 1; i <= 4; i++ {
		r.Add(NewConversation(int64(i), "chat", KindGroup, 0))
	}
	r.Sort()
	for i, c := range r.List() {
		if c.ID != int64(i+1) {
			t.Errorf("index %d has id %d, want %d", i, c.ID, i+1)
		}
	}
}

func TestChats_NextPrevWrap(t *testing.T) {
	r := newChats(3)
	r.SetSelected(2)
	r.Next()
	if r.SelectedIndex() != 0 {
		t.Errorf("Next from last = %d, want 0", r.SelectedIndex())
	}
	r.Prev()
	if r.SelectedIndex() != 2 {
		t.Errorf("Prev from first = %d, want 2", r.SelectedIndex())
	}
}

func TestChats_EmptyScrollIsNoop(t *testing.T) {
	r := NewChats()
	r.Next()
	r.Prev()
	if r.SelectedIndex() != -1 {
		t.Errorf("SelectedIndex() = %d, want -1", r.SelectedIndex())
	}
	if r.SetSelected(0) {
		t.Error("SetSelected on empty registry should fail")
	}
}

func TestChats_GetAndAt(t *testing.T) {
	r := newChats(3)
	if c, ok := r.Get(2); !ok || c.ID != 2 {
		t.Error("Get(2) failed")
	}
	if _, ok := r.Get(99); ok {
		t.Error("Get(99) should fail")
	}
	if _, ok := r.At(3); ok {
		t.Error("At(3) should be out of range")
	}
	if c, ok := r.At(0); !ok || c.ID != 1 {
		t.Error("At(0) should be the most recent chat")
	}
}

func TestChats_ByBackfillTag(t *testing.T) {
	r := newChats(3)
	c, _ := r.Get(2)
	c.ReserveBackfill()
	c.SetBackfillTag("abc")

	got, ok := r.ByBackfillTag("abc")
	if !ok || got.ID != 2 {
		t.Error("ByBackfillTag should find chat 2")
	}
	if _, ok := r.ByBackfillTag("nope"); ok {
		t.Error("unknown tag should not match")
	}
	if _, ok := r.ByBackfillTag(""); ok {
		t.Error("empty tag should not match")
	}
}
