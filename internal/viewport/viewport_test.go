package viewport

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

type names map[int64]string

func (n names) DisplayName(id int64) string {
	if name, ok := n[id]; ok {
		return name
	}
	return store.UnknownName
}

type recordingQueue struct {
	reqs []protocol.Request
}

func (q *recordingQueue) Push(r protocol.Request) {
	q.reqs = append(q.reqs, r)
}

var testNames = names{1: "Al", 2: "Bo"}

func conversationWith(texts ...string) *store.Conversation {
	c := store.NewConversation(9, "chat", store.KindDirect, 2)
	for i, text := range texts {
		// texts are given newest first
		c.Insert(store.Message{ID: int64(len(texts) - i), ChatID: 9, SenderID: int64(i%2 + 1), Text: text})
	}
	return c
}

func TestRender_OneLineMessages(t *testing.T) {
	c := conversationWith("e", "d", "c", "b", "a")
	w := Render(c.Snapshot(3), testNames, 40, 3)

	if w.Height != 3 || w.Shown != 3 {
		t.Fatalf("Height = %d Shown = %d, want 3 and 3", w.Height, w.Shown)
	}
	want := []int64{3, 4, 5}
	for i, line := range w.Lines {
		if line.MessageID != want[i] {
			t.Errorf("line %d shows message %d, want %d", i, line.MessageID, want[i])
		}
	}
	if w.SelectedID != 5 {
		t.Errorf("SelectedID = %d, want 5", w.SelectedID)
	}
	if w.Lines[2].Name != "Al" || w.Lines[2].Text != ": e" {
		t.Errorf("first line split wrong: %+v", w.Lines[2])
	}
}

func TestRender_UnderfilledWhenShort(t *testing.T) {
	c := conversationWith("only")
	w := Render(c.Snapshot(10), testNames, 40, 10)
	if w.Height != 1 || w.Shown != 1 {
		t.Errorf("Height = %d Shown = %d, want 1 and 1", w.Height, w.Shown)
	}
}

func TestRender_TrimsOldestKeepingNewestLines(t *testing.T) {
	long := strings.Repeat("word ", 20)
	c := conversationWith("newest", long)
	const width, height = 12, 4

	w := Render(c.Snapshot(height), testNames, width, height)
	if w.Height != height {
		t.Fatalf("Height = %d, want %d", w.Height, height)
	}
	if w.Shown != 2 {
		t.Errorf("Shown = %d, want 2", w.Shown)
	}

	oldest, _ := c.Get(1)
	full := wrap(oldest, testNames.DisplayName(oldest.SenderID), width)
	kept := height - 1
	if len(full) <= kept {
		t.Fatalf("test message should overflow, wraps to %d lines", len(full))
	}
	for i := 0; i < kept; i++ {
		if w.Lines[i] != full[len(full)-kept+i] {
			t.Errorf("line %d = %+v, want %+v", i, w.Lines[i], full[len(full)-kept+i])
		}
	}
	if w.Lines[height-1].MessageID != 2 {
		t.Errorf("bottom line shows %d, want newest message", w.Lines[height-1].MessageID)
	}
}

func TestRender_ExactFillProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"a", "hello", "telegram", "x", "supercalifragilistic", "ok"}

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(15)
		texts := make([]string, n)
		for i := range texts {
			var parts []string
			for j := 0; j < rng.Intn(12)+1; j++ {
				parts = append(parts, words[rng.Intn(len(words))])
			}
			texts[i] = strings.Join(parts, " ")
		}
		c := conversationWith(texts...)
		width, height := rng.Intn(30)+5, rng.Intn(12)+1

		totalLines := 0
		snap := c.Snapshot(height)
		for _, m := range snap.Messages {
			totalLines += len(wrap(m, testNames.DisplayName(m.SenderID), width))
		}

		w := Render(snap, testNames, width, height)
		if want := min(totalLines, height); w.Height != want || len(w.Lines) != want {
			t.Fatalf("trial %d: Height = %d lines = %d, want %d", trial, w.Height, len(w.Lines), want)
		}
	}
}

func TestRender_ZeroHeight(t *testing.T) {
	c := conversationWith("a")
	w := Render(c.Snapshot(1), testNames, 10, 0)
	if w.Height != 0 || len(w.Lines) != 0 || w.Shown != 0 {
		t.Errorf("unexpected window %+v", w)
	}
}

func TestRender_EditedSuffix(t *testing.T) {
	c := store.NewConversation(9, "chat", store.KindDirect, 2)
	c.Insert(store.Message{ID: 1, SenderID: 1, Text: "fixed", Edited: true})
	w := Render(c.Snapshot(1), testNames, 40, 1)
	if !strings.HasSuffix(w.Lines[0].Text, editedSuffix) {
		t.Errorf("line %q should carry the edited marker", w.Lines[0].Text)
	}
}

// An empty conversation in a 10-line box asks once for the most recent
// history.
func TestRefresh_EmptyConversationRequestsOnce(t *testing.T) {
	c := store.NewConversation(9, "chat", store.KindDirect, 2)
	q := &recordingQueue{}

	Refresh(c, testNames, 40, 10, q)
	Refresh(c, testNames, 40, 10, q)
	Refresh(c, testNames, 40, 10, q)

	if len(q.reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(q.reqs))
	}
	req := q.reqs[0]
	if req.Kind != protocol.KindGetChatHistory {
		t.Errorf("Kind = %v", req.Kind)
	}
	body := decode(t, req)
	if body["from_message_id"] != float64(0) {
		t.Errorf("from_message_id = %v, want 0", body["from_message_id"])
	}
	if body["limit"] != float64(20) {
		t.Errorf("limit = %v, want 20", body["limit"])
	}
	if !c.HasBackfillTag(req.Extra) {
		t.Error("request tag should be recorded on the conversation")
	}
}

func TestRefresh_NextPageStartsAtOldest(t *testing.T) {
	c := store.NewConversation(9, "chat", store.KindDirect, 2)
	q := &recordingQueue{}

	Refresh(c, testNames, 40, 10, q)
	c.ApplyBatch([]store.Message{{ID: 30, SenderID: 1, Text: "a"}, {ID: 29, SenderID: 2, Text: "b"}})
	Refresh(c, testNames, 40, 10, q)

	if len(q.reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(q.reqs))
	}
	if body := decode(t, q.reqs[1]); body["from_message_id"] != float64(29) {
		t.Errorf("from_message_id = %v, want 29", body["from_message_id"])
	}
}

func TestRefresh_EndOfHistoryStopsRequests(t *testing.T) {
	c := store.NewConversation(9, "chat", store.KindDirect, 2)
	q := &recordingQueue{}
	Refresh(c, testNames, 40, 10, q)
	c.MarkEndOfHistory()

	for i := 0; i < 5; i++ {
		ScrollOlder(c)
		Refresh(c, testNames, 40, 10, q)
	}
	if len(q.reqs) != 1 {
		t.Errorf("got %d requests, want 1", len(q.reqs))
	}
}

func TestRefresh_FullBoxWithBufferDoesNotRequest(t *testing.T) {
	texts := make([]string, 30)
	for i := range texts {
		texts[i] = "m"
	}
	c := conversationWith(texts...)
	q := &recordingQueue{}

	w := Refresh(c, testNames, 40, 10, q)
	if w.Shown != 10 {
		t.Fatalf("Shown = %d, want 10", w.Shown)
	}
	if c.View().Visible != 10 {
		t.Errorf("Visible = %d, want 10", c.View().Visible)
	}
	if len(q.reqs) != 0 {
		t.Errorf("got %d requests, want none", len(q.reqs))
	}

	// Scrolling up until fewer than two pages remain triggers a request.
	for i := 0; i < 12; i++ {
		ScrollOlder(c)
	}
	Refresh(c, testNames, 40, 10, q)
	if len(q.reqs) != 1 {
		t.Errorf("got %d requests, want 1", len(q.reqs))
	}
}

func TestScrollBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40)
		texts := make([]string, n)
		for i := range texts {
			texts[i] = "m"
		}
		c := conversationWith(texts...)
		c.UpdateView(func(v *store.ViewState, total int) { v.Visible = rng.Intn(10) })

		ops := []func(*store.Conversation){ScrollOlder, ScrollNewer, PageOlder, PageNewer}
		for i := 0; i < 200; i++ {
			ops[rng.Intn(len(ops))](c)
			off := c.View().BottomOffset
			if off < 0 || off > n {
				t.Fatalf("trial %d: offset %d outside [0, %d]", trial, off, n)
			}
		}
	}
}

func TestScrollNewer_StepsTowardBottom(t *testing.T) {
	texts := make([]string, 50)
	for i := range texts {
		texts[i] = "m"
	}
	c := conversationWith(texts...)
	c.UpdateView(func(v *store.ViewState, total int) {
		v.Visible = 5
		v.BottomOffset = 30
	})

	ScrollNewer(c)
	if v := c.View(); v.BottomOffset != 29 {
		t.Errorf("unexpected view %+v", v)
	}

	c.UpdateView(func(v *store.ViewState, total int) { v.BottomOffset = 1 })
	ScrollNewer(c)
	ScrollNewer(c)
	if v := c.View(); v.BottomOffset != 0 {
		t.Errorf("scrolling past the newest message: %+v", v)
	}
}

func TestPageNewer_FlushesToBottom(t *testing.T) {
	texts := make([]string, 50)
	for i := range texts {
		texts[i] = "m"
	}
	c := conversationWith(texts...)
	c.UpdateView(func(v *store.ViewState, total int) {
		v.Visible = 10
		v.BottomOffset = 25
	})

	PageNewer(c)
	if c.View().BottomOffset != 15 {
		t.Errorf("offset = %d, want 15", c.View().BottomOffset)
	}
	PageNewer(c)
	PageNewer(c)
	if v := c.View(); v.BottomOffset != 0 {
		t.Errorf("unexpected view %+v", v)
	}

	PageOlder(c)
	if c.View().BottomOffset != 10 {
		t.Errorf("offset = %d, want 10", c.View().BottomOffset)
	}
	ScrollToBottom(c)
	if c.View().BottomOffset != 0 {
		t.Error("ScrollToBottom should reset the offset")
	}
}

func TestScrollOlder_CapsAtOldest(t *testing.T) {
	c := conversationWith("a", "b", "c")
	for i := 0; i < 10; i++ {
		ScrollOlder(c)
	}
	if c.View().BottomOffset != 2 {
		t.Errorf("offset = %d, want 2", c.View().BottomOffset)
	}

	empty := store.NewConversation(1, "e", store.KindGroup, 0)
	PageOlder(empty)
	if empty.View().BottomOffset != 0 {
		t.Error("empty conversation must stay at offset 0")
	}
}
