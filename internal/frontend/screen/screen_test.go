package screen

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/effect"
	"github.com/dshills/lined/internal/engine/rope"
	"github.com/dshills/lined/internal/input/key"
	"github.com/dshills/lined/internal/store"
)

type editorStore = store.Store[editor.State, editor.Action, editor.Effect]

type harness struct {
	sim   tcell.SimulationScreen
	store *editorStore
	done  chan error
}

func start(t *testing.T) *harness {
	t.Helper()

	msgs := NewMessages()
	st := store.New(editor.NewState(), editor.Reduce, effect.NewRunner(effect.NewSink(msgs)).Run,
		store.WithStopWhen(editor.State.IsExit))
	sim := tcell.NewSimulationScreen("UTF-8")

	ctx, cancel := context.WithCancel(context.Background())
	go st.Run(ctx)

	h := &harness{sim: sim, store: st, done: make(chan error, 1)}
	go func() { h.done <- New(sim, st, WithMessages(msgs)).Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})

	h.waitRow(t, -2, "NORMAL")
	return h
}

// row returns the text of row y; negative y counts from the bottom.
func (h *harness) row(y int) string {
	width, height := h.sim.Size()
	if y < 0 {
		y += height
	}
	var sb strings.Builder
	for x := 0; x < width; x++ {
		mainc, _, _, w := h.sim.GetContent(x, y) //nolint:staticcheck // GetContent is the simulation API
		if mainc == 0 {
			mainc = ' '
		}
		sb.WriteRune(mainc)
		if w > 1 {
			x += w - 1
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func (h *harness) waitRow(t *testing.T, y int, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(h.row(y), want) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("row %d = %q, expected it to contain %q", y, h.row(y), want)
}

func (h *harness) typeKeys(t *testing.T, specs string) {
	t.Helper()
	events, err := key.ParseAll(specs)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range events {
		switch {
		case ev.Key == key.KeyEnter:
			h.sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		case ev.Key == key.KeyEscape:
			h.sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
		case ev.Key == key.KeySpace:
			h.sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
		case ev.IsCtrl('c'):
			h.sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
		default:
			h.sim.InjectKey(tcell.KeyRune, ev.Rune, tcell.ModNone)
		}
	}
}

func TestFrontend_InsertAndQuit(t *testing.T) {
	h := start(t)

	h.typeKeys(t, "a h i")
	h.waitRow(t, -2, "INSERT")
	h.waitRow(t, 0, "hi")

	h.typeKeys(t, "<Esc>")
	h.waitRow(t, -2, "NORMAL")
	if got := h.store.State().Text(); got != "hi" {
		t.Errorf("document = %q, expected %q", got, "hi")
	}

	h.typeKeys(t, ": q")
	h.waitRow(t, -1, ":q")
	h.typeKeys(t, "Enter")

	select {
	case err := <-h.done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
		h.done <- nil
	case <-time.After(5 * time.Second):
		t.Fatal("frontend did not stop after :q")
	}
	if !h.store.State().IsExit() {
		t.Error("store is not in exit mode")
	}
}

func TestFrontend_UnknownCommand(t *testing.T) {
	h := start(t)

	h.typeKeys(t, ": w a t")
	h.waitRow(t, -1, ":wat")
	h.typeKeys(t, "Enter")
	h.waitRow(t, -1, "?")
	h.waitRow(t, -2, "NORMAL")
}

func TestFrontend_PrintShowsMessage(t *testing.T) {
	h := start(t)

	h.typeKeys(t, "a o n e <Esc>")
	h.waitRow(t, 0, "one")
	h.typeKeys(t, ": 0 p Enter")
	h.waitRow(t, -1, "one")
}

func TestFrontend_ConfirmExit(t *testing.T) {
	h := start(t)

	h.typeKeys(t, "<C-c>")
	h.waitRow(t, -2, "CONFIRM")
	h.waitRow(t, -1, "quit?")
	h.typeKeys(t, "n")
	h.waitRow(t, -2, "NORMAL")

	h.typeKeys(t, "<C-c> y")
	select {
	case err := <-h.done:
		h.done <- err
	case <-time.After(5 * time.Second):
		t.Fatal("frontend did not stop after confirming")
	}
}

func TestDraw_WideRunes(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	defer sim.Fini()
	sim.SetSize(20, 5)

	s := editor.NewState()
	s.Doc = rope.FromString("日本語\nx\ty")
	draw(sim, view{state: s})

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '日'},
		{2, 0, '本'},
		{4, 0, '語'},
		{0, 1, 'x'},
		{4, 1, 'y'},
		{0, 2, '~'},
	}
	for _, tt := range tests {
		mainc, _, _, _ := sim.GetContent(tt.x, tt.y) //nolint:staticcheck // GetContent is the simulation API
		if mainc != tt.want {
			t.Errorf("cell (%d,%d) = %q, expected %q", tt.x, tt.y, mainc, tt.want)
		}
	}
}

func TestScroll(t *testing.T) {
	tests := []struct {
		top, cursor, rows, want uint32
	}{
		{0, 0, 10, 0},
		{0, 9, 10, 0},
		{0, 10, 10, 1},
		{5, 2, 10, 2},
		{5, 30, 10, 21},
	}
	for _, tt := range tests {
		if got := scroll(tt.top, tt.cursor, tt.rows); got != tt.want {
			t.Errorf("scroll(%d, %d, %d) = %d, expected %d", tt.top, tt.cursor, tt.rows, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	s := editor.NewState()
	s = editor.Reduce(s, editor.StartAppendingInput{Line: 0})
	s = editor.Reduce(s, editor.AddChar{Char: 'a'})
	s = editor.Reduce(s, editor.Enter{})
	s = editor.Reduce(s, editor.AddChar{Char: 'b'})

	p := preview(s)
	if p.Text() != "a\nb" {
		t.Errorf("preview text = %q", p.Text())
	}
	if p.Cursor != (editor.Cursor{Line: 1, Column: 1}) {
		t.Errorf("preview cursor = %+v", p.Cursor)
	}
	if !p.Mode.Is(editor.ModeInput) {
		t.Errorf("preview mode = %s", p.Mode)
	}
	if s.Text() != "" {
		t.Error("preview changed the committed document")
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a", true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space", true},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter", true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc", true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "C-c", true},
		{tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModNone), "C-d", true},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), "", false},
	}
	for _, tt := range tests {
		got, ok := convertKey(tt.ev)
		if ok != tt.ok {
			t.Errorf("convertKey(%v) ok = %t, expected %t", tt.ev.Name(), ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("convertKey(%v) = %q, expected %q", tt.ev.Name(), got.String(), tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	m := NewMessages()
	notified := 0
	m.setNotify(func() { notified++ })

	if _, err := m.Write([]byte("first\nsecond\n")); err != nil {
		t.Fatal(err)
	}
	if m.Last() != "second" {
		t.Errorf("Last() = %q, expected %q", m.Last(), "second")
	}
	if notified != 1 {
		t.Errorf("notified %d times, expected 1", notified)
	}
	m.clear()
	if m.Last() != "" {
		t.Errorf("Last() after clear = %q", m.Last())
	}
}
