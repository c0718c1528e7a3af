package line

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/effect"
	"github.com/dshills/lined/internal/store"
)

type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}

type session struct {
	store *store.Store[editor.State, editor.Action, editor.Effect]
	out   *output
}

// run feeds in to a line frontend over a fresh store and waits for the
// store to stop.
func run(t *testing.T, start editor.State, in io.Reader, opts ...Option) (session, error) {
	t.Helper()

	out := &output{}
	sink := effect.NewSink(out)
	st := store.New(start, editor.Reduce, effect.NewRunner(sink).Run,
		store.WithStopWhen(editor.State.IsExit))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	storeErr := make(chan error, 1)
	go func() { storeErr <- st.Run(ctx) }()

	err := New(in, sink, st, opts...).Run(ctx)

	select {
	case serr := <-storeErr:
		if serr != nil {
			t.Fatalf("store.Run() error: %v", serr)
		}
	case <-time.After(5 * time.Second):
		if err == nil {
			t.Fatal("store did not stop")
		}
	}
	return session{store: st, out: out}, err
}

func TestFrontend_Session(t *testing.T) {
	in := strings.NewReader("0a\nhello\nworld\n.\n,p\n1p\nq\n")

	s, err := run(t, editor.NewCommandState(), in)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got, want := s.out.String(), "hello\nworld\nworld\n"; got != want {
		t.Errorf("output = %q, expected %q", got, want)
	}
	if got := s.store.State().Text(); got != "hello\nworld\n" {
		t.Errorf("document = %q", got)
	}
	if !s.store.State().IsExit() {
		t.Error("session did not exit")
	}
}

func TestFrontend_Sessions(t *testing.T) {
	tests := []struct {
		name   string
		start  editor.State
		input  string
		output string
		doc    string
	}{
		{
			name:   "append between lines",
			start:  editor.NewCommandState(),
			input:  "0a\nhello\nworld\n.\n0a\nfoo\n.\n,p\nq\n",
			output: "hello\nfoo\nworld\n",
			doc:    "hello\nfoo\nworld\n",
		},
		{
			name:   "print current line after input",
			start:  editor.NewCommandState(),
			input:  "0a\nhello\n.\np\nq\n",
			output: "hello\n",
			doc:    "hello\n",
		},
		{
			name:   "append after current line",
			start:  editor.NewCommandState(),
			input:  "0a\none\nthree\n.\n0\na\ntwo\n.\np\n,p\nq\n",
			output: "two\none\ntwo\nthree\n",
			doc:    "one\ntwo\nthree\n",
		},
		{
			name:   "rejected append in normal mode",
			start:  editor.NewState(),
			input:  "5a\n0a\nx\n.\n,p\nq\n",
			output: "?\nx\n",
			doc:    "x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := run(t, tt.start, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if got := s.out.String(); got != tt.output {
				t.Errorf("output = %q, expected %q", got, tt.output)
			}
			if got := s.store.State().Text(); got != tt.doc {
				t.Errorf("document = %q, expected %q", got, tt.doc)
			}
		})
	}
}

func TestFrontend_ErrorIndicator(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		enabled  bool
		expected string
	}{
		{"unknown command", "zz\nq\n", true, "?\n"},
		{"line past end", "5p\nq\n", true, "?\n"},
		{"append past end", "3a\nq\n", true, "?\n"},
		{"valid then invalid", "0a\nx\n.\n0p\nwhat\nq\n", true, "x\n?\n"},
		{"disabled", "zz\n5p\nq\n", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := run(t, editor.NewCommandState(), strings.NewReader(tt.input), WithErrorIndicator(tt.enabled))
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if got := s.out.String(); got != tt.expected {
				t.Errorf("output = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFrontend_EOFFlushesPendingInput(t *testing.T) {
	s, err := run(t, editor.NewCommandState(), strings.NewReader("a\npending\n"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := s.store.State().Text(); got != "pending\n" {
		t.Errorf("document = %q, expected pending input to be inserted", got)
	}
	if !s.store.State().IsExit() {
		t.Error("session did not exit at end of input")
	}
}

func TestFrontend_NormalModeStart(t *testing.T) {
	s, err := run(t, editor.NewState(), strings.NewReader("a\nhi\n.\n,p\nq\n"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := s.out.String(); got != "hi\n" {
		t.Errorf("output = %q, expected %q", got, "hi\n")
	}
}

func TestFrontend_LinesAfterQuitAreIgnored(t *testing.T) {
	s, err := run(t, editor.NewCommandState(), strings.NewReader("q\n,p\n0a\n"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if s.out.String() != "" {
		t.Errorf("output after quit: %q", s.out.String())
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestFrontend_ReadError(t *testing.T) {
	out := &output{}
	sink := effect.NewSink(out)
	st := store.New(editor.NewCommandState(), editor.Reduce, effect.NewRunner(sink).Run)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx)

	err := New(brokenReader{}, sink, st).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("Run() error = %v, expected the read error", err)
	}
}

func TestFrontend_ContextCancel(t *testing.T) {
	out := &output{}
	sink := effect.NewSink(out)
	st := store.New(editor.NewCommandState(), editor.Reduce, effect.NewRunner(sink).Run)

	ctx, cancel := context.WithCancel(context.Background())
	go st.Run(ctx)

	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- New(pr, sink, st).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, expected nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
