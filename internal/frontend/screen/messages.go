package screen

import (
	"strings"
	"sync"
)

// Messages is an io.Writer that keeps the last line written to it.
// Effects write printed text here while the screen owns the terminal.
type Messages struct {
	mu     sync.Mutex
	last   string
	notify func()
}

// NewMessages creates an empty message buffer.
func NewMessages() *Messages {
	return &Messages{}
}

// Write records the last line of p.
func (m *Messages) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}

	m.mu.Lock()
	m.last = text
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		notify()
	}
	return len(p), nil
}

// Last returns the last line written.
func (m *Messages) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Messages) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = ""
}

func (m *Messages) setNotify(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = fn
}
