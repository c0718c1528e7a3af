package screen

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/lined/internal/editor"
)

const tabWidth = 4

var (
	styleText   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// view holds what is needed to draw one frame.
type view struct {
	state editor.State
	// unknown is set when the last submitted command was not understood.
	unknown bool
	// message is the last printed line.
	message string
	// top is the first document line shown.
	top uint32
}

// preview returns the state as it would look with pending input inserted,
// so typed text is visible before it is committed.
func preview(s editor.State) editor.State {
	if s.Mode.Is(editor.ModeInput) && !s.Pending.IsEmpty() {
		p := editor.Reduce(s, editor.ChangeToNormalMode{})
		p.Mode = s.Mode
		return p
	}
	return s
}

// draw renders v onto scr: document lines, a status line and a command
// line. It returns the updated scroll position.
func draw(scr tcell.Screen, v view) uint32 {
	scr.Clear()
	width, height := scr.Size()
	if width <= 0 || height < 3 {
		scr.Show()
		return v.top
	}

	s := preview(v.state)
	rows := uint32(height - 2)
	top := scroll(v.top, s.Cursor.Line, rows)

	for row := uint32(0); row < rows; row++ {
		line := top + row
		if line >= s.LineCount() {
			putString(scr, 0, int(row), width, "~", styleText)
			continue
		}
		putString(scr, 0, int(row), width, s.Doc.LineText(line), styleText)
	}

	drawStatus(scr, width, height-2, s)
	drawCommand(scr, width, height-1, s, v)

	if s.Mode.Is(editor.ModeCommand) {
		scr.ShowCursor(1+stringWidth(s.Mode.Command), height-1)
	} else {
		line := s.Doc.LineText(s.Cursor.Line)
		x := stringWidth(prefix(line, s.Cursor.Column))
		scr.ShowCursor(x, int(s.Cursor.Line-top))
	}

	scr.Show()
	return top
}

func drawStatus(scr tcell.Screen, width, y int, s editor.State) {
	for x := 0; x < width; x++ {
		scr.SetContent(x, y, ' ', nil, styleStatus)
	}
	putString(scr, 1, y, width, s.Mode.DisplayName(), styleStatus)

	pos := strconv.FormatUint(uint64(s.Cursor.Line), 10) + ":" + strconv.FormatUint(uint64(s.Cursor.Column), 10)
	if x := width - runewidth.StringWidth(pos) - 1; x > 0 {
		putString(scr, x, y, width, pos, styleStatus)
	}
}

func drawCommand(scr tcell.Screen, width, y int, s editor.State, v view) {
	switch {
	case s.Mode.Is(editor.ModeCommand):
		putString(scr, 0, y, width, ":"+s.Mode.Command, styleText)
	case s.Mode.Is(editor.ModeConfirmExit):
		putString(scr, 0, y, width, "quit? (y/n)", styleText)
	case v.unknown || s.Rejected:
		putString(scr, 0, y, width, "?", styleError)
	case v.message != "":
		putString(scr, 0, y, width, v.message, styleText)
	}
}

// scroll keeps cursor within rows lines starting at top.
func scroll(top, cursor, rows uint32) uint32 {
	if cursor < top {
		return cursor
	}
	if cursor >= top+rows {
		return cursor - rows + 1
	}
	return top
}

// putString draws s from x, clipped to width, and returns the next column.
func putString(scr tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= width {
			break
		}
		if r == '\t' {
			next := (x/tabWidth + 1) * tabWidth
			for ; x < next && x < width; x++ {
				scr.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		w := runeWidth(r)
		if x+w > width {
			break
		}
		scr.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func runeWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// stringWidth returns the display width of s as putString draws it.
func stringWidth(s string) int {
	x := 0
	for _, r := range s {
		if r == '\t' {
			x = (x/tabWidth + 1) * tabWidth
			continue
		}
		x += runeWidth(r)
	}
	return x
}

// prefix returns the first n characters of s.
func prefix(s string, n uint32) string {
	i := uint32(0)
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
