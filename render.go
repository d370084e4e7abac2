package goless

import (
	"fmt"
	"unicode/utf8"
)

// ControlDisplay selects how an uninterpreted control byte is shown.
type ControlDisplay int

const (
	// ControlCaret renders a control byte as its two-character caret form
	// (e.g. Ctrl-A as "^A").
	ControlCaret ControlDisplay = iota
	// ControlRaw passes the byte straight through, trusting the terminal.
	ControlRaw
	// ControlBinary renders the byte through the configured binary format
	// (e.g. "<01>").
	ControlBinary
)

// BackspaceMode controls how a backspace between two printable characters
// is interpreted.
type BackspaceMode int

const (
	// BackspaceSpecial folds X-BS-X into bold and _-BS-X (or X-BS-_) into
	// underline, per §4.2 edge case (a).
	BackspaceSpecial BackspaceMode = iota
	// BackspaceControl treats backspace as an ordinary control byte.
	BackspaceControl
	// BackspacePrintable treats backspace as printable (rendered via
	// ControlDisplay), never combined with the surrounding characters.
	BackspacePrintable
)

// RenderConfig holds the renderer knobs that stay constant across rows;
// per-row context (mark letter, line number, search hilite) is passed to
// Forward/Backward directly since it changes every call.
type RenderConfig struct {
	Width   int // screen columns available to content, after any prefix
	TabStop int // periodic tab width once explicit stops run out
	Tabs    []int

	ControlDisplay  ControlDisplay
	BackspaceMode   BackspaceMode
	AnsiPassthrough bool
	Wrap            bool // false: chop long lines instead of wrapping
	TruncIndicator  bool
	ChopChar        byte // chop indicator cell, '>' (§4.2 "Truncation indicator") if zero
	IgnoreAutoWrap  bool // terminal lacks reliable auto-wrap; Forward does not read it

	ShowLineNumbers bool
	LineNumberWidth int // columns reserved for the number, 0 means 7
	ShowMarks       bool

	ShiftLeft int // current horizontal shift, in content columns
}

// RowContext is the per-row information the caller supplies: the line
// number to print in the left column (if enabled), the mark letter
// attached to this position (0 if none), and a predicate asking whether a
// given file position falls inside the current search match.
type RowContext struct {
	LineNumber int
	Mark       byte
	Hilite     func(pos FilePos) bool
}

// Line is one rendered screen row.
type Line struct {
	Cells     []Cell
	StartPos  FilePos
	EndPos    FilePos // position of the first byte of the next line
	Truncated bool     // more content existed than fit on screen
}

// String renders the line back to the bytes it would draw.
func (l Line) String() string {
	b := make([]byte, 0, len(l.Cells))
	for _, c := range l.Cells {
		b = append(b, c.Runes()...)
	}
	return string(b)
}

// Renderer converts byte ranges pulled from a CharSource into printable
// screen rows (§4.2). It owns the scratch line buffer and the ANSI
// passthrough tracker; everything else is supplied per call.
type Renderer struct {
	src  *CharSource
	cfg  RenderConfig
	ansi *ansiTracker
}

func NewRenderer(src *CharSource, cfg RenderConfig) *Renderer {
	if cfg.TabStop <= 0 {
		cfg.TabStop = 8
	}
	if cfg.ChopChar == 0 {
		cfg.ChopChar = '>'
	}
	return &Renderer{src: src, cfg: cfg, ansi: newAnsiTracker()}
}

func (r *Renderer) SetShift(n int) { r.cfg.ShiftLeft = n }
func (r *Renderer) SetWidth(w int) { r.cfg.Width = w }

// buildState is the scratch state threaded through one call to Forward; it
// mirrors the line buffer's auxiliary fields from §3 (build column,
// pending CR, margin); the shift is read from the config.
type buildState struct {
	cells  []Cell
	column int // display column of the next cell to append
	margin int // columns reserved by the prefix; shift may not erase these

	tmpl CellTemplate

	pendingCR bool
}

// Forward renders the logical line starting at pos and returns it along
// with the position where the next line begins. ok is false at end of
// stream with nothing rendered.
func (r *Renderer) Forward(pos FilePos, ctx RowContext) (Line, FilePos, bool) {
	if !r.src.Seek(pos) {
		return Line{}, pos, false
	}
	st := &buildState{tmpl: NewCellTemplate()}
	r.buildPrefix(st, ctx)

	start := pos
	truncated := false

	for {
		beforePos := r.curPos()
		c := r.src.ForwardGet()
		if c == -1 {
			if len(st.cells) == st.margin && start == r.curPos() {
				return Line{}, start, false
			}
			break
		}
		b := byte(c)

		if st.pendingCR {
			st.pendingCR = false
			if b == '\n' {
				break
			}
			// A lone CR: dropped, fall through to process b normally.
		}

		if b == '\r' {
			st.pendingCR = true
			continue
		}
		if b == '\n' {
			break
		}

		if b == 0x1b && r.cfg.AnsiPassthrough {
			seq := r.collectSequence()
			st.tmpl.Attr = r.ansi.feed(seq)
			continue
		}

		if b == 0x08 && r.cfg.BackspaceMode == BackspaceSpecial && len(st.cells) > st.margin {
			r.overstrike(st, ctx)
			continue
		}

		beforeCells, beforeColumn := len(st.cells), st.column
		if b == '\t' {
			r.expandTab(st)
		} else {
			r.appendByte(st, b, ctx)
		}

		// §4.2 step 3: a byte that doesn't fit either chops the line (if
		// chopping is enabled: consume to end of line, mark truncated) or,
		// when wrapping, is put back unconsumed so the next Forward call
		// starts the following screen row at exactly this byte.
		if r.cfg.Wrap && st.column-st.margin > r.cfg.Width+r.cfg.ShiftLeft {
			st.cells = st.cells[:beforeCells]
			st.column = beforeColumn
			r.src.Seek(beforePos)
			break
		}
		if !r.cfg.Wrap && st.column-st.margin > r.cfg.Width+r.cfg.ShiftLeft {
			truncated = true
			r.drainToEOL()
			break
		}
	}

	line := r.finishRow(st, truncated)
	line.StartPos = start
	line.EndPos = r.curPos()
	return line, line.EndPos, true
}

func (r *Renderer) curPos() FilePos {
	return blockStart(r.src.curBlock) + FilePos(r.src.curOffset)
}

// drainToEOL consumes and discards bytes through the next newline so the
// returned EndPos lands at the start of the following logical line, even
// though the row was chopped.
func (r *Renderer) drainToEOL() {
	for {
		c := r.src.ForwardGet()
		if c == -1 || c == '\n' {
			return
		}
	}
}

// collectSequence consumes bytes of an escape sequence (the ESC already
// read) until a recognized terminator, matching the control-sequence
// boundary rule of §4.2: CSI/OSC parameter and intermediate bytes are
// consumed until a final byte in 0x40-0x7E, a bare two-byte escape
// completes immediately.
func (r *Renderer) collectSequence() []byte {
	seq := []byte{0x1b}
	c := r.src.ForwardGet()
	if c == -1 {
		return seq
	}
	seq = append(seq, byte(c))
	if c != '[' && c != ']' {
		return seq
	}
	for {
		c = r.src.ForwardGet()
		if c == -1 {
			return seq
		}
		seq = append(seq, byte(c))
		if c >= 0x40 && c <= 0x7e {
			return seq
		}
	}
}

// expandTab fills cells with spaces up to the next tab stop.
func (r *Renderer) expandTab(st *buildState) {
	next := r.nextTabStop(st.column - st.margin)
	for st.column-st.margin < next {
		r.pushCell(st, Cell{Byte: ' ', Width: 1, Attr: st.tmpl.Attr})
	}
}

func (r *Renderer) nextTabStop(col int) int {
	for _, t := range r.cfg.Tabs {
		if t > col {
			return t
		}
	}
	step := r.cfg.TabStop
	if step <= 0 {
		step = 8
	}
	return ((col / step) + 1) * step
}

// overstrike implements §4.2 edge case (a): a run of base-BS-overstrike
// characters folds into bold (same rune repeated) or underline (one side
// is an underscore); anything else becomes standout.
func (r *Renderer) overstrike(st *buildState, ctx RowContext) {
	prev := st.cells[len(st.cells)-1]
	c := r.src.ForwardGet()
	if c == -1 {
		return
	}
	over := rune(c)
	if c >= 0x80 {
		r.src.Seek(r.curPos() - 1)
		over, _ = r.decodeRune(st)
	}
	base := rune(prev.Byte)
	if prev.Text != "" {
		base, _ = utf8.DecodeRuneInString(prev.Text)
	}

	switch {
	case base == over:
		prev.Attr |= AttrBold
	case base == '_':
		prev.Byte = byte(over)
		if over >= 0x80 {
			prev.Text = string(over)
		}
		prev.Attr |= AttrUnderline
	case over == '_':
		prev.Attr |= AttrUnderline
	default:
		prev.Byte = byte(over)
		if over >= 0x80 {
			prev.Text = string(over)
		}
		prev.Attr |= AttrStandout
	}
	if ctx.Hilite != nil && ctx.Hilite(r.curPos()) {
		prev.Attr |= AttrHilite
	}
	prev.MarkDirty()
	st.cells[len(st.cells)-1] = prev
}

// appendByte classifies and appends one content byte: a multibyte UTF-8
// lead byte is decoded (consuming continuation bytes from the source), a
// control byte is shown per ControlDisplay, everything else is one
// printable column.
func (r *Renderer) appendByte(st *buildState, b byte, ctx RowContext) {
	if b < 0x20 || b == 0x7f {
		r.appendControl(st, b, ctx)
		return
	}
	if b < 0x80 {
		r.appendRune(st, rune(b), 1, "", ctx)
		return
	}
	r.src.Seek(r.curPos() - 1)
	ru, raw := r.decodeRune(st)
	if ru == utf8.RuneError && raw == "" {
		r.appendBinary(st, b, ctx)
		return
	}
	w := runeWidth(ru)
	if w <= 0 {
		w = 1
	}
	r.appendRune(st, ru, w, raw, ctx)
}

// decodeRune reassembles a UTF-8 rune from the source, using up to 6 bytes
// of lookahead (§3 line buffer: "small multibyte-continuation buffer").
// An invalid sequence yields utf8.RuneError and is rendered through the
// binary format by the caller.
func (r *Renderer) decodeRune(st *buildState) (rune, string) {
	var buf [6]byte
	n := 0
	for n < len(buf) {
		c := r.src.ForwardGet()
		if c == -1 {
			break
		}
		buf[n] = byte(c)
		n++
		if utf8.FullRune(buf[:n]) {
			break
		}
	}
	ru, size := utf8.DecodeRune(buf[:n])
	if ru == utf8.RuneError && size <= 1 {
		// Not a valid sequence: push back everything but the first byte,
		// which is consumed as a binary byte by the caller.
		if n > 1 {
			r.src.Seek(r.curPos() - FilePos(n-1))
		}
		return utf8.RuneError, ""
	}
	if n > size {
		r.src.Seek(r.curPos() - FilePos(n-size))
	}
	return ru, string(buf[:size])
}

func (r *Renderer) appendRune(st *buildState, ru rune, width int, raw string, ctx RowContext) {
	if ru == utf8.RuneError && raw == "" {
		r.appendBinary(st, byte(ru), ctx)
		return
	}
	cell := Cell{Byte: byte(ru), Width: width, Attr: st.tmpl.Attr}
	if raw != "" {
		cell.Text = raw
	}
	if ctx.Hilite != nil && ctx.Hilite(r.curPos()) {
		cell.Attr |= AttrHilite
	}
	r.pushCell(st, cell)
	if width == 2 {
		r.pushCell(st, Cell{Byte: 0, Width: 0, Attr: cell.Attr})
	}
}

func (r *Renderer) appendControl(st *buildState, b byte, ctx RowContext) {
	switch r.cfg.ControlDisplay {
	case ControlRaw:
		r.pushCell(st, Cell{Byte: b, Width: 1, Attr: st.tmpl.Attr | AttrBinary})
	case ControlBinary:
		r.appendBinary(st, b, ctx)
	default:
		caret := byte('?')
		if b == 0x7f {
			caret = '?'
		} else {
			caret = b | 0x40
		}
		r.pushCell(st, Cell{Byte: '^', Width: 1, Attr: st.tmpl.Attr | AttrBinary})
		r.pushCell(st, Cell{Byte: caret, Width: 1, Attr: st.tmpl.Attr | AttrBinary})
	}
}

// appendBinary renders b through the fixed "<%02X>" placeholder format.
func (r *Renderer) appendBinary(st *buildState, b byte, ctx RowContext) {
	text := fmt.Sprintf("<%02X>", b)
	for i := 0; i < len(text); i++ {
		r.pushCell(st, Cell{Byte: text[i], Width: 1, Attr: st.tmpl.Attr | AttrBinary})
	}
}

func (r *Renderer) pushCell(st *buildState, c Cell) {
	st.cells = append(st.cells, c)
	if c.Width > 0 {
		st.column += c.Width
	}
}

// buildPrefix emits the status/line-number margin described in §4.2
// "Prefixes": a one-column mark indicator, two spacing columns, then a
// right-justified bold line number with a trailing space.
func (r *Renderer) buildPrefix(st *buildState, ctx RowContext) {
	if r.cfg.ShowMarks {
		b := byte(' ')
		if ctx.Mark != 0 {
			b = ctx.Mark
		}
		r.pushCell(st, Cell{Byte: b, Width: 1})
	}
	if !r.cfg.ShowLineNumbers {
		st.margin = st.column
		return
	}
	width := r.cfg.LineNumberWidth
	if width <= 0 {
		width = 7
	}
	num := fmt.Sprintf("%*d ", width, ctx.LineNumber)
	for i := 0; i < len(num); i++ {
		r.pushCell(st, Cell{Byte: num[i], Width: 1, Attr: AttrBold})
	}
	st.margin = st.column
}

// finishRow applies the two-phase horizontal shift: the row is built
// without clipping so attribute runs around the shift boundary are
// resolved correctly, and only once the full row is known is the window
// [ShiftLeft, ShiftLeft+Width) (plus the untouched margin) sliced out.
func (r *Renderer) finishRow(st *buildState, truncated bool) Line {
	margin := st.cells[:minInt(st.margin, len(st.cells))]
	content := st.cells[len(margin):]

	shift := r.cfg.ShiftLeft
	visible := windowCells(content, shift, r.cfg.Width)
	if shift > 0 && len(content) > 0 {
		truncated = truncated || windowDroppedLeft(content, shift)
	}
	if len(content) > len(visible)+shift {
		truncated = true
	}

	cells := make([]Cell, 0, len(margin)+len(visible)+1)
	cells = append(cells, margin...)
	cells = append(cells, visible...)

	if truncated && r.cfg.TruncIndicator && len(cells) > 0 {
		cells[len(cells)-1] = Cell{Byte: r.cfg.ChopChar, Width: 1, Attr: AttrStandout}
	}

	return Line{Cells: cells, Truncated: truncated}
}

func windowCells(cells []Cell, shift, width int) []Cell {
	if width <= 0 {
		return nil
	}
	col := 0
	startIdx := -1
	for i, c := range cells {
		if startIdx < 0 && col >= shift {
			startIdx = i
		}
		if startIdx >= 0 && col-shift >= width {
			return cells[startIdx:i]
		}
		col += c.Width
	}
	if startIdx < 0 {
		return nil
	}
	return cells[startIdx:]
}

func windowDroppedLeft(cells []Cell, shift int) bool {
	col := 0
	for _, c := range cells {
		if col >= shift {
			return false
		}
		col += c.Width
	}
	return col > 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Backward renders the logical line ending at pos: it scans back to the
// start of the preceding raw line, then reruns the forward state machine,
// keeping only the printable line immediately preceding pos (§4.2
// "Backward rendering").
func (r *Renderer) Backward(pos FilePos, ctx RowContext) (Line, FilePos, bool) {
	if pos <= 0 {
		return Line{}, 0, false
	}
	// pos-1 is the newline ending the wanted line, so the scan for its
	// start begins there rather than at pos.
	start := r.scanBackToLineStart(pos - 1)
	if start == pos {
		return Line{}, start, false
	}

	var last Line
	cur := start
	found := false
	for cur < pos {
		line, next, ok := r.Forward(cur, ctx)
		if !ok {
			break
		}
		last = line
		found = true
		cur = next
	}
	if !found {
		return Line{}, start, false
	}
	return last, start, true
}

// scanBackToLineStart walks backward from pos to the byte after the
// nearest preceding LF, or to 0.
func (r *Renderer) scanBackToLineStart(pos FilePos) FilePos {
	if pos == 0 {
		return 0
	}
	if !r.src.Seek(pos - 1) {
		return 0
	}
	p := pos - 1
	for p > 0 {
		r.src.Seek(p)
		c := r.src.Get()
		if c == '\n' {
			return p + 1
		}
		p--
	}
	r.src.Seek(0)
	if r.src.Get() == '\n' {
		return 1
	}
	return 0
}
