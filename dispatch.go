package goless

// Action is the semantic action decoded from a keystroke sequence (§4.5).
type Action byte

const (
	AInvalid Action = iota
	AEndList        // table terminator; a dead end along the path is INVALID
	ASkip           // padding filler, never itself an action

	AForward
	ABackward
	AForwardLine
	ABackwardLine
	AGoEnd
	AGoBeg
	AGotoLine
	AGotoMark
	ASetMark
	AClearMark
	ASearchFwd
	ASearchBack
	AFilter
	ARepeatSearch
	AToggleOption
	AExamine
	APipe
	AShellEscape
	AVisualEdit
	AQuit
	ARefresh
	AHelp
	AFirstCmd

	AX11MouseIn
	AX1006MouseIn
)

// recordFlag is OR'd into the action byte stored in a table to mark a
// record that carries a trailing EXTRA string (§4.5 action table format).
const recordFlag Action = 0x80

// actionOf / hasExtra split a stored action byte into its plain action and
// whether an EXTRA canned-keystroke string follows.
func actionOf(b Action) Action { return b &^ recordFlag }
func hasExtra(b Action) bool   { return b&recordFlag != 0 }

// specialKeyEnvelope marks a <A_SPECIAL_KEY> placeholder record before
// table-expansion substitutes the terminal's actual byte sequence for a
// named key (right-arrow, Page-Up, ...). The byte after it is the
// SpecialKey id; expansion replaces the pair with the key's sequence, so
// a record's key string may grow or shrink (§4.5).
const specialKeyEnvelope = 0xfe

// SpecialKey names a terminal keypad/cursor key addressed symbolically in
// an action table before expansion.
type SpecialKey byte

const (
	KeyUp SpecialKey = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyDelete
	KeyInsert
	KeyF1
	KeyBackspace
)

// record is one decoded entry of an action table: a literal byte sequence
// that triggers Act, with ExtraSeq present only if Act was stored with the
// EXTRA flag.
type record struct {
	Keys     []byte
	Act      Action
	ExtraSeq []byte
}

// ActionTable is a flat sequence of records plus the envelope-expansion
// bookkeeping. It mirrors the wire layout of §4.5/§6: built-in tables and
// environment-/lesskey-loaded tables share this same representation.
type ActionTable struct {
	records []record
}

// NewActionTable returns an empty table a caller populates with Add.
func NewActionTable() *ActionTable {
	return &ActionTable{}
}

// Add appends one record. extra may be nil.
func (t *ActionTable) Add(keys []byte, act Action, extra []byte) {
	t.records = append(t.records, record{Keys: append([]byte(nil), keys...), Act: act, ExtraSeq: append([]byte(nil), extra...)})
}

// ExpandSpecialKeys rewrites every record in the table, replacing each
// occurrence of a <specialKeyEnvelope><key-id> pair with the byte sequence
// keymap reports the terminal emits for that key (§4.5 "Action table
// format"). No ASkip padding is added; an id missing from keymap expands
// to nothing.
func (t *ActionTable) ExpandSpecialKeys(keymap map[SpecialKey][]byte) {
	for i := range t.records {
		t.records[i].Keys = expandKeys(t.records[i].Keys, keymap)
	}
}

func expandKeys(keys []byte, keymap map[SpecialKey][]byte) []byte {
	out := make([]byte, 0, len(keys))
	for i := 0; i < len(keys); i++ {
		if keys[i] == specialKeyEnvelope && i+1 < len(keys) {
			seq := keymap[SpecialKey(keys[i+1])]
			out = append(out, seq...)
			i++
			continue
		}
		out = append(out, keys[i])
	}
	return out
}

// MatchResult is the outcome of testing one input buffer against one
// table: NoMatch (fall through to the next record), Prefix (more input
// needed), or Full (with the resolved action and optional extra).
type MatchResult int

const (
	MatchNone MatchResult = iota
	MatchPrefix
	MatchFull
)

// lookup runs the §4.5 resolution algorithm against one table: the first
// record (in table order) whose keys equal the leading bytes of input is a
// full match; failing that, MatchPrefix is reported if input is a strict
// prefix of some record's keys. A_END_LIST and A_SKIP records are skipped
// and never match.
func (t *ActionTable) lookup(input []byte) (MatchResult, Action, []byte) {
	sawPrefix := false
	for _, r := range t.records {
		if actionOf(r.Act) == AEndList {
			continue
		}
		if actionOf(r.Act) == ASkip {
			continue
		}
		n := len(r.Keys)
		if n == 0 {
			continue
		}
		if len(input) >= n {
			if string(input[:n]) == string(r.Keys) {
				if hasExtra(r.Act) {
					return MatchFull, actionOf(r.Act), r.ExtraSeq
				}
				return MatchFull, actionOf(r.Act), nil
			}
			continue
		}
		if string(r.Keys[:len(input)]) == string(input) {
			sawPrefix = true
		}
	}
	if sawPrefix {
		return MatchPrefix, AInvalid, nil
	}
	return MatchNone, AInvalid, nil
}

// Dispatcher resolves keystroke sequences into actions by trying an
// ordered chain of tables: built-ins first, then environment-/lesskey-
// loaded tables (§4.5). It also drives mouse-report byte consumption.
type Dispatcher struct {
	tables []*ActionTable

	// MouseWheelLines is the scroll distance a wheel tick maps to; its
	// sign is inverted when the mouse capability is on-plus (§4.5).
	MouseWheelLines int
	MouseOnPlus     bool

	buf []byte
}

// NewDispatcher returns a dispatcher with no tables; AddTable appends in
// priority order (earlier tables win on a full match).
func NewDispatcher() *Dispatcher {
	return &Dispatcher{MouseWheelLines: 1}
}

// AddTable appends t to the end of the resolution chain.
func (d *Dispatcher) AddTable(t *ActionTable) {
	d.tables = append(d.tables, t)
}

// Feed appends b to the pending input buffer and resolves it against every
// table in order. It returns MatchFull once some table resolves the whole
// buffer to a real action (the first one found, in table order), MatchPrefix
// if every table that matched anything wants more bytes, or MatchNone if
// no table can ever match this buffer (a genuinely invalid sequence).
func (d *Dispatcher) Feed(b byte) (MatchResult, Action, []byte) {
	d.buf = append(d.buf, b)

	anyPrefix := false
	for _, t := range d.tables {
		res, act, extra := t.lookup(d.buf)
		switch res {
		case MatchFull:
			d.buf = d.buf[:0]
			return MatchFull, act, extra
		case MatchPrefix:
			anyPrefix = true
		}
	}
	if anyPrefix {
		return MatchPrefix, AInvalid, nil
	}
	d.buf = d.buf[:0]
	return MatchNone, AInvalid, nil
}

// Reset discards any partially-accumulated input (e.g. after a timeout or
// a user-initiated abort).
func (d *Dispatcher) Reset() { d.buf = d.buf[:0] }

// MouseEvent is the decoded result of an X10/X1006 mouse report the
// dispatcher consumed on the caller's behalf (§4.5 "Mouse reports").
type MouseEvent struct {
	Button  int // 0=left,1=middle,2=right,3=release (X10 does not say which button),64=wheel-up,65=wheel-down
	Row     int
	Col     int
	Release bool
}

// ToAction turns a decoded mouse event into the semantic action it drives:
// a left-button release sets a mark at the clicked row, and a wheel tick
// becomes a scroll-by-N-lines action whose direction flips under
// MouseOnPlus.
func (d *Dispatcher) ToAction(ev MouseEvent) (Action, int) {
	switch {
	case ev.Button == 0 && ev.Release:
		return ASetMark, ev.Row
	case ev.Button == 64:
		if d.MouseOnPlus {
			return AForward, d.MouseWheelLines
		}
		return ABackward, d.MouseWheelLines
	case ev.Button == 65:
		if d.MouseOnPlus {
			return ABackward, d.MouseWheelLines
		}
		return AForward, d.MouseWheelLines
	default:
		return AInvalid, 0
	}
}

// ParseX10Mouse decodes a 3-byte X10 mouse report body (button, col, row,
// each biased by 32 and 1 per the X10 protocol) following "ESC [ M".
func ParseX10Mouse(body []byte) (MouseEvent, bool) {
	if len(body) != 3 {
		return MouseEvent{}, false
	}
	raw := int(body[0]) - 32
	col := int(body[1]) - 32 - 1
	row := int(body[2]) - 32 - 1
	if raw&0x40 != 0 {
		// Wheel event: low two bits give direction, not a button number.
		return MouseEvent{Button: 64 + raw&3, Row: row, Col: col}, true
	}
	return MouseEvent{Button: raw & 3, Row: row, Col: col, Release: raw&3 == 3}, true
}
