package goless

// CellAttr is a bitmask of per-cell display attributes, matching the
// renderer's attribute bitfield: normal carries no bits, everything else
// combines by OR (overstrike bold/underline, embedded CSI passthrough, and
// search hilite all stack on the same byte).
type CellAttr uint8

const (
	AttrBold CellAttr = 1 << iota
	AttrUnderline
	AttrBlink
	AttrStandout
	AttrAnsi   // byte arrived inside a passed-through CSI escape
	AttrBinary // byte is shown through the binary-character format, not raw
	AttrHilite // search-match overlay
	attrDirty  // internal: cell changed since last ClearDirty
)

// Cell is one column of the line buffer: the byte that occupies it, the
// attribute bits controlling how it is drawn, and its display width (1
// normally, 2 for a wide rune — the second column of a wide rune is a
// Width-0 spacer cell). The renderer gives a combining/zero-width rune a
// one-column cell of its own; it is not overlaid on the previous cell.
type Cell struct {
	Byte  byte
	Text  string // full encoded rune when it takes more than one byte; empty otherwise
	Attr  CellAttr
	Width int
}

// NewCell returns a blank cell: a one-column space with no attributes.
func NewCell() Cell {
	return Cell{Byte: ' ', Width: 1}
}

// Reset clears a cell back to its blank state.
func (c *Cell) Reset() {
	c.Byte = ' '
	c.Text = ""
	c.Attr = 0
	c.Width = 1
}

// Runes returns the bytes this cell should draw: Text if it was set for a
// multibyte rune, otherwise the single Byte.
func (c *Cell) Runes() string {
	if c.Text != "" {
		return c.Text
	}
	return string(c.Byte)
}

// HasAttr reports whether every bit in attr is set.
func (c *Cell) HasAttr(attr CellAttr) bool {
	return c.Attr&attr == attr
}

// SetAttr ORs attr into the cell's attribute bits.
func (c *Cell) SetAttr(attr CellAttr) {
	c.Attr |= attr
}

// ClearAttr clears attr's bits, leaving the others untouched.
func (c *Cell) ClearAttr(attr CellAttr) {
	c.Attr &^= attr
}

// IsDirty reports whether the cell changed since the last ClearDirty.
func (c *Cell) IsDirty() bool {
	return c.HasAttr(attrDirty)
}

func (c *Cell) MarkDirty() {
	c.SetAttr(attrDirty)
}

func (c *Cell) ClearDirty() {
	c.ClearAttr(attrDirty)
}

// IsWide reports whether the cell is the first column of a two-column rune.
func (c *Cell) IsWide() bool {
	return c.Width == 2
}

// Copy returns an independent value copy of the cell.
func (c *Cell) Copy() Cell {
	return Cell{Byte: c.Byte, Text: c.Text, Attr: c.Attr, Width: c.Width}
}
