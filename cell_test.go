package goless

import "testing"

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.Byte != ' ' {
		t.Errorf("expected space, got %q", cell.Byte)
	}
	if cell.Width != 1 {
		t.Errorf("expected width 1, got %d", cell.Width)
	}
	if cell.Attr != 0 {
		t.Error("expected no attributes")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.Byte = 'A'
	cell.SetAttr(AttrBold)

	cell.Reset()

	if cell.Byte != ' ' {
		t.Errorf("expected space after reset, got %q", cell.Byte)
	}
	if cell.HasAttr(AttrBold) {
		t.Error("expected no attributes after reset")
	}
}

func TestCellAttrs(t *testing.T) {
	cell := NewCell()

	cell.SetAttr(AttrBold)
	if !cell.HasAttr(AttrBold) {
		t.Error("expected bold attribute")
	}

	cell.SetAttr(AttrUnderline)
	if !cell.HasAttr(AttrBold) || !cell.HasAttr(AttrUnderline) {
		t.Error("expected both attributes")
	}

	cell.ClearAttr(AttrBold)
	if cell.HasAttr(AttrBold) {
		t.Error("expected bold attribute to be cleared")
	}
	if !cell.HasAttr(AttrUnderline) {
		t.Error("expected underline attribute to remain")
	}
}

func TestCellDirty(t *testing.T) {
	cell := NewCell()

	if cell.IsDirty() {
		t.Error("expected cell not dirty initially")
	}

	cell.MarkDirty()
	if !cell.IsDirty() {
		t.Error("expected cell to be dirty")
	}

	cell.ClearDirty()
	if cell.IsDirty() {
		t.Error("expected cell not dirty after clear")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()
	cell.Width = 2

	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}
}

func TestCellCopy(t *testing.T) {
	cell := NewCell()
	cell.Byte = 'X'
	cell.SetAttr(AttrBold | AttrUnderline)

	copied := cell.Copy()

	if copied.Byte != 'X' {
		t.Errorf("expected 'X', got %q", copied.Byte)
	}
	if !copied.HasAttr(AttrBold) || !copied.HasAttr(AttrUnderline) {
		t.Error("expected attributes to be copied")
	}

	cell.Byte = 'Y'
	if copied.Byte != 'X' {
		t.Error("copy should be independent")
	}
}
