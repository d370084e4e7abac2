package goless

import "testing"

func TestPositionTableAddForward(t *testing.T) {
	pt := NewPositionTable(3)
	pt.AddForward(10)
	pt.AddForward(20)
	pt.AddForward(30)

	if pt.Position(RowBottom) != 30 {
		t.Errorf("expected bottom == 30, got %v", pt.Position(RowBottom))
	}
	if pt.Position(RowTop) != 10 {
		t.Errorf("expected top == 10 after 3 adds into a 3-row table, got %v", pt.Position(RowTop))
	}

	pt.AddForward(40)
	if pt.Position(RowTop) != 20 {
		t.Errorf("expected top to shift to 20, got %v", pt.Position(RowTop))
	}
	if pt.Position(RowBottom) != 40 {
		t.Errorf("expected bottom == 40, got %v", pt.Position(RowBottom))
	}
}

func TestPositionTableAddBack(t *testing.T) {
	pt := NewPositionTable(3)
	pt.AddForward(10)
	pt.AddForward(20)
	pt.AddForward(30)

	pt.AddBack(5)
	if pt.Position(RowTop) != 5 {
		t.Errorf("expected top == 5, got %v", pt.Position(RowTop))
	}
	if pt.Position(RowBottom) != 20 {
		t.Errorf("expected bottom to shift to 20, got %v", pt.Position(RowBottom))
	}
}

func TestPositionTableClearAndEmpty(t *testing.T) {
	pt := NewPositionTable(4)
	if !pt.EmptyScreen() {
		t.Error("expected new table to be empty")
	}
	pt.AddForward(1)
	if pt.EmptyScreen() {
		t.Error("expected table with a position to be non-empty")
	}
	pt.Clear()
	if !pt.EmptyScreen() {
		t.Error("expected cleared table to be empty")
	}
}

func TestPositionTableOnScreen(t *testing.T) {
	pt := NewPositionTable(3)
	pt.SetRaw(0, 10)
	pt.SetRaw(1, 20)
	pt.SetRaw(2, 30)

	if r := pt.OnScreen(25); r != 1 {
		t.Errorf("expected row 1 for pos 25, got %d", r)
	}
	if r := pt.OnScreen(5); r != -1 {
		t.Errorf("expected -1 for pos preceding frame, got %d", r)
	}
	if r := pt.OnScreen(30); r != 2 {
		t.Errorf("expected row 2 for exact match, got %d", r)
	}
}

func TestPositionTableGetScrPos(t *testing.T) {
	pt := NewPositionTable(3)
	if pt.GetScrPos(RowTop) != NoPos {
		t.Error("expected NoPos on empty screen")
	}
	pt.SetRaw(1, 15)
	pt.SetRaw(2, 25)
	if pt.GetScrPos(RowTop) != 15 {
		t.Errorf("expected topmost non-empty row == 15, got %v", pt.GetScrPos(RowTop))
	}
	if pt.GetScrPos(RowBottom) != 25 {
		t.Errorf("expected bottommost non-empty row == 25, got %v", pt.GetScrPos(RowBottom))
	}
}

func TestPositionTableResizePreservesTop(t *testing.T) {
	pt := NewPositionTable(3)
	pt.SetRaw(0, 100)
	pt.SetRaw(1, 200)
	pt.Resize(5)
	if pt.Position(RowTop) != 100 {
		t.Errorf("expected top preserved across resize, got %v", pt.Position(RowTop))
	}
	if pt.Len() != 5 {
		t.Errorf("expected resized length 5, got %d", pt.Len())
	}
}

func TestGridScrollUpDown(t *testing.T) {
	g := NewGrid(4, 80)
	g.SetLine(0, Line{StartPos: 1})
	g.SetLine(1, Line{StartPos: 2})
	g.SetLine(2, Line{StartPos: 3})
	g.ScrollUp()
	if g.Line(0).StartPos != 2 {
		t.Errorf("expected row 0 to hold what was row 1, got %+v", g.Line(0))
	}
	if g.Line(2).StartPos != 0 {
		t.Errorf("expected new bottom content row blank, got %+v", g.Line(2))
	}
}

func TestGridContentRowsFullScreen(t *testing.T) {
	g := NewGrid(10, 80)
	if g.ContentRows() != 9 {
		t.Errorf("expected 9 content rows with prompt line reserved, got %d", g.ContentRows())
	}
	g.SetFull(true)
	if g.ContentRows() != 10 {
		t.Errorf("expected 10 content rows in full-screen mode, got %d", g.ContentRows())
	}
}
