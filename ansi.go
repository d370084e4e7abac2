package goless

import (
	"github.com/danielgatis/go-ansicode"
)

// ansiTracker resolves the display effect of an embedded control sequence
// found in pager content (§4.2: "embedded CSI escape sequences"). It is not
// a terminal emulator: a pager never receives live application output, only
// the static bytes of a file or pipe, so only the callback that affects
// what a cell looks like (SetTerminalCharAttribute) does real work. The
// rest, Input included, exist solely to satisfy ansicode.Handler, the interface
// go-ansicode's decoder requires of its caller.
type ansiTracker struct {
	decoder *ansicode.Decoder

	attr CellAttr
}

func newAnsiTracker() *ansiTracker {
	a := &ansiTracker{}
	a.decoder = ansicode.NewDecoder(a)
	return a
}

// feed decodes one complete escape sequence (ESC already included) and
// returns the resolved attribute state afterward. The renderer is
// responsible for recognizing sequence boundaries byte by byte and handing
// over only a complete sequence; feed never sees printable content.
func (a *ansiTracker) feed(seq []byte) CellAttr {
	a.decoder.Write(seq)
	return a.attr
}

// reset clears accumulated attribute state. It runs when an SGR reset
// parameter arrives; the renderer does not call it, so the state carries
// over from one line to the next.
func (a *ansiTracker) reset() {
	a.attr = 0
}

var _ ansicode.Handler = (*ansiTracker)(nil)

// SetTerminalCharAttribute is the one callback that matters: it receives
// each already-parsed SGR parameter and folds it into the running cell
// template, mirroring the attribute table a full terminal emulator would
// use to paint its own screen.
func (a *ansiTracker) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		a.reset()
	case ansicode.CharAttributeBold:
		a.attr |= AttrBold
	case ansicode.CharAttributeUnderline, ansicode.CharAttributeDoubleUnderline,
		ansicode.CharAttributeCurlyUnderline, ansicode.CharAttributeDottedUnderline,
		ansicode.CharAttributeDashedUnderline:
		a.attr |= AttrUnderline
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		a.attr |= AttrBlink
	case ansicode.CharAttributeReverse:
		a.attr |= AttrStandout
	case ansicode.CharAttributeCancelBold, ansicode.CharAttributeCancelBoldDim:
		a.attr &^= AttrBold
	case ansicode.CharAttributeCancelUnderline:
		a.attr &^= AttrUnderline
	case ansicode.CharAttributeCancelBlink:
		a.attr &^= AttrBlink
	case ansicode.CharAttributeCancelReverse:
		a.attr &^= AttrStandout
	}
	a.attr |= AttrAnsi
}

// Input receives any printable rune go-ansicode's decoder did not consume
// as part of a control sequence. feed is only ever handed one isolated
// sequence, so this never fires in practice; it is required by the
// interface regardless.
func (a *ansiTracker) Input(r rune) {}

// The remainder of ansicode.Handler covers cursor motion, scroll regions,
// screen/line erasure, tab stops, the alternate keypad, title/clipboard/
// hyperlink OSC strings, keyboard protocol modes, and sixel/kitty graphics:
// everything a full VT220 application-output emulator needs and a pager
// rendering static content never sees, since feed() is only ever given the
// bytes of one already-isolated sequence. They are no-ops.
func (a *ansiTracker) ApplicationCommandReceived(data []byte)                            {}
func (a *ansiTracker) Backspace()                                                        {}
func (a *ansiTracker) Bell()                                                             {}
func (a *ansiTracker) CarriageReturn()                                                   {}
func (a *ansiTracker) ClearLine(mode ansicode.LineClearMode)                             {}
func (a *ansiTracker) ClearScreen(mode ansicode.ClearMode)                               {}
func (a *ansiTracker) ClearTabs(mode ansicode.TabulationClearMode)                       {}
func (a *ansiTracker) ClipboardLoad(clipboard byte, terminator string)                   {}
func (a *ansiTracker) ClipboardStore(clipboard byte, data []byte)                        {}
func (a *ansiTracker) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {}
func (a *ansiTracker) Decaln()                                                           {}
func (a *ansiTracker) DeleteChars(n int)                                                 {}
func (a *ansiTracker) DeleteLines(n int)                                                 {}
func (a *ansiTracker) DeviceStatus(n int)                                                {}
func (a *ansiTracker) EraseChars(n int)                                                  {}
func (a *ansiTracker) Goto(row, col int)                                                 {}
func (a *ansiTracker) GotoCol(col int)                                                   {}
func (a *ansiTracker) GotoLine(row int)                                                  {}
func (a *ansiTracker) HorizontalTabSet()                                                 {}
func (a *ansiTracker) IdentifyTerminal(b byte)                                           {}
func (a *ansiTracker) InsertBlank(n int)                                                 {}
func (a *ansiTracker) InsertBlankLines(n int)                                            {}
func (a *ansiTracker) LineFeed()                                                         {}
func (a *ansiTracker) MoveBackward(n int)                                                {}
func (a *ansiTracker) MoveBackwardTabs(n int)                                            {}
func (a *ansiTracker) MoveDown(n int)                                                    {}
func (a *ansiTracker) MoveDownCr(n int)                                                  {}
func (a *ansiTracker) MoveForward(n int)                                                 {}
func (a *ansiTracker) MoveForwardTabs(n int)                                             {}
func (a *ansiTracker) MoveUp(n int)                                                      {}
func (a *ansiTracker) MoveUpCr(n int)                                                    {}
func (a *ansiTracker) PopKeyboardMode(n int)                                             {}
func (a *ansiTracker) PopTitle()                                                         {}
func (a *ansiTracker) PrivacyMessageReceived(data []byte)                                {}
func (a *ansiTracker) PushKeyboardMode(mode ansicode.KeyboardMode)                       {}
func (a *ansiTracker) PushTitle()                                                        {}
func (a *ansiTracker) ReportKeyboardMode()                                               {}
func (a *ansiTracker) ReportModifyOtherKeys()                                            {}
func (a *ansiTracker) ResetColor(i int)                                                  {}
func (a *ansiTracker) ResetState()                                                       {}
func (a *ansiTracker) RestoreCursorPosition()                                            {}
func (a *ansiTracker) ReverseIndex()                                                     {}
func (a *ansiTracker) SaveCursorPosition()                                               {}
func (a *ansiTracker) ScrollDown(n int)                                                  {}
func (a *ansiTracker) ScrollUp(n int)                                                    {}
func (a *ansiTracker) SetActiveCharset(n int)                                            {}
func (a *ansiTracker) SetCursorStyle(style ansicode.CursorStyle)                         {}
func (a *ansiTracker) SetHyperlink(hyperlink *ansicode.Hyperlink)                        {}
func (a *ansiTracker) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
}
func (a *ansiTracker) SetMode(mode ansicode.TerminalMode)                 {}
func (a *ansiTracker) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {}
func (a *ansiTracker) SetTitle(title string)                              {}
func (a *ansiTracker) Substitute()                                        {}
func (a *ansiTracker) Tab(n int)                                          {}
func (a *ansiTracker) TextAreaSizeChars()                                 {}
func (a *ansiTracker) TextAreaSizePixels()                                {}
func (a *ansiTracker) UnsetKeypadApplicationMode()                        {}
func (a *ansiTracker) UnsetMode(mode ansicode.TerminalMode)               {}
func (a *ansiTracker) SetWorkingDirectory(uri string)                     {}
func (a *ansiTracker) WorkingDirectory() string                           { return "" }
func (a *ansiTracker) WorkingDirectoryPath() string                       { return "" }
func (a *ansiTracker) CellSizePixels()                                    {}
func (a *ansiTracker) SixelReceived(params [][]uint16, data []byte)       {}
func (a *ansiTracker) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
}
