// Package goless implements the core subsystems of an interactive terminal
// pager: a program that reads a possibly-unbounded byte stream (file, pipe,
// or named synthetic content) and lets a user navigate it a screenful at a
// time. It does not include a terminal driver, a regular-expression engine,
// or a REPL — those are external collaborators the cmd/goless binary wires
// in; this package is the part that is hard to get right by hand.
//
// # Architecture
//
//   - [CharSource]: block-cached, random-access view over a stream that may
//     itself be unseekable (a pipe), with an LRU buffer pool and hash index.
//   - [Renderer]: converts a byte range into a printable screen row, honoring
//     multibyte encodings, backspace overstrike, embedded ANSI escapes,
//     horizontal shift, tab expansion, and line-number/status columns.
//   - [PositionTable]: maps each displayed screen row to a file offset.
//   - [LineNumberCache]: sparse, adaptive offset-to-line-number index.
//   - [Dispatcher]: decodes keystrokes into semantic actions via an ordered
//     chain of action tables, plus a layered multi-character prompt FSM.
//   - [OptionStore]: typed registry of runtime-tunable parameters.
//
// # Quick start
//
//	src := goless.OpenFile(f, 0, 64)
//	r := goless.NewRenderer(src, goless.RenderConfig{Width: 80})
//	row, next, _ := r.Forward(0, goless.RowContext{})
//	fmt.Println(row.String())
//
// # Concurrency
//
// The package is single-threaded and cooperative, matching the source
// program: the only asynchrony is a process-global [SignalFlags] word that
// an external signal handler ORs bits into, and the follow-mode poll in
// [CharSource.Get] when ignore-EOI is armed on a pipe. No operation blocks
// except the kernel read inside the character source.
package goless
