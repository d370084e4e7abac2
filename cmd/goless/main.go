// Command goless is thin glue around the goless package's core
// subsystems: argument parsing, environment-variable handling, terminal
// raw-mode entry/exit, and a one-screen render of each input. It has no
// interactive command loop and reads no keys. None of this is part of the
// specified core (§1 "out of scope"); it exists so the core is runnable.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/kdsch/goless"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goless:", err)
		os.Exit(int(goless.QuitInputErr))
	}
}

func newRootCmd() *cobra.Command {
	var (
		lineNumbers bool
		chop        bool
		quiet       bool
		logPath     string
	)

	cmd := &cobra.Command{
		Use:   "goless [file ...]",
		Short: "page through a file, pipe, or named synthetic content",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, runOptions{
				lineNumbers: lineNumbers,
				chop:        chop,
				quiet:       quiet,
				logPath:     logPath,
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&lineNumbers, "line-numbers", "N", false, "show line numbers")
	flags.BoolVarP(&chop, "chop-long-lines", "S", false, "chop long lines instead of wrapping")
	flags.BoolVarP(&quiet, "quiet", "Q", false, "never ring the bell")
	flags.StringVarP(&logPath, "log-file", "l", "", "write diagnostic log messages to the named file")
	return cmd
}

type runOptions struct {
	lineNumbers bool
	chop        bool
	quiet       bool
	logPath     string
}

// run opens every named file (stdin if none given) as an ifile, wires
// signal notification into SignalFlags, enters raw mode when stdin is a
// terminal, and renders up to height-1 rows of each input in turn. It
// reads no keys and does not consult the raised signal flags.
func run(args []string, opts runOptions) error {
	if opts.logPath != "" {
		if err := goless.OpenLogFile(opts.logPath, false); err != nil {
			return err
		}
	}

	ifiles := goless.NewIFileList()
	if len(args) == 0 {
		ifiles.Get("-")
	} else {
		for _, a := range args {
			ifiles.Get(a)
		}
	}

	tty := os.Stdin
	width, height := probeSize(tty)

	sigs := &goless.SignalFlags{}
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, unix.SIGWINCH, unix.SIGINT, unix.SIGTSTP, unix.SIGTERM)
	go func() {
		for s := range sigCh {
			switch s {
			case unix.SIGWINCH:
				sigs.Raise(goless.SigWinch)
			case unix.SIGINT:
				sigs.Raise(goless.SigInterrupt)
			case unix.SIGTSTP:
				sigs.Raise(goless.SigStop)
			case unix.SIGTERM:
				sigs.Raise(goless.SigTerm)
			}
		}
	}()

	var restore func()
	if term.IsTerminal(int(tty.Fd())) {
		state, err := term.MakeRaw(int(tty.Fd()))
		if err != nil {
			return fmt.Errorf("%w: enter raw mode: %v", goless.ErrFatal, err)
		}
		restore = func() { term.Restore(int(tty.Fd()), state) }
		defer restore()
	}

	for i := 0; i < ifiles.Len(); i++ {
		f := ifiles.At(i)
		if err := openAndPageOne(f, width, height, opts); err != nil {
			fmt.Fprintln(os.Stderr, "goless:", err)
		}
	}
	return nil
}

func openAndPageOne(f *goless.IFile, width, height int, opts runOptions) error {
	var file *os.File
	var err error
	if f.Filename == "-" {
		file = os.Stdin
	} else {
		file, err = os.Open(f.Filename)
		if err != nil {
			return fmt.Errorf("%w: %v", goless.ErrInput, err)
		}
		defer file.Close()
	}

	src := goless.OpenFile(file, 0, 64)
	defer src.Close()

	cfg := goless.RenderConfig{
		Width:           width,
		TabStop:         8,
		Wrap:            !opts.chop,
		TruncIndicator:  true,
		ShowLineNumbers: opts.lineNumbers,
	}
	r := goless.NewRenderer(src, cfg)

	var pos goless.FilePos
	lineNum := 1
	for row := 0; row < height-1; row++ {
		line, next, ok := r.Forward(pos, goless.RowContext{LineNumber: lineNum})
		if !ok {
			break
		}
		fmt.Print(line.String())
		if next > 0 && src.Seek(next-1) && src.Get() == '\n' {
			lineNum++
		}
		pos = next
	}
	return nil
}

func probeSize(f *os.File) (width, height int) {
	if w, h, err := term.GetSize(int(f.Fd())); err == nil {
		return w, h
	}
	if c := os.Getenv("COLUMNS"); c != "" {
		fmt.Sscanf(c, "%d", &width)
	}
	if l := os.Getenv("LINES"); l != "" {
		fmt.Sscanf(l, "%d", &height)
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return width, height
}
