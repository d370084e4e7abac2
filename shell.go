package goless

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
)

// AltFileProtocol implements the LESSOPEN/LESSCLOSE alternate-file
// protocol (§6): LESSOPEN names a command containing exactly one "%s"; a
// leading "|" means the command's stdout is itself the alternate content
// (opened as a pipe), otherwise the command's stdout names a replacement
// file to open instead. LESSCLOSE is the reciprocal teardown invocation,
// taking up to two "%s" (original name, alternate name).
type AltFileProtocol struct {
	OpenCmd  string // the LESSOPEN command
	CloseCmd string // the LESSCLOSE command
}

// Open runs LESSOPEN for filename. If the command is pipe-style it returns
// the open *os.File reading the command's stdout (the caller treats it as
// popen'd alternate content, FlagPopen); otherwise it returns the
// replacement filename the command printed.
func (p *AltFileProtocol) Open(filename string) (altName string, pipe *os.File, err error) {
	if p.OpenCmd == "" || !strings.Contains(p.OpenCmd, "%s") {
		return "", nil, nil
	}
	pipeStyle := strings.HasPrefix(p.OpenCmd, "|")
	cmdline := strings.TrimPrefix(p.OpenCmd, "|")
	cmdline = strings.Replace(cmdline, "%s", shellQuote(filename), 1)

	cmd := exec.Command("sh", "-c", cmdline)
	if pipeStyle {
		out, err := cmd.StdoutPipe()
		if err != nil {
			return "", nil, fmt.Errorf("%w: LESSOPEN: %v", ErrInput, err)
		}
		if err := cmd.Start(); err != nil {
			return "", nil, fmt.Errorf("%w: LESSOPEN: %v", ErrInput, err)
		}
		f, ok := out.(*os.File)
		if !ok {
			return "", nil, fmt.Errorf("%w: LESSOPEN: not a file-backed pipe", ErrInput)
		}
		return "", f, nil
	}

	out, err := cmd.Output()
	if err != nil {
		return "", nil, fmt.Errorf("%w: LESSOPEN: %v", ErrInput, err)
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", nil, nil
	}
	return name, nil, nil
}

// Close runs LESSCLOSE for (filename, altFilename), if configured.
func (p *AltFileProtocol) Close(filename, altFilename string) error {
	if p.CloseCmd == "" {
		return nil
	}
	cmdline := p.CloseCmd
	cmdline = strings.Replace(cmdline, "%s", shellQuote(filename), 1)
	cmdline = strings.Replace(cmdline, "%s", shellQuote(altFilename), 1)
	if err := exec.Command("sh", "-c", cmdline).Run(); err != nil {
		return fmt.Errorf("%w: LESSCLOSE: %v", ErrInput, err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ShellEscape runs an interactive shell command over a real pty, the
// dispatcher's "!" action (§4.5 SHELL prompt mode). It does not change the
// terminal mode of stdin or stdout: a caller in raw mode stays in raw mode
// while the command runs.
func ShellEscape(command string, stdin *os.File, stdout *os.File) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	f, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: shell escape: %v", ErrInput, err)
	}
	defer f.Close()

	done := make(chan struct{})
	go func() {
		copyAll(stdout, f)
		close(done)
	}()
	go copyAll(f, stdin)
	err = cmd.Wait()
	<-done
	if err != nil {
		return fmt.Errorf("%w: shell escape: %v", ErrInput, err)
	}
	return nil
}

// VisualEdit opens filename at the given line in $VISUAL (falling back to
// $EDITOR, then "vi"), matching §6's VISUAL/EDITOR environment variables.
func VisualEdit(filename string, line int64, stdin, stdout *os.File) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	args := []string{filename}
	if line > 0 {
		args = append([]string{fmt.Sprintf("+%d", line)}, args...)
	}
	cmd := exec.Command(editor, args...)
	f, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: visual edit: %v", ErrInput, err)
	}
	defer f.Close()

	done := make(chan struct{})
	go func() {
		copyAll(stdout, f)
		close(done)
	}()
	go copyAll(f, stdin)
	err = cmd.Wait()
	<-done
	if err != nil {
		return fmt.Errorf("%w: visual edit: %v", ErrInput, err)
	}
	return nil
}

func copyAll(dst, src *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
