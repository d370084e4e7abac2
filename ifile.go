package goless

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// IFile is the stable identity of a named input (§3 "Input file entry").
// Input files live in an insertion-ordered list with set-like semantics
// keyed by resolved filename. Hold is a counter for callers that keep an
// ifile in use across a temporary "not current" period, e.g. while it is
// the target of a background tag search; IFileList.Delete does not consult
// it.
type IFile struct {
	Filename    string
	AltFilename string // alternate content, e.g. from a LESSOPEN pipe
	AltPipe     *os.File

	SavedPos FilePos
	Opened   bool
	Hold     int

	source *CharSource
}

// Source returns the attached CharSource, or nil if never opened.
func (f *IFile) Source() *CharSource { return f.source }

// IFileList is the insertion-ordered, filename-keyed collection of input
// files (§3).
type IFileList struct {
	files   []*IFile
	byName  map[string]*IFile
	current int // index into files, -1 if none
}

// NewIFileList returns an empty list.
func NewIFileList() *IFileList {
	return &IFileList{byName: make(map[string]*IFile), current: -1}
}

// Get returns the existing ifile for filename, or creates and appends a new
// one (the "set-like semantics keyed by resolved filename" of §3).
func (l *IFileList) Get(filename string) *IFile {
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	if f, ok := l.byName[abs]; ok {
		return f
	}
	f := &IFile{Filename: filename, SavedPos: NoPos}
	l.files = append(l.files, f)
	l.byName[abs] = f
	return f
}

// Len returns the number of ifiles in the list.
func (l *IFileList) Len() int { return len(l.files) }

// At returns the ifile at index i, or nil if out of range.
func (l *IFileList) At(i int) *IFile {
	if i < 0 || i >= len(l.files) {
		return nil
	}
	return l.files[i]
}

// IndexOf returns the index of f in the list, or -1 if absent.
func (l *IFileList) IndexOf(f *IFile) int {
	for i, g := range l.files {
		if g == f {
			return i
		}
	}
	return -1
}

// Current returns the currently-open ifile, or nil if none.
func (l *IFileList) Current() *IFile {
	if l.current < 0 || l.current >= len(l.files) {
		return nil
	}
	return l.files[l.current]
}

// SetCurrent marks f as current. f must already be in the list.
func (l *IFileList) SetCurrent(f *IFile) {
	l.current = l.IndexOf(f)
}

// Delete removes f from the list, cascading to its file state and
// alternate-pipe handle (§3 "Ownership"). Independent close failures (the
// underlying descriptor and a popen'd alternate) are combined rather than
// dropping one silently — the one spot in the tree where more than one
// resource can fail to close at once.
func (l *IFileList) Delete(f *IFile) error {
	idx := l.IndexOf(f)
	if idx < 0 {
		return nil
	}

	var err error
	if f.source != nil {
		err = multierr.Append(err, f.source.Close())
		f.source = nil
	}
	if f.AltPipe != nil {
		err = multierr.Append(err, f.AltPipe.Close())
		f.AltPipe = nil
	}

	l.files = append(l.files[:idx], l.files[idx+1:]...)
	for name, g := range l.byName {
		if g == f {
			delete(l.byName, name)
			break
		}
	}
	if l.current == idx {
		l.current = -1
	} else if l.current > idx {
		l.current--
	}
	return err
}

// Mark is a named bookmark: a letter, the ifile it refers to (or a pending
// filename if the ifile was deleted and later reopened by name), and the
// screen position at the time the mark was set (§3 "Mark").
type Mark struct {
	Letter byte

	File            *IFile // nil if the target file isn't currently open
	PendingFilename string // used to rebind File on reopen, when File is nil

	Pos FilePos
}

// MouseMarkLetter and LastMarkLetter are the two synthetic marks §3
// names alongside the 26+26 lettered ones: the mouse-click mark and the
// "last position before a jump" mark.
const (
	MouseMarkLetter = 0
	LastMarkLetter  = 1
)

// MarkStore holds all marks for the session, keyed by letter (lowercase,
// uppercase, and the two synthetic letters above, which never collide with
// a printable byte the user can type).
type MarkStore struct {
	marks map[byte]*Mark
}

// NewMarkStore returns an empty store.
func NewMarkStore() *MarkStore {
	return &MarkStore{marks: make(map[byte]*Mark)}
}

// Set records a mark, overwriting any previous mark with the same letter.
func (s *MarkStore) Set(letter byte, f *IFile, pos FilePos) {
	s.marks[letter] = &Mark{Letter: letter, File: f, Pos: pos}
}

// Get returns the mark for letter, or nil if unset.
func (s *MarkStore) Get(letter byte) *Mark {
	return s.marks[letter]
}

// Clear removes the mark for letter.
func (s *MarkStore) Clear(letter byte) {
	delete(s.marks, letter)
}

// Rebind resolves a mark's pending filename against the ifile list after a
// reopen, matching it back to a live *IFile (§3 "Marks refer to ifiles by
// weak reference... and rebind on reopen").
func (s *MarkStore) Rebind(list *IFileList) {
	for _, m := range s.marks {
		if m.File != nil || m.PendingFilename == "" {
			continue
		}
		for _, f := range list.files {
			if f.Filename == m.PendingFilename {
				m.File = f
				m.PendingFilename = ""
				break
			}
		}
	}
}

// History is a bounded, most-recent-last list of previously entered prompt
// strings, one per prompt kind (search, shell command, examined filename —
// §4.5 "Key history").
type History struct {
	entries []string
	cap     int
}

// NewHistory returns an empty history with the given capacity (0 means
// unbounded).
func NewHistory(cap int) *History {
	return &History{cap: cap}
}

// Add appends s, dropping the oldest entry if the capacity is exceeded.
// A repeat of the most recent entry is not duplicated.
func (h *History) Add(s string) {
	if s == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == s {
		return
	}
	h.entries = append(h.entries, s)
	if h.cap > 0 && len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Entries returns the history oldest-first.
func (h *History) Entries() []string { return h.entries }

// HistoryStore is the $HOME history file's in-memory image (§6 "Persisted
// state"): search/shell-command/examined-file history plus marks, grouped
// under per-section headers.
type HistoryStore struct {
	Search   *History
	Shell    *History
	Examine  *History
	Marks    *MarkStore
}

// NewHistoryStore returns an empty store with unbounded histories.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		Search:  NewHistory(0),
		Shell:   NewHistory(0),
		Examine: NewHistory(0),
		Marks:   NewMarkStore(),
	}
}

const (
	sectionSearch  = ".search"
	sectionShell   = ".shell"
	sectionExamine = ".examine"
	sectionMarks   = ".mark"
)

// Load reads a history file in the section-header format: a line
// "section-name" line introduces a section, followed by its entries until
// the next section header or EOF. Marks lines look like
// "m <letter> <screen-line> <file-offset> <filename>" (§6).
func (hs *HistoryStore) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: open history file: %v", ErrInput, err)
	}
	defer f.Close()

	section := ""
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch line {
		case sectionSearch, sectionShell, sectionExamine, sectionMarks:
			section = line
			continue
		}
		if line == "" {
			continue
		}
		switch section {
		case sectionSearch:
			hs.Search.Add(line)
		case sectionShell:
			hs.Shell.Add(line)
		case sectionExamine:
			hs.Examine.Add(line)
		case sectionMarks:
			if m, ok := parseMarkLine(line); ok {
				hs.Marks.marks[m.Letter] = m
			}
		}
	}
	return sc.Err()
}

// Save writes the history file, one section per kind: history entries
// oldest-first, marks in no defined order.
func (hs *HistoryStore) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create history file: %v", ErrInput, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeSection(w, sectionSearch, hs.Search.Entries())
	writeSection(w, sectionShell, hs.Shell.Entries())
	writeSection(w, sectionExamine, hs.Examine.Entries())

	fmt.Fprintln(w, sectionMarks)
	for _, m := range hs.Marks.marks {
		name := m.PendingFilename
		if m.File != nil {
			name = m.File.Filename
		}
		fmt.Fprintf(w, "m %c %d %d %s\n", m.Letter, 0, int64(m.Pos), name)
	}
	return w.Flush()
}

func writeSection(w *bufio.Writer, header string, entries []string) {
	fmt.Fprintln(w, header)
	for _, e := range entries {
		fmt.Fprintln(w, e)
	}
}

func parseMarkLine(line string) (*Mark, bool) {
	parts := strings.SplitN(line, " ", 5)
	if len(parts) < 5 || parts[0] != "m" || len(parts[1]) != 1 {
		return nil, false
	}
	pos, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, false
	}
	return &Mark{
		Letter:          parts[1][0],
		Pos:             FilePos(pos),
		PendingFilename: parts[4],
	}, true
}
