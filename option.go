package goless

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionType tags an option's value kind (§4.6).
type OptionType int

const (
	OptBool OptionType = iota
	OptTriple
	OptNumeric
	OptString
	OptNoVar // pure handler, e.g. --version
)

// TripleValue is the value domain of a triple-type option.
type TripleValue int

const (
	TripleOff TripleValue = iota
	TripleOn
	TripleOnPlus
)

// OptionFlag is a bitmask of per-option behavior modifiers (§4.6).
type OptionFlag uint8

const (
	// OptRepaint marks an option whose change calls for a frame repaint.
	// Toggle itself neither reads this flag nor repaints.
	OptRepaint OptionFlag = 1 << iota
	// OptHiliteRepaint marks an option whose change also calls for search
	// hilites to be recomputed. Toggle does not act on it either.
	OptHiliteRepaint
	// OptNoToggle rejects any attempt to change the value after init.
	OptNoToggle
	// OptNoQuery rejects QUERY.
	OptNoQuery
	// OptInitHandler calls the handler once at startup even with no
	// command-line argument, to compute a terminal-dependent default.
	OptInitHandler
)

// OptionPhase names which lifecycle moment a handler is being called for.
type OptionPhase int

const (
	PhaseInit OptionPhase = iota
	PhaseQuery
	PhaseToggle
)

// OptionHandler is invoked for variable-less options and for options that
// need side effects beyond storing a scalar. value is the raw argument
// text for INIT/TOGGLE (empty for a bare toggle), unused for QUERY.
type OptionHandler func(phase OptionPhase, value string) error

// ErrAmbiguous is returned by ResolveLongName when a prefix matches more
// than one long name and none of them is an exact match.
var ErrAmbiguous = fmt.Errorf("%w: ambiguous option name", ErrUserInput)

// ErrUnknownOption is returned when no option matches a given letter or name.
var ErrUnknownOption = fmt.Errorf("%w: unknown option", ErrUserInput)

// ErrBadOptionArg covers a malformed argument for the option's type,
// including the "quote" option's one-or-two-byte argument rule (§9 open
// question #2: a three-byte argument is rejected, not truncated).
var ErrBadOptionArg = fmt.Errorf("%w: bad option argument", ErrUserInput)

// ErrNotToggleable / ErrNotQueryable report a flag-disallowed operation
// (§4.6 "Disallowed operations").
var (
	ErrNotToggleable = fmt.Errorf("%w: option cannot be changed", ErrUserInput)
	ErrNotQueryable  = fmt.Errorf("%w: option cannot be queried", ErrUserInput)
)

// Option is one entry in the option store: a short letter, its long-name
// synonyms, its type, and either a backing cell or a handler (§3 "Option
// descriptor").
type Option struct {
	Letter    byte
	LongNames []string
	Type      OptionType
	Flags     OptionFlag

	BoolVal   *bool
	TripleVal *TripleValue
	NumVal    *int64
	NumFrac   bool // value carries a parts-per-million fraction (leading '.')
	StrVal    *string
	StrSentinel byte // terminator byte for OptString; 0 means "rest of arg"

	Handler OptionHandler
}

// OptionStore is the typed registry of runtime-tunable parameters (§4.6).
type OptionStore struct {
	byLetter map[byte]*Option
	byName   map[string]*Option
	order    []*Option
}

// NewOptionStore returns an empty store.
func NewOptionStore() *OptionStore {
	return &OptionStore{
		byLetter: make(map[byte]*Option),
		byName:   make(map[string]*Option),
	}
}

// Register adds an option descriptor to the store.
func (s *OptionStore) Register(o *Option) {
	if o.Letter != 0 {
		s.byLetter[o.Letter] = o
	}
	for _, n := range o.LongNames {
		s.byName[n] = o
	}
	s.order = append(s.order, o)
}

// ByLetter looks up an option by its short letter.
func (s *OptionStore) ByLetter(letter byte) (*Option, bool) {
	o, ok := s.byLetter[letter]
	return o, ok
}

// ResolveLongName implements §4.6 "Long-name matching": an exact match
// always wins; otherwise the longest set of candidates sharing the prefix
// must be a single option, else ErrAmbiguous.
func (s *OptionStore) ResolveLongName(prefix string) (*Option, string, error) {
	if o, ok := s.byName[prefix]; ok {
		return o, "", nil
	}

	var match *Option
	var matchedName string
	for name, o := range s.byName {
		if strings.HasPrefix(name, prefix) {
			if match != nil && match != o {
				return nil, "", ErrAmbiguous
			}
			match = o
			matchedName = name
		}
	}
	if match == nil {
		return nil, "", ErrUnknownOption
	}
	return match, matchedName, nil
}

// Init invokes the handler once with an empty value if the option is
// flagged OptInitHandler (§4.6 "INIT-phase handlers"). It does not set or
// reset the option's value.
func (o *Option) Init() error {
	if o.Flags&OptInitHandler != 0 && o.Handler != nil {
		return o.Handler(PhaseInit, "")
	}
	return nil
}

// Toggle applies a new raw value at runtime (the command dispatcher's
// OPT_TOGGLE mode, §4.5). For bool/triple options an empty value means
// "flip"; lowercase/uppercase distinction for triples is resolved by the
// caller (prompt.go) via the upper argument.
func (o *Option) Toggle(value string, upper bool) error {
	if o.Flags&OptNoToggle != 0 {
		return ErrNotToggleable
	}
	switch o.Type {
	case OptBool:
		if o.BoolVal == nil {
			break
		}
		if value == "" {
			*o.BoolVal = !*o.BoolVal
		} else {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return ErrBadOptionArg
			}
			*o.BoolVal = b
		}
	case OptTriple:
		if o.TripleVal == nil {
			break
		}
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil || n < int(TripleOff) || n > int(TripleOnPlus) {
				return ErrBadOptionArg
			}
			*o.TripleVal = TripleValue(n)
			break
		}
		// §4.6: lowercase flips default<->ON, uppercase flips
		// default<->ON_PLUS.
		target := TripleOn
		if upper {
			target = TripleOnPlus
		}
		if *o.TripleVal == target {
			*o.TripleVal = TripleOff
		} else {
			*o.TripleVal = target
		}
	case OptNumeric:
		if o.NumVal == nil {
			break
		}
		n, frac, err := parseNumericOption(value)
		if err != nil {
			return ErrBadOptionArg
		}
		o.NumFrac = frac
		*o.NumVal = n
	case OptString:
		if o.StrVal == nil {
			break
		}
		s, err := parseStringOption(value, o.StrSentinel)
		if err != nil {
			return err
		}
		*o.StrVal = s
	}
	if o.Handler != nil {
		if err := o.Handler(PhaseToggle, value); err != nil {
			return err
		}
	}
	return nil
}

// Query renders the option's current value as display text.
func (o *Option) Query() (string, error) {
	if o.Flags&OptNoQuery != 0 {
		return "", ErrNotQueryable
	}
	switch o.Type {
	case OptBool:
		if o.BoolVal == nil {
			return "", nil
		}
		if *o.BoolVal {
			return "on", nil
		}
		return "off", nil
	case OptTriple:
		if o.TripleVal == nil {
			return "", nil
		}
		switch *o.TripleVal {
		case TripleOn:
			return "on", nil
		case TripleOnPlus:
			return "on-plus", nil
		default:
			return "off", nil
		}
	case OptNumeric:
		if o.NumVal == nil {
			return "", nil
		}
		return strconv.FormatInt(*o.NumVal, 10), nil
	case OptString:
		if o.StrVal == nil {
			return "", nil
		}
		return *o.StrVal, nil
	default:
		if o.Handler != nil {
			_ = o.Handler(PhaseQuery, "")
		}
		return "", nil
	}
}

// parseNumericOption parses a signed integer, or a leading-dot fraction
// (parts per 10^6, §4.6 "used for proportional geometry").
func parseNumericOption(value string) (int64, bool, error) {
	if value == "" {
		return 0, false, nil
	}
	if strings.HasPrefix(value, ".") || strings.HasPrefix(value, "-.") || strings.HasPrefix(value, "+.") {
		neg := strings.HasPrefix(value, "-")
		digits := strings.TrimPrefix(strings.TrimPrefix(value, "-"), "+")
		digits = strings.TrimPrefix(digits, ".")
		if digits == "" {
			return 0, false, fmt.Errorf("empty fraction")
		}
		for len(digits) < 6 {
			digits += "0"
		}
		digits = digits[:6]
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, false, err
		}
		if neg {
			n = -n
		}
		return n, true, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, false, nil
}

// parseStringOption consumes the argument up to sentinel (or the whole
// string if sentinel is 0), honoring backslash-escaping of the sentinel
// byte itself.
func parseStringOption(value string, sentinel byte) (string, error) {
	if sentinel == 0 {
		return value, nil
	}
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) && value[i+1] == sentinel {
			b.WriteByte(sentinel)
			i++
			continue
		}
		if c == sentinel {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// ValidateQuoteArg enforces §9 open question #2: the "quote" option takes
// exactly one or two bytes; three or more is rejected outright, matching
// the original's behavior rather than silently truncating.
func ValidateQuoteArg(value string) error {
	if len(value) < 1 || len(value) > 2 {
		return ErrBadOptionArg
	}
	return nil
}
