package goless

import (
	"bytes"
	"fmt"
)

// keyFileMagic and keyFileEnd are the leading/trailing markers of the
// binary key-binding file format (§6).
var (
	keyFileMagic = []byte{0, 'M', '+', 'G'}
	keyFileEnd   = []byte{'E', 'n', 'd'}
)

// Section tags identify the payload kind following a length-prefixed
// section in a key-binding file (§6).
const (
	sectionCommand = 'c'
	sectionEdit    = 'e'
	sectionVar     = 'v'
	sectionEnd     = 'x'
)

// ErrBadKeyFile is returned for a key-binding file that fails magic/footer
// or section-tag validation.
var ErrBadKeyFile = fmt.Errorf("%w: malformed key-binding file", ErrUserInput)

// KeyFile is the parsed result of loading a lesskey-style binary
// key-binding file: one ActionTable per section kind present.
type KeyFile struct {
	Command *ActionTable
	Edit    *ActionTable
	Vars    map[string]string
}

// ParseKeyFile decodes a key-binding file per §6: magic bytes, a sequence
// of <tag><u16-as-two-base64-digits><payload> sections, ending in the
// footer magic. A file lacking the leading magic is assumed to be the
// pre-241 format — a single bare command table with no section framing —
// and is loaded as such.
func ParseKeyFile(data []byte) (*KeyFile, error) {
	if !bytes.HasPrefix(data, keyFileMagic) {
		return parseLegacyKeyFile(data)
	}
	if !bytes.HasSuffix(data, keyFileEnd) {
		return nil, ErrBadKeyFile
	}

	kf := &KeyFile{Vars: make(map[string]string)}
	body := data[len(keyFileMagic) : len(data)-len(keyFileEnd)]

	for len(body) > 0 {
		tag := body[0]
		if tag == sectionEnd {
			break
		}
		if len(body) < 3 {
			return nil, ErrBadKeyFile
		}
		length, err := decodeBase64Len(body[1:3])
		if err != nil {
			return nil, err
		}
		if len(body) < 3+length {
			return nil, ErrBadKeyFile
		}
		payload := body[3 : 3+length]
		body = body[3+length:]

		switch tag {
		case sectionCommand:
			kf.Command = parseActionTablePayload(payload)
		case sectionEdit:
			kf.Edit = parseActionTablePayload(payload)
		case sectionVar:
			parseVarPayload(payload, kf.Vars)
		default:
			return nil, ErrBadKeyFile
		}
	}
	return kf, nil
}

// parseLegacyKeyFile handles a pre-version-241 file: no magic, no section
// framing, the entire content is one command-table payload in the §4.5
// record format.
func parseLegacyKeyFile(data []byte) (*KeyFile, error) {
	return &KeyFile{Command: parseActionTablePayload(data), Vars: map[string]string{}}, nil
}

// decodeBase64Len decodes a length stored as two base-64 digits,
// little-endian, per §6: "each u16 is little-endian, stored as two base-64
// digits (radix 64)".
func decodeBase64Len(b []byte) (int, error) {
	lo, err := base64Digit(b[0])
	if err != nil {
		return 0, err
	}
	hi, err := base64Digit(b[1])
	if err != nil {
		return 0, err
	}
	return lo | (hi << 6), nil
}

func base64Digit(c byte) (int, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return int(c-'0') + 52, nil
	case c == '+':
		return 62, nil
	case c == '/':
		return 63, nil
	default:
		return 0, ErrBadKeyFile
	}
}

// parseActionTablePayload decodes a §4.5 record-format byte stream into an
// ActionTable: records are <keys...>\0<action>[<A_EXTRA><extra...>\0],
// terminated by a lone A_END_LIST byte.
func parseActionTablePayload(payload []byte) *ActionTable {
	t := NewActionTable()
	i := 0
	for i < len(payload) {
		if payload[i] == byte(AEndList) {
			break
		}
		nul := bytes.IndexByte(payload[i:], 0)
		if nul < 0 {
			break
		}
		keys := payload[i : i+nul]
		i += nul + 1
		if i >= len(payload) {
			break
		}
		act := Action(payload[i])
		i++
		var extra []byte
		if hasExtra(act) {
			enul := bytes.IndexByte(payload[i:], 0)
			if enul < 0 {
				extra = payload[i:]
				i = len(payload)
			} else {
				extra = payload[i : i+enul]
				i += enul + 1
			}
		}
		t.Add(keys, act, extra)
	}
	return t
}

// parseVarPayload decodes the 'v' section: NUL-separated name=value pairs,
// used for lesskey's environment-variable-style bindings.
func parseVarPayload(payload []byte, out map[string]string) {
	for _, field := range bytes.Split(payload, []byte{0}) {
		if len(field) == 0 {
			continue
		}
		eq := bytes.IndexByte(field, '=')
		if eq < 0 {
			continue
		}
		out[string(field[:eq])] = string(field[eq+1:])
	}
}
