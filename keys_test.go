package goless

import (
	"bytes"
	"testing"
)

func TestParseActionTablePayloadRoundTrip(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteString("f")
	payload.WriteByte(0)
	payload.WriteByte(byte(AForward))
	payload.WriteString("q")
	payload.WriteByte(0)
	payload.WriteByte(byte(AQuit))
	payload.WriteByte(byte(AEndList))

	tbl := parseActionTablePayload(payload.Bytes())
	res, act, _ := tbl.lookup([]byte("f"))
	if res != MatchFull || act != AForward {
		t.Fatalf("expected AForward for 'f', got %v %v", res, act)
	}
	res, act, _ = tbl.lookup([]byte("q"))
	if res != MatchFull || act != AQuit {
		t.Fatalf("expected AQuit for 'q', got %v %v", res, act)
	}
}

func TestParseActionTablePayloadExtra(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteString("Z")
	payload.WriteByte(0)
	payload.WriteByte(byte(AQuit | recordFlag))
	payload.WriteString("Zexit")
	payload.WriteByte(0)
	payload.WriteByte(byte(AEndList))

	tbl := parseActionTablePayload(payload.Bytes())
	_, act, extra := tbl.lookup([]byte("Z"))
	if act != AQuit {
		t.Fatalf("expected AQuit, got %v", act)
	}
	if string(extra) != "Zexit" {
		t.Errorf("expected extra 'Zexit', got %q", extra)
	}
}

func buildKeyFile(t *testing.T, sections map[byte][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(keyFileMagic)
	for tag, payload := range sections {
		buf.WriteByte(tag)
		lo, hi := encodeBase64Len(t, len(payload))
		buf.WriteByte(lo)
		buf.WriteByte(hi)
		buf.Write(payload)
	}
	buf.WriteByte(sectionEnd)
	buf.Write(keyFileEnd)
	return buf.Bytes()
}

func encodeBase64Len(t *testing.T, n int) (byte, byte) {
	t.Helper()
	digit := func(v int) byte {
		switch {
		case v < 26:
			return byte('A' + v)
		case v < 52:
			return byte('a' + v - 26)
		case v < 62:
			return byte('0' + v - 52)
		case v == 62:
			return '+'
		default:
			return '/'
		}
	}
	return digit(n & 0x3f), digit((n >> 6) & 0x3f)
}

func TestParseKeyFileMagicAndSections(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteString("q")
	payload.WriteByte(0)
	payload.WriteByte(byte(AQuit))
	payload.WriteByte(byte(AEndList))

	data := buildKeyFile(t, map[byte][]byte{sectionCommand: payload.Bytes()})
	kf, err := ParseKeyFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if kf.Command == nil {
		t.Fatal("expected a command table")
	}
	res, act, _ := kf.Command.lookup([]byte("q"))
	if res != MatchFull || act != AQuit {
		t.Fatalf("expected AQuit for 'q', got %v %v", res, act)
	}
}

func TestParseKeyFileLegacyFallback(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteString("Q")
	payload.WriteByte(0)
	payload.WriteByte(byte(AQuit))
	payload.WriteByte(byte(AEndList))

	kf, err := ParseKeyFile(payload.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if kf.Command == nil {
		t.Fatal("expected legacy file to parse as a bare command table")
	}
}

func TestParseKeyFileRejectsMissingFooter(t *testing.T) {
	data := append([]byte(nil), keyFileMagic...)
	data = append(data, sectionEnd)
	_, err := ParseKeyFile(data)
	if err != ErrBadKeyFile {
		t.Errorf("expected ErrBadKeyFile for missing footer, got %v", err)
	}
}
