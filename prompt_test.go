package goless

import "testing"

func TestPromptDigitAccumulation(t *testing.T) {
	var p Prompt
	p.Begin(PromptDigit)
	p.Feed('4')
	p.Feed('2')
	res := p.Feed('j') // terminating non-digit key

	if !res.Done {
		t.Fatal("expected digit accumulation to complete on non-digit key")
	}
	if res.Count != 42 {
		t.Errorf("expected count 42, got %d", res.Count)
	}
	if p.Mode != PromptNone {
		t.Error("expected prompt to return to PromptNone")
	}
}

func TestPromptDigitBackspace(t *testing.T) {
	var p Prompt
	p.Begin(PromptDigit)
	p.Feed('1')
	p.Feed('2')
	p.Feed(keyBackspace)
	res := p.Feed('\n')
	if res.Count != 1 {
		t.Errorf("expected backspace to remove the last digit, got count %d", res.Count)
	}
}

func TestPromptSearchModifiers(t *testing.T) {
	var p Prompt
	p.Begin(PromptSearch)
	p.Feed('!')
	p.Feed('p')
	p.Feed('a')
	p.Feed('t')
	res := p.Feed('\n')

	if !res.Done {
		t.Fatal("expected search prompt to complete on newline")
	}
	if res.Value != "pat" {
		t.Errorf("expected pattern 'pat', got %q", res.Value)
	}
	if res.Flags&SearchInvert == 0 {
		t.Error("expected SearchInvert flag from leading '!'")
	}
}

func TestPromptAbortOnCtrlG(t *testing.T) {
	var p Prompt
	p.Begin(PromptSearch)
	p.Feed('a')
	res := p.Feed(keyCtrlG)
	if !res.Aborted {
		t.Fatal("expected ^G to abort the prompt")
	}
	if p.Mode != PromptNone {
		t.Error("expected mode reset to PromptNone after abort")
	}
}

func TestPromptBracketCollectsTwoChars(t *testing.T) {
	var p Prompt
	p.Begin(PromptBracket)
	res := p.Feed('{')
	if res.Done {
		t.Fatal("expected bracket prompt to need a second character")
	}
	res = p.Feed('}')
	if !res.Done || res.Value != "{}" {
		t.Fatalf("expected bracket pair '{}', got done=%v value=%q", res.Done, res.Value)
	}
}

func TestPromptSetMarkCompletesOnFirstChar(t *testing.T) {
	var p Prompt
	p.Begin(PromptSetMark)
	res := p.Feed('a')
	if !res.Done || res.Value != "a" {
		t.Fatalf("expected SETMARK to complete immediately, got done=%v value=%q", res.Done, res.Value)
	}
}

func TestPromptExamineAccumulatesUntilEnter(t *testing.T) {
	var p Prompt
	p.Begin(PromptExamine)
	p.Feed('a')
	p.Feed('.')
	p.Feed('t')
	p.Feed('x')
	p.Feed('t')
	res := p.Feed('\n')
	if !res.Done || res.Value != "a.txt" {
		t.Fatalf("expected filename 'a.txt', got done=%v value=%q", res.Done, res.Value)
	}
}
