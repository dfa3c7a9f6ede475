package repl

import (
	"errors"
	"gloom/internal/hub"
	"gloom/internal/sout"
	"strings"
	"testing"
)

func TestSessionEval(t *testing.T) {
	out := &sout.Buffer{}
	s := NewSession(hub.New(), out)

	tests := []struct {
		input    string
		expected string
	}{
		{"(1 + 2).", "3"},
		{":set x :to 'hi'.", "hi"},
		{"x + '!'.", "hi!"},
		{":size", "0"},
		{"", ""},
	}
	for i, tt := range tests {
		got, err := s.Eval(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - %q failed: %v", i, tt.input, err)
		}
		if got != tt.expected {
			t.Fatalf("tests[%d] - %q wrong. expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestSessionPersistsHub(t *testing.T) {
	h := hub.New()
	out := &sout.Buffer{}
	s := NewSession(h, out)

	if _, err := s.Eval(":new 'kept' :location 2."); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, err := s.Eval("(:dereference 2) :print."); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out.String() != "kept\n" {
		t.Fatalf("output wrong. got=%q", out.String())
	}

	dump, err := s.Eval(":hub")
	if err != nil || !strings.Contains(dump, "gloom object @#2: kept") {
		t.Fatalf(":hub output wrong: %q, %v", dump, err)
	}
	names, _ := s.Eval(":env")
	if names != "Everything" {
		t.Fatalf(":env = %q", names)
	}
}

func TestSessionCommands(t *testing.T) {
	s := NewSession(hub.New(), sout.Discard)
	if _, err := s.Eval(":quit"); !errors.Is(err, ErrQuit) {
		t.Fatalf(":quit returned %v", err)
	}
	if text, _ := s.Eval(":help"); !strings.Contains(text, ":quit") {
		t.Fatalf(":help = %q", text)
	}
	methods, _ := s.Eval(":methods")
	for _, selector := range []string{"new:location", "dereference", "set:to", "print"} {
		if !strings.Contains(" "+methods+" ", " "+selector+" ") {
			t.Fatalf(":methods missing %q: %q", selector, methods)
		}
	}
	if _, err := s.Eval("1 + ."); err == nil {
		t.Fatalf("parse error not reported")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 + 2.", true},
		{"1 + 2", false},
		{":hub", true},
		{":new 1", false},
		{"  ", true},
		{"x :print.\n", true},
	}
	for i, tt := range tests {
		if got := Complete(tt.input); got != tt.expected {
			t.Fatalf("tests[%d] - Complete(%q) = %v, want %v", i, tt.input, got, tt.expected)
		}
	}
}
