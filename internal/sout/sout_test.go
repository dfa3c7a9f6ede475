package sout

import (
	"bytes"
	"errors"
	"testing"
)

type failing struct{}

func (failing) Println(string) error { return errors.New("closed") }

func TestWriter(t *testing.T) {
	var out bytes.Buffer
	s := Writer(&out)
	_ = s.Println("hello")
	_ = s.Println("world")
	if out.String() != "hello\nworld\n" {
		t.Fatalf("output wrong. got=%q", out.String())
	}
}

func TestBuffer(t *testing.T) {
	var b Buffer
	_ = b.Println("a")
	_ = b.Println("b")
	if len(b.Lines()) != 2 || b.String() != "a\nb\n" {
		t.Fatalf("buffer wrong. got=%q", b.String())
	}
	b.Reset()
	if b.String() != "" {
		t.Fatalf("reset left %q", b.String())
	}
}

func TestTee(t *testing.T) {
	var a, b Buffer
	err := Tee(&a, failing{}, &b).Println("x")
	if err == nil {
		t.Fatalf("tee swallowed the error")
	}
	if a.String() != "x\n" || b.String() != "x\n" {
		t.Fatalf("tee did not reach every sink: a=%q b=%q", a.String(), b.String())
	}
	if Discard.Println("gone") != nil {
		t.Fatalf("discard returned an error")
	}
}
