package transcript

import (
	"context"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr, err := Open(ctx, "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer tr.Close()

	want := []string{"3", "hello world", "(nothing)"}
	for _, line := range want {
		if err := tr.Println(line); err != nil {
			t.Fatalf("println: %v", err)
		}
	}

	got, err := tr.Lines(ctx)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines wrong. expected=%q, got=%q", want, got)
	}
	if len(tr.Session()) != 32 {
		t.Fatalf("session id %q is not 32 hex chars", tr.Session())
	}
}

func TestSessionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	tr, err := Open(ctx, "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer tr.Close()

	_ = tr.Println("mine")
	other, err := tr.SessionLines(ctx, "someone-else")
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("foreign session returned %q", other)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	if err == nil || !strings.Contains(err.Error(), "unsupported transcript driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}
