// Package repl is the interactive shell: a Session that evaluates one
// submission at a time against a persistent hub, and a liner-driven loop
// around it.
package repl

import (
	"errors"
	"fmt"
	"gloom/internal/evaluator"
	"gloom/internal/hub"
	"gloom/internal/sout"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	PROMPT       = "gloom> "
	CONTINUATION = "...... "
	HistoryFile  = ".gloom_history"
)

const help = `:quit     leave the shell
:hub      describe every object in the hub
:env      list bound names
:methods  list the selectors Everything understands
:help     show this text
Statements end with '.'; a submission without one continues on the next line.`

// ErrQuit is returned by Session.Eval when the user asks to leave.
var ErrQuit = errors.New("quit")

type Session struct {
	eval *evaluator.Evaluator
	hub  *hub.Hub
}

// NewSession evaluates against h and prints program output to sink.
func NewSession(h *hub.Hub, sink sout.Sink) *Session {
	return &Session{eval: evaluator.New(h, sink), hub: h}
}

func (s *Session) Evaluator() *evaluator.Evaluator { return s.eval }

// Complete reports whether src is ready to evaluate: every statement is
// terminated, or it is a shell command.
func Complete(src string) bool {
	src = strings.TrimSpace(src)
	return src == "" || isCommand(src) || strings.HasSuffix(src, ".")
}

func isCommand(src string) bool {
	return strings.HasPrefix(src, ":") && !strings.ContainsAny(src, " .")
}

// Eval runs one submission and returns the text to show for it.
func (s *Session) Eval(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	if isCommand(src) {
		return s.command(src)
	}

	result, err := s.eval.Run(src)
	if err != nil {
		return "", err
	}
	return result.Value().String(), nil
}

func (s *Session) command(cmd string) (string, error) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return "", ErrQuit
	case ":hub":
		return strings.TrimSuffix(s.hub.Describe(), "\n"), nil
	case ":env":
		return strings.Join(s.eval.Environment().Names(), "\n"), nil
	case ":methods":
		return strings.Join(s.eval.Everything().Selectors(), " "), nil
	case ":help":
		return help, nil
	}
	// anything else is an argument-first statement missing its period
	return s.Eval(cmd + ".")
}

// Start runs the interactive loop until EOF or :quit. History is kept in
// historyPath when it is set.
func Start(s *Session, prompt, historyPath string, out io.Writer) {
	if prompt == "" {
		prompt = PROMPT
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readSubmission(ln, prompt)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		text, err := s.Eval(src)
		if errors.Is(err, ErrQuit) {
			return
		}
		if err != nil {
			slog.Debug("repl evaluation failed", slog.Any("error", err))
			printErrors(out, err)
			continue
		}
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
}

func readSubmission(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = CONTINUATION
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ctrl-c drops the pending submission
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if Complete(b.String()) {
			return b.String(), true
		}
	}
}

func printErrors(out io.Writer, err error) {
	io.WriteString(out, "Oops! That did not make sense to gloom:\n")
	for _, line := range strings.Split(err.Error(), "\n") {
		io.WriteString(out, "\t"+line+"\n")
	}
}

// DefaultHistoryPath is $HOME/.gloom_history, or "" without a home directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFile)
}
