// Package terminal implements the operator-facing Confirmer and Notifier for
// the command line.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/kilianp07/fleetboard/core/board"
)

// LinePrompter asks y/N questions over plain reader/writer pairs. Anything
// other than y or yes is a refusal, as is EOF. One reader goroutine owns the
// input for the prompter's lifetime; a line typed after a prompt was
// cancelled answers the next prompt.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	start sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLinePrompter returns a prompter reading answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

// readLines feeds p.lines until the input ends. The channel is closed on EOF.
func (p *LinePrompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if line != "" {
			p.lines <- lineResult{line: line}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.lines <- lineResult{err: err}
			}
			return
		}
	}
}

func (p *LinePrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", message); err != nil {
		return false, err
	}
	p.start.Do(func() { go p.readLines() })
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return false, nil
		}
		if r.err != nil {
			return false, r.err
		}
		switch strings.ToLower(strings.TrimSpace(r.line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// FormPrompter shows a huh confirm dialog.
type FormPrompter struct {
	Affirmative string
	Negative    string
}

func (p FormPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	yes := false
	field := huh.NewConfirm().
		Title(message).
		Affirmative(p.Affirmative).
		Negative(p.Negative).
		Value(&yes)
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return yes, nil
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewConfirmer picks the huh dialog for an interactive stdin and the line
// prompter otherwise.
func NewConfirmer(in *os.File, out io.Writer) board.Confirmer {
	if IsInteractive(in) {
		return FormPrompter{Affirmative: "Reassign", Negative: "Keep"}
	}
	return NewLinePrompter(in, out)
}
