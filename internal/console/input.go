// Package console is the operator-facing surface of the handshake: it
// prompts for the three seed values and prints what the workers report.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kolkov/handoff/internal/handoff/record"
)

var (
	// ErrNoInput is returned when input ends before all values are read.
	ErrNoInput = errors.New("console: input ended")

	// ErrInvalidInt is returned for a malformed integer.
	ErrInvalidInt = errors.New("console: invalid int")

	// ErrInvalidFloat is returned for a malformed floating-point value.
	ErrInvalidFloat = errors.New("console: invalid double")
)

// Prompt labels, in the order values are requested.
const (
	PromptString = "Enter a string: "
	PromptInt    = "Enter an int: "
	PromptDouble = "Enter a double: "
)

// Prompter asks for one line of input.
type Prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// LinePrompter reads lines from any reader. It is used when input is not
// an interactive terminal (pipes, files, tests).
type LinePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewLinePrompter creates a prompter that writes labels to out and reads
// lines from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{sc: bufio.NewScanner(in), out: out}
}

// Prompt writes label and returns the next line without its terminator.
func (p *LinePrompter) Prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrNoInput
	}
	return p.sc.Text(), nil
}

// Close is a no-op; the underlying reader belongs to the caller.
func (p *LinePrompter) Close() error {
	return nil
}

// ReadlinePrompter prompts on an interactive terminal with line editing.
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter creates a readline-backed prompter on the terminal.
func NewReadlinePrompter(in io.ReadCloser, out io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Prompt shows label and returns the line the operator entered.
func (p *ReadlinePrompter) Prompt(label string) (string, error) {
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

// Close restores the terminal.
func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

// NewPrompter picks readline for an interactive terminal and falls back
// to plain line reading otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		p, err := NewReadlinePrompter(f, out)
		if err == nil {
			return p
		}
	}
	return NewLinePrompter(in, out)
}

// ReadInput prompts for a string, an integer and a floating-point value,
// in that order.
//
// The string is taken verbatim (without its line terminator). Numbers may
// be surrounded by spaces; anything else that does not parse is rejected.
func ReadInput(p Prompter) (record.Payload, error) {
	var in record.Payload

	text, err := p.Prompt(PromptString)
	if err != nil {
		return in, err
	}
	in.Text = text

	line, err := p.Prompt(PromptInt)
	if err != nil {
		return in, err
	}
	if in.Count, err = strconv.Atoi(strings.TrimSpace(line)); err != nil {
		return in, fmt.Errorf("%w: %q", ErrInvalidInt, line)
	}

	line, err = p.Prompt(PromptDouble)
	if err != nil {
		return in, err
	}
	if in.Amount, err = strconv.ParseFloat(strings.TrimSpace(line), 64); err != nil {
		return in, fmt.Errorf("%w: %q", ErrInvalidFloat, line)
	}

	return in, nil
}
