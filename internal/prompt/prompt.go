// Package prompt runs the interactive console flow used when no file is
// given on the command line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RMahshie/curveplot/internal/axis"
	"github.com/RMahshie/curveplot/pkg/models"
)

var (
	// ErrInvalidInput means an answer was not a number
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidChoice means a number was outside the offered menu
	ErrInvalidChoice = errors.New("invalid choice")
)

// Prompter asks questions on out and reads one line answers from in
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Selection is everything the interactive flow collects before rendering
type Selection struct {
	Kind models.ChartKind
	Path string
}

// Select asks for the chart type and then the CSV file among files
func (p *Prompter) Select(files []string) (*Selection, error) {
	kind, err := p.ChartKind()
	if err != nil {
		return nil, err
	}
	path, err := p.File(files)
	if err != nil {
		return nil, err
	}
	return &Selection{Kind: kind, Path: path}, nil
}

// ChartKind shows the chart type menu
func (p *Prompter) ChartKind() (models.ChartKind, error) {
	fmt.Fprintln(p.out, "Select a chart:")
	fmt.Fprintln(p.out, "1. Frequency response (FR)")
	fmt.Fprintln(p.out, "2. Total harmonic distortion (THD)")

	n, err := p.number("Enter a number: ")
	if err != nil {
		return 0, err
	}
	switch models.ChartKind(n) {
	case models.ChartFR, models.ChartTHD:
		return models.ChartKind(n), nil
	}
	return 0, ErrInvalidChoice
}

// File lists files by 1-based index and returns the chosen one
func (p *Prompter) File(files []string) (string, error) {
	fmt.Fprintln(p.out, "Select a data file:")
	for i, f := range files {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, filepath.Base(f))
	}

	n, err := p.number("Enter a number: ")
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(files) {
		return "", ErrInvalidChoice
	}
	return files[n-1], nil
}

// YRange asks for an optional "min,max" override. An empty answer returns nil.
func (p *Prompter) YRange() (*axis.Range, error) {
	line, err := p.ask("Enter the Y axis range, e.g. (85,125), or press Enter for the default: ")
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	r, err := axis.ParseRange(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return &r, nil
}

// Message is the single line shown to the operator for err
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidChoice):
		return "Invalid choice."
	case errors.Is(err, ErrInvalidInput):
		return "Invalid input."
	}
	return err.Error()
}

func (p *Prompter) number(question string) (int, error) {
	line, err := p.ask(question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return n, nil
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
		// last line without a newline
	case errors.Is(err, io.EOF):
		return "", ErrInvalidInput
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}
