package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/RMahshie/curveplot/internal/axis"
	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestChartKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.ChartKind
		wantErr error
	}{
		{name: "frequency response", input: "1\n", want: models.ChartFR},
		{name: "thd", input: " 2 \n", want: models.ChartTHD},
		{name: "no trailing newline", input: "2", want: models.ChartTHD},
		{name: "out of menu", input: "3\n", wantErr: ErrInvalidChoice},
		{name: "zero", input: "0\n", wantErr: ErrInvalidChoice},
		{name: "not a number", input: "fr\n", wantErr: ErrInvalidInput},
		{name: "empty", input: "\n", wantErr: ErrInvalidInput},
		{name: "eof", input: "", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newPrompter(tt.input)
			got, err := p.ChartKind()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1. Frequency response")
		})
	}
}

func TestFile(t *testing.T) {
	files := []string{"/data/a.csv", "/data/b.csv", "/data/c.csv"}

	p, out := newPrompter("2\n")
	got, err := p.File(files)
	require.NoError(t, err)
	assert.Equal(t, "/data/b.csv", got)
	assert.Contains(t, out.String(), "1. a.csv\n2. b.csv\n3. c.csv\n")

	for _, input := range []string{"0\n", "4\n", "-1\n"} {
		p, _ := newPrompter(input)
		_, err := p.File(files)
		assert.ErrorIs(t, err, ErrInvalidChoice, "input %q", input)
	}

	p, _ = newPrompter("1\n")
	_, err = p.File(nil)
	assert.ErrorIs(t, err, ErrInvalidChoice)

	p, _ = newPrompter("b.csv\n")
	_, err = p.File(files)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestYRange(t *testing.T) {
	p, _ := newPrompter("\n")
	r, err := p.YRange()
	require.NoError(t, err)
	assert.Nil(t, r, "enter keeps the default")

	p, _ = newPrompter("(85,125)\n")
	r, err = p.YRange()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, axis.Range{85, 125}, *r)

	p, _ = newPrompter("85\n")
	_, err = p.YRange()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, axis.ErrInvalidRange)
}

func TestSelect(t *testing.T) {
	p, _ := newPrompter("2\n1\n")
	sel, err := p.Select([]string{"x.csv"})
	require.NoError(t, err)
	assert.Equal(t, &Selection{Kind: models.ChartTHD, Path: "x.csv"}, sel)

	p, _ = newPrompter("9\n1\n")
	_, err = p.Select([]string{"x.csv"})
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid choice.", Message(ErrInvalidChoice))
	assert.Equal(t, "Invalid input.", Message(ErrInvalidInput))
	assert.Equal(t, "Invalid input.", Message(fmt.Errorf("y range: %w", ErrInvalidInput)))
}
