// Package curves reads measurement CSV files into curve sets.
//
// Row 0 carries the X axis (frequencies) in columns 1..M; column 0 of that
// row is ignored. Every following row is one curve: a label in column 0 and
// one sample per frequency. Cells that do not parse as numbers become NaN.
package curves

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RMahshie/curveplot/pkg/models"
)

var (
	ErrEmpty    = errors.New("csv has no rows")
	ErrNoCurves = errors.New("csv has no curve rows")
)

// Read parses CSV content into a CurveSet named name
func Read(r io.Reader, name string) (*models.CurveSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	records = dropBlank(records)
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	width := 0
	for _, rec := range records {
		if len(rec)-1 > width {
			width = len(rec) - 1
		}
	}

	set := &models.CurveSet{
		Name: name,
		X:    numbers(records[0], width),
		Rows: make([]models.CurveRow, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		set.Rows = append(set.Rows, models.CurveRow{
			Label:   strings.TrimSpace(rec[0]),
			Samples: numbers(rec, width),
		})
	}
	if len(set.Rows) == 0 {
		return nil, ErrNoCurves
	}
	return set, nil
}

// ReadFile opens path and names the set after the file stem
func ReadFile(path string) (*models.CurveSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := Read(f, Stem(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return set, nil
}

// Stem returns the file name without directory and extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath is where the chart for the given CSV is written
func OutputPath(csvPath string) string {
	return filepath.Join(filepath.Dir(csvPath), Stem(csvPath)+"_output.png")
}

// List returns the .csv files in dir, sorted by name
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ParseCell converts a cell to a number; anything unparseable is NaN
func ParseCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// numbers converts columns 1..width of rec, padding short rows with NaN
func numbers(rec []string, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		col := i + 1
		if col < len(rec) {
			out[i] = ParseCell(rec[col])
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}
