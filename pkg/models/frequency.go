package models

// CurveRow is one measured curve: the row label from column 0 and one sample per X point
type CurveRow struct {
	Label   string    `json:"label" doc:"Row label, e.g. '#A-Left' or 'LIMIT-max'"`
	Samples []float64 `json:"samples" doc:"Magnitude (FR) or ratio (THD) per frequency point; NaN marks a missing value"`
}

// CurveSet is a parsed measurement file
type CurveSet struct {
	Name string     `json:"name" doc:"Source name, used as the chart title"`
	X    []float64  `json:"x" doc:"Frequency points in Hz"`
	Rows []CurveRow `json:"rows" doc:"Measured curves"`
}

// Labels returns the row labels in file order
func (s *CurveSet) Labels() []string {
	labels := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		labels[i] = r.Label
	}
	return labels
}
