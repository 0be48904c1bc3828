package legend

import (
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/pkg/models"
)

// LimitLabel is shown for the entry whose first curve is a limit curve
const LimitLabel = "Limit"

// Build returns one entry per distinct color, in the order colors first appear.
// Each entry is named after the first label that used its color, cut at the separator.
func Build(labels []string, styles []models.ColorAssignment) []models.LegendEntry {
	seen := make(map[string]bool)
	var entries []models.LegendEntry
	for i, style := range styles {
		if seen[style.Color] {
			continue
		}
		seen[style.Color] = true

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		entry := models.LegendEntry{
			Label: classify.Prefix(label),
			Color: style.Color,
			Width: classify.DefaultWidth,
		}
		if classify.IsLimit(label) {
			entry.Label = LimitLabel
			entry.Width = classify.LimitWidth
		}
		entries = append(entries, entry)
	}
	return entries
}

// Parity is the fixed legend used with index-parity coloring
func Parity() []models.LegendEntry {
	return []models.LegendEntry{
		{Label: LimitLabel, Color: classify.LimitColor, Width: classify.LimitWidth},
		{Label: "Left", Color: classify.LeftColor, Width: classify.DefaultWidth},
		{Label: "Right", Color: classify.RightColor, Width: classify.DefaultWidth},
	}
}

// For picks the legend matching the color mode
func For(mode models.ColorMode, labels []string, styles []models.ColorAssignment) []models.LegendEntry {
	if mode == models.ColorByParity {
		return Parity()
	}
	return Build(labels, styles)
}
