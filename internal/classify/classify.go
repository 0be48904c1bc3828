// Package classify assigns a display color and line width to each curve.
//
// Two schemes exist. Label classification runs an ordered rule list against
// the row label; the first rule whose predicate holds wins. Parity
// classification ignores labels and colors rows by their position in the
// file. Neither scheme supersedes the other; callers pick one per chart.
package classify

import (
	"strings"

	"github.com/RMahshie/curveplot/pkg/models"
)

// Separator splits a label into its display prefix and the rest ("A-Left" -> "A")
const Separator = "-"

const (
	LimitColor     = "#000000"
	LimitWidth     = 3.0
	DefaultWidth   = 1.0
	UnmatchedColor = "#1F77B4"

	LeftColor  = "#66FF33"
	RightColor = "#FF0000"
)

// Marker is one entry of the code -> color table
type Marker struct {
	Code  string `yaml:"code"`
	Color string `yaml:"color"`
}

// DefaultMarkers is the built-in marker table in priority order
var DefaultMarkers = []Marker{
	{Code: "A", Color: "#66FF33"},
	{Code: "B", Color: "#FF0000"},
	{Code: "C", Color: "#00B0F0"},
	{Code: "D", Color: "#FFC000"},
	{Code: "E", Color: "#808000"},
	{Code: "F", Color: "#7030A0"},
	{Code: "G", Color: "#00FFFF"},
	{Code: "H", Color: "#FF00FF"},
}

// Predicate reports whether a rule applies to a label
type Predicate func(label string) bool

// Rule maps labels satisfying Match to a color and width
type Rule struct {
	Name  string
	Match Predicate
	Color string
	Width float64
	Limit bool
}

// Classifier decides the style of a curve given its label and row index
type Classifier interface {
	Classify(label string, index int) models.ColorAssignment
}

// IsLimit reports whether a label names a limit curve
func IsLimit(label string) bool {
	return strings.Contains(strings.ToLower(label), "limit")
}

// Prefix returns the label up to the first separator
func Prefix(label string) string {
	prefix, _, _ := strings.Cut(label, Separator)
	return prefix
}

// LimitRule matches limit curves
func LimitRule() Rule {
	return Rule{Name: "limit", Match: IsLimit, Color: LimitColor, Width: LimitWidth, Limit: true}
}

// MarkerRule matches labels containing "#<code>" or whose prefix is exactly code
func MarkerRule(m Marker) Rule {
	token := "#" + m.Code
	return Rule{
		Name: m.Code,
		Match: func(label string) bool {
			return strings.Contains(label, token) || Prefix(label) == m.Code
		},
		Color: m.Color,
		Width: DefaultWidth,
	}
}

// RuleSet classifies labels with an ordered rule list, first match wins
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds the standard rule list: limit first, then the markers in order
func NewRuleSet(markers []Marker) *RuleSet {
	rules := make([]Rule, 0, len(markers)+1)
	rules = append(rules, LimitRule())
	for _, m := range markers {
		rules = append(rules, MarkerRule(m))
	}
	return &RuleSet{rules: rules}
}

// NewDefault returns the rule set for the built-in marker table
func NewDefault() *RuleSet {
	return NewRuleSet(DefaultMarkers)
}

// Rules returns a copy of the rule list in evaluation order
func (s *RuleSet) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Classify evaluates the rules top to bottom. The index is ignored.
func (s *RuleSet) Classify(label string, _ int) models.ColorAssignment {
	for _, r := range s.rules {
		if r.Match(label) {
			return models.ColorAssignment{
				Color:   r.Color,
				Width:   r.Width,
				Limit:   r.Limit,
				Matched: true,
				Rule:    r.Name,
			}
		}
	}
	return models.ColorAssignment{Color: UnmatchedColor, Width: DefaultWidth}
}

// Parity colors rows by position. FR files carry two limit rows, THD files one;
// the remaining rows alternate between left and right channels.
type Parity struct {
	Kind models.ChartKind
}

func (p Parity) Classify(_ string, index int) models.ColorAssignment {
	limit := models.ColorAssignment{Color: LimitColor, Width: LimitWidth, Limit: true, Matched: true, Rule: "limit"}
	left := models.ColorAssignment{Color: LeftColor, Width: DefaultWidth, Matched: true, Rule: "left"}
	right := models.ColorAssignment{Color: RightColor, Width: DefaultWidth, Matched: true, Rule: "right"}

	if index < p.LimitRows() {
		return limit
	}
	if p.Kind == models.ChartTHD {
		if index%2 == 1 {
			return right
		}
		return left
	}
	if index%2 == 0 {
		return left
	}
	return right
}

// LimitRows is the number of leading limit rows for the chart kind
func (p Parity) LimitRows() int {
	if p.Kind == models.ChartTHD {
		return 1
	}
	return 2
}

// New returns the classifier for a color mode
func New(mode models.ColorMode, kind models.ChartKind, rules *RuleSet) Classifier {
	if mode == models.ColorByParity {
		return Parity{Kind: kind}
	}
	if rules == nil {
		rules = NewDefault()
	}
	return rules
}

// All classifies every label in order
func All(c Classifier, labels []string) []models.ColorAssignment {
	out := make([]models.ColorAssignment, len(labels))
	for i, l := range labels {
		out[i] = c.Classify(l, i)
	}
	return out
}
