package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fuzzypend/internal/fuzzy"
)

var (
	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	headStyle   = cellStyle.Bold(true).Foreground(lipgloss.Color("#00ffff"))
	absentStyle = cellStyle.Foreground(lipgloss.Color("#444466"))
	firedStyle  = cellStyle.Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00ff88"))
)

// RuleTable draws the rule base with angle labels down the side and
// velocity labels across the top. Absent cells show a dot.
func RuleTable(rb *fuzzy.RuleBase) string {
	return ruleGrid(rb, nil)
}

// FiredTable is RuleTable with the cells that fired in inf highlighted.
func FiredTable(rb *fuzzy.RuleBase, inf fuzzy.Inference) string {
	return ruleGrid(rb, &inf)
}

func ruleGrid(rb *fuzzy.RuleBase, inf *fuzzy.Inference) string {
	var b strings.Builder
	b.WriteString(headStyle.Render("θ\\ω"))
	for _, v := range fuzzy.Labels {
		b.WriteString(headStyle.Render(v.String()))
	}
	b.WriteString("\n")

	for _, a := range fuzzy.Labels {
		b.WriteString(headStyle.Render(a.String()))
		for _, v := range fuzzy.Labels {
			f, ok := rb.Lookup(a, v)
			switch {
			case !ok:
				b.WriteString(absentStyle.Render("·"))
			case inf != nil && min(inf.Angle[a], inf.Velocity[v]) > 0:
				b.WriteString(firedStyle.Render(f.String()))
			default:
				b.WriteString(cellStyle.Render(f.String()))
			}
		}
		b.WriteString("\n")
	}
	return Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

// DescribeInference lists input degrees, aggregated output strengths and
// the crisp force.
func DescribeInference(inf fuzzy.Inference) string {
	var b strings.Builder
	row := func(name string, d fuzzy.Degrees) {
		b.WriteString(MetricLabel.Render(name))
		for _, l := range fuzzy.Labels {
			fmt.Fprintf(&b, "%s=%-6.3f", l, d[l])
		}
		b.WriteString("\n")
	}
	row("angle", inf.Angle)
	row("velocity", inf.Velocity)
	row("force", inf.Aggregated)
	if !inf.Fired() {
		b.WriteString(Subtle.Render("no rule fired") + "\n")
	}
	b.WriteString(Metric("output", fmt.Sprintf("%.4f N", inf.Force)))
	return b.String()
}
