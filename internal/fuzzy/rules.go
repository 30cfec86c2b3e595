package fuzzy

import "fmt"

// Rule reads "if angle is Angle and velocity is Velocity then force is Force".
type Rule struct {
	Angle    Label
	Velocity Label
	Force    Label
}

func (r Rule) String() string {
	return fmt.Sprintf("(%s, %s) -> %s", r.Angle, r.Velocity, r.Force)
}

type cell struct {
	force Label
	set   bool
}

// RuleBase is a sparse table over the 5x5 antecedent grid.
// Cells without a rule contribute nothing to inference.
type RuleBase struct {
	grid [NumLabels][NumLabels]cell
	n    int
}

// NewRuleBase builds the table. Two rules on the same cell are rejected.
func NewRuleBase(rules ...Rule) (*RuleBase, error) {
	rb := &RuleBase{}
	for _, r := range rules {
		if !r.Angle.Valid() || !r.Velocity.Valid() || !r.Force.Valid() {
			return nil, fmt.Errorf("rule %v: %w", r, ErrUnknownLabel)
		}
		c := &rb.grid[r.Angle][r.Velocity]
		if c.set {
			return nil, fmt.Errorf("rule %v: cell already maps to %s", r, c.force)
		}
		*c = cell{force: r.Force, set: true}
		rb.n++
	}
	return rb, nil
}

// Lookup returns the consequent for an antecedent pair, if one exists.
func (rb *RuleBase) Lookup(angle, velocity Label) (Label, bool) {
	if !angle.Valid() || !velocity.Valid() {
		return 0, false
	}
	c := rb.grid[angle][velocity]
	return c.force, c.set
}

func (rb *RuleBase) Len() int { return rb.n }

// Unmirrored lists the rules whose mirror image (both antecedents and the
// consequent negated) is not in the base.
func (rb *RuleBase) Unmirrored() []Rule {
	var out []Rule
	for _, r := range rb.Rules() {
		if f, ok := rb.Lookup(r.Angle.Mirror(), r.Velocity.Mirror()); !ok || f != r.Force.Mirror() {
			out = append(out, r)
		}
	}
	return out
}

// Rules lists the populated cells row by row (angle major).
func (rb *RuleBase) Rules() []Rule {
	out := make([]Rule, 0, rb.n)
	for a := range rb.grid {
		for v, c := range rb.grid[a] {
			if c.set {
				out = append(out, Rule{Angle: Label(a), Velocity: Label(v), Force: c.force})
			}
		}
	}
	return out
}
