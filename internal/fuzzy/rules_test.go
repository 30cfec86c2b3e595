package fuzzy

import "testing"

func TestPendulumRulesTable(t *testing.T) {
	rb := PendulumRules()
	if rb.Len() != 15 {
		t.Fatalf("expected 15 rules, got %d", rb.Len())
	}

	expected := map[[2]Label]Label{
		{NG, NG}: PG, {NG, NP}: PG, {NG, Z}: PP,
		{NP, NG}: PG, {NP, NP}: PP, {NP, Z}: PP,
		{Z, NG}: PP, {Z, NP}: PP, {Z, Z}: Z,
		{PP, Z}: NP, {PP, PP}: NP, {PP, PG}: NG,
		{PG, Z}: NP, {PG, PP}: NG, {PG, PG}: NG,
	}

	absent := 0
	for _, a := range Labels {
		for _, v := range Labels {
			got, ok := rb.Lookup(a, v)
			want, listed := expected[[2]Label{a, v}]
			if ok != listed {
				t.Errorf("(%s, %s): present=%v, want %v", a, v, ok, listed)
				continue
			}
			if !ok {
				absent++
				continue
			}
			if got != want {
				t.Errorf("(%s, %s) -> %s, want %s", a, v, got, want)
			}
		}
	}
	if absent != 10 {
		t.Errorf("expected 10 empty cells, got %d", absent)
	}
}

func TestRuleBaseMirroredPairs(t *testing.T) {
	rb := PendulumRules()

	mirrored := 0
	for _, r := range rb.Rules() {
		got, ok := rb.Lookup(r.Angle.Mirror(), r.Velocity.Mirror())
		if ok && got == r.Force.Mirror() {
			mirrored++
		}
	}
	if mirrored != 13 {
		t.Errorf("expected 13 rules with a mirrored partner, got %d", mirrored)
	}

	want := []Rule{{Z, NG, PP}, {Z, NP, PP}}
	got := rb.Unmirrored()
	if len(got) != len(want) {
		t.Fatalf("Unmirrored() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unmirrored()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	for _, v := range []Label{PP, PG} {
		if f, ok := rb.Lookup(Z, v); ok {
			t.Errorf("(Z, %s) -> %s should be absent", v, f)
		}
	}
}

func TestRuleBaseRowOrder(t *testing.T) {
	rules := PendulumRules().Rules()
	first, last := rules[0], rules[len(rules)-1]
	if first != (Rule{NG, NG, PG}) {
		t.Errorf("first rule = %v", first)
	}
	if last != (Rule{PG, PG, NG}) {
		t.Errorf("last rule = %v", last)
	}
}

func TestRuleBaseRejectsDuplicateCell(t *testing.T) {
	_, err := NewRuleBase(Rule{Z, Z, Z}, Rule{Z, Z, PG})
	if err == nil {
		t.Error("expected error for duplicate cell")
	}
}

func TestRuleBaseLookupInvalid(t *testing.T) {
	rb := PendulumRules()
	if _, ok := rb.Lookup(Label(-1), Z); ok {
		t.Error("invalid label should not match")
	}
}
