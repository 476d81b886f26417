package testutil

import (
	"math"
	"testing"

	"gprcli/internal/gather"
	"gprcli/internal/recipe"
)

// AssertHistory verifies the gather history names, in order
func AssertHistory(t *testing.T, g *gather.Gather, names ...string) {
	t.Helper()
	got := make([]string, len(g.History))
	for i, rec := range g.History {
		got[i] = rec.Name
	}
	if len(got) != len(names) {
		t.Fatalf("history = %v, want %v", got, names)
	}
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("history[%d] = %s, want %s", i, got[i], names[i])
		}
	}
}

// AssertBitIdentical verifies two arrays hold exactly the same bits
func AssertBitIdentical(t *testing.T, want, got [][]float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("trace count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			t.Fatalf("trace %d length = %d, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if math.Float64bits(want[i][j]) != math.Float64bits(got[i][j]) {
				t.Fatalf("sample [%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

// AssertApplied verifies the result describes a successful application
func AssertApplied(t *testing.T, res recipe.Result) {
	t.Helper()
	if !res.Applied || res.Err != nil {
		t.Fatalf("recipe %s not applied: %s", res.Recipe, res.Diagnostic)
	}
}

// AssertFailed verifies the result is a failure of the expected kind
func AssertFailed(t *testing.T, res recipe.Result, kind recipe.ErrorType) {
	t.Helper()
	if !res.Failed() {
		t.Fatalf("recipe %s did not fail (status %s)", res.Recipe, res.Status())
	}
	if res.Kind != kind {
		t.Errorf("recipe %s failure kind = %s, want %s: %s", res.Recipe, res.Kind, kind, res.Diagnostic)
	}
}
