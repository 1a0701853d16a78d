package catalog

import "testing"

func TestParseTestType(t *testing.T) {
	for _, tt := range AllTests() {
		got, err := ParseTestType(string(tt))
		if err != nil || got != tt {
			t.Errorf("ParseTestType(%q) = %q, %v", tt, got, err)
		}
	}
	for _, bad := range []string{"", "Auditory", "math"} {
		if _, err := ParseTestType(bad); err == nil {
			t.Errorf("ParseTestType(%q) succeeded, want error", bad)
		}
	}
}

func TestTestOrder(t *testing.T) {
	want := []TestType{Auditory, Visual, Language}
	got := AllTests()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllTests() = %v, want %v", got, want)
		}
	}
}

func TestModuleValid(t *testing.T) {
	for _, m := range AllModules() {
		if !m.Valid() {
			t.Errorf("%q.Valid() = false", m)
		}
		if m.DisplayName() == string(m) {
			t.Errorf("%q has no display name", m)
		}
	}
	if Module("handwriting").Valid() {
		t.Error("unknown module reported valid")
	}
}
