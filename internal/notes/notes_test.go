package notes

import (
	"reflect"
	"testing"
)

func TestApply(t *testing.T) {
	g := Groupings{}
	g.Apply("Lecture 007 take one of tutorials 401-403 or 406-407 and one of labs 501-502")

	want := Groupings{
		"LEC 007": {"1"},
		"TUT 401": {"2"},
		"TUT 402": {"2"},
		"TUT 403": {"2"},
		"TUT 406": {"2"},
		"TUT 407": {"2"},
		"LAB 501": {"3"},
		"LAB 502": {"3"},
	}

	if !reflect.DeepEqual(g, want) {
		t.Errorf("groupings mismatch\ngot:  %v\nwant: %v", g, want)
	}
}

func TestApplyOffsetsFromExistingIDs(t *testing.T) {
	g := Groupings{
		"LEC 001": {"1"},
		"LAB 510": {"4"},
	}
	g.Apply("Lecture 002 take lab 511")

	if got := g["LEC 002"]; !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("calling class ids = %v, want [5]", got)
	}
	if got := g["LAB 511"]; !reflect.DeepEqual(got, []string{"6"}) {
		t.Errorf("LAB 511 ids = %v, want [6]", got)
	}
}

func TestApplyDeterministic(t *testing.T) {
	note := "Lecture 007 take one of tutorials 401-403 and one of labs 501-502"

	a := Groupings{"LEC 001": {"3"}}
	b := Groupings{"LEC 001": {"3"}}
	a.Apply(note)
	b.Apply(note)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same note against same starting map produced different ids\na: %v\nb: %v", a, b)
	}
}

func TestApplyAccumulatesAcrossNotes(t *testing.T) {
	g := Groupings{}
	g.Apply("Lecture 001 take lab 501")
	g.Apply("Lecture 002 take lab 501")

	// LAB 501 is referenced by both notes and keeps both ids.
	if got := g["LAB 501"]; len(got) != 2 {
		t.Fatalf("LAB 501 ids = %v, want two ids", got)
	}
}

func TestApplyIgnoresMalformed(t *testing.T) {
	cases := []string{
		"",
		"This section is restricted to nursing majors.",
		"Frobnicator 007 take one of tutorials 401-403", // unknown type word
		"Lecture take tutorials 401-403",                // no section number
	}

	for _, note := range cases {
		g := Groupings{}
		g.Apply(note)
		if len(g) != 0 {
			t.Errorf("Apply(%q) added groupings: %v", note, g)
		}
	}
}

func TestApplyUnknownClauseTypeContributesNothing(t *testing.T) {
	g := Groupings{}
	g.Apply("Lecture 007 take one of widgets 401-403")

	want := Groupings{"LEC 007": {"1"}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("groupings = %v, want %v", g, want)
	}
}

func TestApplyCommaList(t *testing.T) {
	g := Groupings{}
	g.Apply("Lecture 001 take one of tutorials 401,403,405")

	for _, key := range []string{"TUT 401", "TUT 403", "TUT 405"} {
		if got := g[key]; len(got) != 1 || got[0] != "2" {
			t.Errorf("%s ids = %v, want [2]", key, got)
		}
	}
	if _, ok := g["TUT 402"]; ok {
		t.Error("TUT 402 should not be present for a comma list")
	}
}

func TestClassRange(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"505-507", []string{"505", "506", "507"}},
		{"505-505", []string{"505"}},
		{"507-505", nil},
		{"abc-507", nil},
		{"505", nil},
	}

	for _, tt := range tests {
		if got := classRange(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("classRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyMultiWordTypeWord(t *testing.T) {
	g := Groupings{}
	g.Apply("Work Term 101 take lecture 001")

	if got := g["WKT 101"]; len(got) != 1 {
		t.Errorf("WKT 101 ids = %v, want one id", got)
	}
	if got := g["LEC 001"]; len(got) != 1 {
		t.Errorf("LEC 001 ids = %v, want one id", got)
	}
}
