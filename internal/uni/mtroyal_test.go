package uni

import (
	"context"
	"os"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
	"github.com/zerojuls/ScheduleStorm-Server/internal/portal"
	"github.com/zerojuls/ScheduleStorm-Server/internal/store"
)

// fakePortal serves canned portal responses.
type fakePortal struct {
	terms    []portal.Option
	subjects []portal.Option
	listing  string
	descs    map[string]string
}

func (f *fakePortal) Login(ctx context.Context) error { return nil }

func (f *fakePortal) TermOptions(ctx context.Context) ([]portal.Option, error) {
	return f.terms, nil
}

func (f *fakePortal) SubjectOptions(ctx context.Context, termID string) ([]portal.Option, error) {
	return f.subjects, nil
}

func (f *fakePortal) Listing(ctx context.Context, termID string, subjects []string) (string, error) {
	if f.listing == "" {
		return "", portal.ErrNoData
	}
	return f.listing, nil
}

func (f *fakePortal) DescriptionPage(ctx context.Context, subject, coursenum string) (string, bool, error) {
	body, ok := f.descs[subject+coursenum]
	return body, ok, nil
}

func loadListingFixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("../../testdata/fixtures/listing.html")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(b)
}

func TestTermsPolicy(t *testing.T) {
	p := &fakePortal{terms: []portal.Option{
		{Value: "", Label: "None"},
		{Value: "%", Label: "All"},
		{Value: "202510", Label: "Fall 2025 Credit"},
		{Value: "202520", Label: "Winter 2026 Credit"},
		{Value: "202450", Label: "Fall 2024 Credit"},
		{Value: "202511", Label: "Fall 2025 Credit (View Only)"},
		{Value: "202512", Label: "Fall 2025 Continuing Education"},
	}}

	m := NewMountRoyal(p, store.NewMemory(), 1)
	m.now = func() time.Time {
		return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	}

	terms, err := m.Terms(context.Background())
	if err != nil {
		t.Fatalf("Terms failed: %v", err)
	}

	want := []model.Term{
		{ID: "202510", Name: "Fall 2025 Credit", Enabled: true},
		{ID: "202520", Name: "Winter 2026 Credit", Enabled: true},
	}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("terms = %+v, want %+v", terms, want)
	}
}

func TestSubjects(t *testing.T) {
	p := &fakePortal{subjects: []portal.Option{
		{Value: "PHIL", Label: "Philosophy"},
		{Value: "MATH", Label: "Mathematics"},
	}}

	m := NewMountRoyal(p, store.NewMemory(), 1)
	subjects, err := m.Subjects(context.Background(), "202510")
	if err != nil {
		t.Fatalf("Subjects failed: %v", err)
	}

	want := []model.Subject{
		{Code: "PHIL", Name: "Philosophy"},
		{Code: "MATH", Name: "Mathematics"},
	}
	if !reflect.DeepEqual(subjects, want) {
		t.Errorf("subjects = %+v, want %+v", subjects, want)
	}
}

func TestParseListingStoresSections(t *testing.T) {
	p := &fakePortal{}
	st := store.NewMemory()
	m := NewMountRoyal(p, st, 2)

	if err := m.ParseListing(context.Background(), loadListingFixture(t), "202510"); err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	sections := st.Sections()
	if len(sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(sections))
	}

	byKey := make(map[string]model.Section, len(sections))
	for _, s := range sections {
		byKey[s.Subject+" "+s.CourseNum+" "+s.Type+" "+s.Section] = s
	}

	lec := byKey["PHIL 1101 LEC 001"]
	if lec.ID != 30245 {
		t.Errorf("LEC 001 id = %d, want 30245", lec.ID)
	}
	wantTimes := []string{"MW 01:00PM - 01:50PM", "F 03:00PM - 03:50PM"}
	if !reflect.DeepEqual(lec.Times, wantTimes) {
		t.Errorf("LEC 001 times = %v, want %v", lec.Times, wantTimes)
	}
	if !reflect.DeepEqual(lec.Teachers, []string{"John Smith"}) {
		t.Errorf("LEC 001 teachers = %v", lec.Teachers)
	}
	if !reflect.DeepEqual(lec.Rooms, []string{"EB1112", "EB1112"}) {
		t.Errorf("LEC 001 rooms = %v", lec.Rooms)
	}
	if lec.Status != model.StatusOpen {
		t.Errorf("LEC 001 status = %q", lec.Status)
	}
	if lec.Term != "202510" || lec.Location != defaultLocation {
		t.Errorf("LEC 001 term/location = %q/%q", lec.Term, lec.Location)
	}

	if s := byKey["PHIL 1101 LAB 501"]; s.Status != model.StatusWaitList {
		t.Errorf("LAB 501 status = %q, want %q", s.Status, model.StatusWaitList)
	}
	if s := byKey["PHIL 1101 LAB 502"]; s.Status != model.StatusClosed {
		t.Errorf("LAB 502 status = %q, want %q", s.Status, model.StatusClosed)
	}
	if s := byKey["PHIL 1179 LEC 001"]; !reflect.DeepEqual(s.Times, []string{"TBA"}) {
		t.Errorf("PHIL 1179 times = %v, want [TBA]", s.Times)
	}
}

func TestParseListingResolvesGroups(t *testing.T) {
	p := &fakePortal{}
	st := store.NewMemory()
	m := NewMountRoyal(p, st, 1)

	if err := m.ParseListing(context.Background(), loadListingFixture(t), "202510"); err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	groups := make(map[string][]string)
	for _, s := range st.Sections() {
		groups[s.Subject+" "+s.CourseNum+" "+s.Type+" "+s.Section] = s.Group
	}

	want := map[string][]string{
		// The note names the lecture and its lab alternatives.
		"PHIL 1101 LEC 001": {"1"},
		"PHIL 1101 LAB 501": {"2"},
		"PHIL 1101 LAB 502": {"2"},
		// Groupings are keyed by type and section across the whole term.
		"PHIL 1179 LEC 001": {"1"},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %v, want %v", groups, want)
	}
}

func TestParseListingFetchesMissingDescriptions(t *testing.T) {
	p := &fakePortal{descs: map[string]string{}}
	st := store.NewMemory()

	// PHIL 1179 is already described; only PHIL 1101 needs a fetch.
	st.UpsertDescription(context.Background(), model.CourseDescription{
		Subject:   "PHIL",
		CourseNum: "1179",
		Name:      "Intro to Logic",
	})

	m := NewMountRoyal(p, st, 2)
	if err := m.ParseListing(context.Background(), loadListingFixture(t), "202510"); err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	descs := st.Descriptions()
	if len(descs) != 2 {
		t.Fatalf("descriptions = %d, want 2", len(descs))
	}

	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	// The calendar page is missing, so the listing title stands in.
	want := []string{"Critical Thinking", "Intro to Logic"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}
