package store

import (
	"context"
	"sync"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// Memory is an in-memory CatalogStore used by tests and dry runs. It is safe
// for concurrent use; description upserts arrive from the fetch pool's
// workers.
type Memory struct {
	mu       sync.Mutex
	terms    map[string]model.Term
	subjects map[string]model.Subject
	sections map[string]model.Section
	descs    map[string]model.CourseDescription
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		terms:    make(map[string]model.Term),
		subjects: make(map[string]model.Subject),
		sections: make(map[string]model.Section),
		descs:    make(map[string]model.CourseDescription),
	}
}

func (m *Memory) UpsertTerm(ctx context.Context, t model.Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.Enabled = true
	m.terms[t.ID] = t
	return nil
}

func (m *Memory) ResetEnabledTerms(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.terms {
		t.Enabled = false
		m.terms[id] = t
	}
	return nil
}

func (m *Memory) UpsertSubject(ctx context.Context, s model.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[s.Code] = s
	return nil
}

func sectionKey(s model.Section) string {
	return s.Term + "|" + s.Subject + "|" + s.CourseNum + "|" + s.Section + "|" + s.Type
}

func (m *Memory) UpsertSection(ctx context.Context, s model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections[sectionKey(s)] = s
	return nil
}

func (m *Memory) HasDescription(ctx context.Context, coursenum, subject string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.descs[subject+"|"+coursenum]
	return ok, nil
}

func (m *Memory) UpsertDescription(ctx context.Context, d model.CourseDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descs[d.Subject+"|"+d.CourseNum] = d
	return nil
}

func (m *Memory) EnabledTerms(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string)
	for id, t := range m.terms {
		if t.Enabled {
			out[id] = t.Name
		}
	}
	return out, nil
}

func (m *Memory) Locations(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, s := range m.sections {
		if s.Location != "" && !seen[s.Location] {
			seen[s.Location] = true
			out = append(out, s.Location)
		}
	}
	return out, nil
}

// Sections returns a copy of every stored section, for tests.
func (m *Memory) Sections() []model.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Section, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, s)
	}
	return out
}

// Descriptions returns a copy of every stored description, for tests.
func (m *Memory) Descriptions() []model.CourseDescription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.CourseDescription, 0, len(m.descs))
	for _, d := range m.descs {
		out = append(out, d)
	}
	return out
}
