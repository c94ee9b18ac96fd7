package uni

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/zerojuls/ScheduleStorm-Server/internal/desc"
	"github.com/zerojuls/ScheduleStorm-Server/internal/listing"
	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
	"github.com/zerojuls/ScheduleStorm-Server/internal/notes"
	"github.com/zerojuls/ScheduleStorm-Server/internal/portal"
	"github.com/zerojuls/ScheduleStorm-Server/internal/store"
)

// defaultLocation is stored on every section; Mount Royal is single-campus.
const defaultLocation = "Main Campus"

// mtroyalSchema maps the positions of Mount Royal's listing table.
var mtroyalSchema = listing.Schema{
	listing.Ignored,
	{Name: "id", Kind: listing.KindInt},
	{Name: "subject"},
	{Name: "coursenum", Role: listing.RoleCourseNum},
	{Name: "section"},
	listing.Ignored,
	{Name: "title"},
	{Name: "type"},
	{Name: "times", Kind: listing.KindList, Role: listing.RoleDays},
	{Name: "times", Kind: listing.KindList, Role: listing.RoleTime},
	listing.Ignored,
	listing.Ignored,
	{Name: "status", Role: listing.RoleSeats},
	listing.Ignored,
	{Name: "teachers", Kind: listing.KindList, Role: listing.RoleTeacher},
	listing.Ignored,
	{Name: "rooms", Kind: listing.KindList, Role: listing.RoleRoom},
	listing.Ignored,
}

// portalClient is the slice of the portal the scraper needs; *portal.Client
// satisfies it.
type portalClient interface {
	Login(ctx context.Context) error
	TermOptions(ctx context.Context) ([]portal.Option, error)
	SubjectOptions(ctx context.Context, termID string) ([]portal.Option, error)
	Listing(ctx context.Context, termID string, subjects []string) (string, error)
	desc.Fetcher
}

// MountRoyal scrapes Mount Royal University's registration portal.
type MountRoyal struct {
	portal      portalClient
	store       store.CatalogStore
	concurrency int
	now         func() time.Time
}

// NewMountRoyal creates the Mount Royal scraper. concurrency bounds the
// description fetch pool.
func NewMountRoyal(p portalClient, st store.CatalogStore, concurrency int) *MountRoyal {
	return &MountRoyal{
		portal:      p,
		store:       st,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (m *MountRoyal) Login(ctx context.Context) error {
	return m.portal.Login(ctx)
}

// Terms filters the portal's term list down to what students can register
// in: this year or next, credit offerings, and nothing marked view-only.
func (m *MountRoyal) Terms(ctx context.Context) ([]model.Term, error) {
	opts, err := m.portal.TermOptions(ctx)
	if err != nil {
		return nil, err
	}

	thisYear := strconv.Itoa(m.now().Year())
	nextYear := strconv.Itoa(m.now().Year() + 1)

	var terms []model.Term
	for _, o := range opts {
		if len(o.Value) <= 1 {
			continue
		}
		if !strings.Contains(o.Label, thisYear) && !strings.Contains(o.Label, nextYear) {
			continue
		}

		label := strings.ToLower(o.Label)
		if strings.Contains(label, "view only") || !strings.Contains(label, "credit") {
			continue
		}

		terms = append(terms, model.Term{
			ID:      o.Value,
			Name:    strings.TrimSpace(o.Label),
			Enabled: true,
		})
	}
	return terms, nil
}

func (m *MountRoyal) Subjects(ctx context.Context, termID string) ([]model.Subject, error) {
	opts, err := m.portal.SubjectOptions(ctx, termID)
	if err != nil {
		return nil, err
	}

	subjects := make([]model.Subject, 0, len(opts))
	for _, o := range opts {
		subjects = append(subjects, model.Subject{
			Code: o.Value,
			Name: o.Label,
		})
	}
	return subjects, nil
}

func (m *MountRoyal) FetchListing(ctx context.Context, termID string, subjects []string) (string, error) {
	return m.portal.Listing(ctx, termID, subjects)
}

// ParseListing runs the listing through the parser and assembler, then
// drains the description fetch pool. It returns once the term is fully
// persisted.
func (m *MountRoyal) ParseListing(ctx context.Context, doc, termID string) error {
	logger.Info("parsing term", logger.Fields{"term": termID})
	start := time.Now()

	// Grouping state is owned by this parse pass and shared by every note
	// encountered in the term.
	groupings := notes.Groupings{}
	asm := newAssembler(m.store, termID, defaultLocation)

	p := listing.NewParser(mtroyalSchema,
		func(note string) { groupings.Apply(note) },
		func(batch []*listing.Record) { asm.flush(ctx, batch, groupings) },
	)
	if err := p.Parse(strings.NewReader(doc)); err != nil {
		return err
	}

	pool := desc.NewPool(m.concurrency, m.portal, m.store)
	pool.Run(ctx, asm.tasks)

	logger.RecordTiming("term.parse", time.Since(start))
	logger.Info("finished parsing term", logger.Fields{
		"term":         termID,
		"descriptions": len(asm.tasks),
	})
	return nil
}
