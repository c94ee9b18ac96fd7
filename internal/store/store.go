// Package store persists the scraped catalog for one university.
//
// The store package exposes the CatalogStore interface consumed by the
// scraper pipeline, a MongoDB implementation used in production, and an
// in-memory implementation for tests and dry runs. Every write is an
// idempotent upsert keyed by the document's natural identity, so a scrape
// cycle can simply be re-run over the previous one.
package store

import (
	"context"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// CatalogStore is the persistence sink for one university's catalog.
type CatalogStore interface {
	// UpsertTerm stores a term, marking it enabled.
	UpsertTerm(ctx context.Context, t model.Term) error

	// ResetEnabledTerms disables every stored term. A scrape cycle calls this
	// before upserting the freshly discovered set; terms are never deleted.
	ResetEnabledTerms(ctx context.Context) error

	// UpsertSubject stores a subject, keyed by its code.
	UpsertSubject(ctx context.Context, s model.Subject) error

	// UpsertSection replaces the section identified by
	// (term, subject, coursenum, section, type).
	UpsertSection(ctx context.Context, s model.Section) error

	// HasDescription reports whether a description exists for the course.
	HasDescription(ctx context.Context, coursenum, subject string) (bool, error)

	// UpsertDescription stores a course description, keyed by
	// (subject, coursenum).
	UpsertDescription(ctx context.Context, d model.CourseDescription) error

	// EnabledTerms returns the enabled terms as an id-to-name map.
	EnabledTerms(ctx context.Context) (map[string]string, error)

	// Locations returns the distinct non-empty section locations.
	Locations(ctx context.Context) ([]string, error)
}
