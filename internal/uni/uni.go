package uni

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
	"github.com/zerojuls/ScheduleStorm-Server/internal/portal"
	"github.com/zerojuls/ScheduleStorm-Server/internal/store"
)

// University is the capability set a per-institution scraper implements.
// The pipeline behind ParseListing is shared; only the portal specifics
// differ between institutions.
type University interface {
	// Login establishes the portal session.
	Login(ctx context.Context) error

	// Terms returns the terms students can currently register in.
	Terms(ctx context.Context) ([]model.Term, error)

	// Subjects returns the subjects offered for a term.
	Subjects(ctx context.Context, termID string) ([]model.Subject, error)

	// FetchListing retrieves the raw class listing for the subjects.
	FetchListing(ctx context.Context, termID string, subjects []string) (string, error)

	// ParseListing parses a term's listing and drives it to completion,
	// blocking until queued description fetches are stored.
	ParseListing(ctx context.Context, doc, termID string) error
}

// Scrape runs one full catalog update: terms are replaced wholesale, then
// every term's subjects and class listing are fetched and parsed. Failures
// inside one term degrade to a smaller result set for this cycle; the next
// scheduled scrape self-heals.
func Scrape(ctx context.Context, u University, st store.CatalogStore) error {
	start := time.Now()

	if err := u.Login(ctx); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	terms, err := u.Terms(ctx)
	if err != nil {
		return fmt.Errorf("obtaining terms: %w", err)
	}

	if err := st.ResetEnabledTerms(ctx); err != nil {
		return fmt.Errorf("resetting terms: %w", err)
	}
	for _, t := range terms {
		logger.Debug("enabling term", logger.Fields{"term": t.ID, "name": t.Name})
		if err := st.UpsertTerm(ctx, t); err != nil {
			return fmt.Errorf("updating term %s: %w", t.ID, err)
		}
	}

	for _, t := range terms {
		scrapeTerm(ctx, u, st, t)
	}

	logger.RecordTiming("scrape.cycle", time.Since(start))
	logger.Info("scrape cycle finished", logger.Fields{
		"terms":   len(terms),
		"elapsed": time.Since(start).String(),
		"metrics": logger.GetMetricsSnapshot(),
	})
	return nil
}

// scrapeTerm handles a single term. Errors are logged and swallowed so one
// bad term never aborts the rest of the cycle.
func scrapeTerm(ctx context.Context, u University, st store.CatalogStore, t model.Term) {
	subjects, err := u.Subjects(ctx, t.ID)
	if err != nil {
		logger.Error("couldn't obtain subjects", logger.Fields{"term": t.ID}, err)
		return
	}

	codes := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if err := st.UpsertSubject(ctx, s); err != nil {
			logger.Error("couldn't store subject", logger.Fields{"subject": s.Code}, err)
			continue
		}
		logger.Debug("updated subject", logger.Fields{"subject": s.Code, "term": t.ID})
		codes = append(codes, s.Code)
	}

	logger.Info("obtaining term data", logger.Fields{
		"term":     t.ID,
		"subjects": len(codes),
	})

	doc, err := u.FetchListing(ctx, t.ID, codes)
	if errors.Is(err, portal.ErrNoData) {
		logger.Info("no classes for term", logger.Fields{"term": t.ID})
		return
	}
	if err != nil {
		logger.Error("couldn't fetch listing", logger.Fields{"term": t.ID}, err)
		return
	}

	if err := u.ParseListing(ctx, doc, t.ID); err != nil {
		logger.Error("couldn't parse listing", logger.Fields{"term": t.ID}, err)
	}
}
