package uni

import (
	"context"

	"github.com/zerojuls/ScheduleStorm-Server/internal/listing"
	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
	"github.com/zerojuls/ScheduleStorm-Server/internal/notes"
	"github.com/zerojuls/ScheduleStorm-Server/internal/store"
)

// assembler turns one course's buffered records into stored sections and
// queues a description fetch for courses not yet described. The listing
// parser flushes it once per course boundary.
type assembler struct {
	store    store.CatalogStore
	term     string
	location string
	tasks    []model.FetchTask
}

func newAssembler(st store.CatalogStore, term, location string) *assembler {
	return &assembler{
		store:    st,
		term:     term,
		location: location,
	}
}

// flush finalizes and stores one course's records. A record with no note
// entry falls into the default group "1". At most one fetch task is queued
// per course batch.
func (a *assembler) flush(ctx context.Context, batch []*listing.Record, groupings notes.Groupings) {
	retrievingDesc := false

	for _, rec := range batch {
		group := groupings[rec.Type+" "+rec.Section]
		if len(group) == 0 {
			group = []string{"1"}
		}

		sec := model.Section{
			ID:        rec.ID,
			Subject:   rec.Subject,
			CourseNum: rec.CourseNum,
			Section:   rec.Section,
			Type:      rec.Type,
			Times:     rec.Times,
			Status:    rec.Status,
			Teachers:  rec.Teachers,
			Rooms:     rec.Rooms,
			Term:      a.term,
			Group:     group,
			Location:  a.location,
		}

		if err := a.store.UpsertSection(ctx, sec); err != nil {
			logger.Error("couldn't store section", logger.Fields{
				"subject":   sec.Subject,
				"coursenum": sec.CourseNum,
				"section":   sec.Section,
			}, err)
			continue
		}
		logger.IncrCounter("sections.upserted")

		if retrievingDesc {
			continue
		}
		has, err := a.store.HasDescription(ctx, rec.CourseNum, rec.Subject)
		if err != nil {
			logger.Error("couldn't check for description", logger.Fields{
				"subject":   rec.Subject,
				"coursenum": rec.CourseNum,
			}, err)
			continue
		}
		if !has {
			retrievingDesc = true
			a.tasks = append(a.tasks, model.FetchTask{
				CourseNum: rec.CourseNum,
				Subject:   rec.Subject,
				Title:     rec.Title,
			})
		}
	}
}
