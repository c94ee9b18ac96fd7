package listing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// contOffset is the first column read on a continuation row. A continuation
// row carrying the literal token "Note" at this column routes the next
// populated column to the note handler instead of the record.
const contOffset = 6

// Record is one class section as accumulated while scanning a listing table.
// Times, Teachers and Rooms grow across continuation rows belonging to the
// same section; every other field is set once on the primary row.
type Record struct {
	ID        int
	Subject   string
	CourseNum string
	Section   string
	Title     string
	Type      string
	Times     []string
	Status    string
	Teachers  []string
	Rooms     []string
}

// Parser reconstructs class records from the positional rows of one listing
// document. OnNote receives the text of annotation rows as they appear;
// OnCourse receives the buffered records for one course whenever a course
// boundary is crossed and once more at end of document.
type Parser struct {
	schema   Schema
	onNote   func(note string)
	onCourse func(batch []*Record)
}

// NewParser creates a parser over the given column schema.
func NewParser(schema Schema, onNote func(string), onCourse func([]*Record)) *Parser {
	return &Parser{
		schema:   schema,
		onNote:   onNote,
		onCourse: onCourse,
	}
}

// Parse walks the listing document row by row. A malformed row drops only
// the record it belongs to; the rest of the document is still parsed.
func (p *Parser) Parse(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table.datadisplaytable").First()
	if table.Length() == 0 {
		return fmt.Errorf("no listing table found")
	}

	var (
		last          *Record
		lastCourseNum string
		batch         []*Record
	)

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		// Sub-heading and header rows carry no class data.
		if row.Find("th.ddtitle").Length() > 0 || row.Find("th.ddheader").Length() > 0 {
			return
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			texts = append(texts, c.Text())
		})

		if clean(texts[0]) == "" {
			// Continuation row: extends the record from the previous row.
			if last != nil {
				p.parseContinuation(last, texts)
			}
			return
		}

		rec, courseNum, ok := p.parsePrimary(texts)
		if last != nil && courseNum != lastCourseNum && len(batch) > 0 {
			p.onCourse(batch)
			batch = nil
		}
		if ok {
			batch = append(batch, rec)
		}
		last = rec
		lastCourseNum = courseNum
	})

	if len(batch) > 0 {
		p.onCourse(batch)
	}
	return nil
}

// parsePrimary builds a new record from a primary row. The course-number cell
// is returned on its own so boundary detection still sees it when the record
// is dropped for a bad cell elsewhere in the row.
func (p *Parser) parsePrimary(texts []string) (rec *Record, courseNum string, ok bool) {
	rec = &Record{}
	ok = true

	for i := 1; i < len(texts) && i < len(p.schema); i++ {
		col := p.schema[i]
		if col.Name == "" {
			continue
		}

		text := clean(texts[i])
		if col.Role == RoleCourseNum {
			courseNum = text
		}
		if !ok {
			continue
		}

		if err := applyColumn(rec, col, text); err != nil {
			logger.Warn("dropping malformed listing row", logger.Fields{
				"column": col.Name,
				"value":  text,
			})
			ok = false
		}
	}

	return rec, courseNum, ok
}

// parseContinuation extends rec with the data columns of a continuation row,
// diverting annotation text to the note handler.
func (p *Parser) parseContinuation(rec *Record, texts []string) {
	isNote := false

	for i := contOffset; i < len(texts) && i < len(p.schema); i++ {
		if i == contOffset && strings.Contains(texts[i], "Note") {
			isNote = true
			continue
		}
		if isNote && i == contOffset+1 {
			if note := clean(texts[i]); note != "" {
				p.onNote(note)
			}
			continue
		}

		col := p.schema[i]
		if col.Name == "" {
			continue
		}

		// Continuation rows only ever add to the list-typed columns; fields
		// already set on the primary row stay untouched.
		switch col.Role {
		case RoleDays, RoleTime, RoleTeacher, RoleRoom:
			applyColumn(rec, col, clean(texts[i]))
		}
	}
}

// applyColumn applies one column's extraction rule to the record. Only an
// integer coercion failure outside the seats column is an error; it drops the
// whole record.
func applyColumn(rec *Record, col Column, text string) error {
	switch col.Role {
	case RoleSeats:
		applySeats(rec, text)

	case RoleDays:
		rec.Times = append(rec.Times, text)

	case RoleTime:
		applyTime(rec, text)

	case RoleTeacher:
		applyTeacher(rec, text)

	case RoleRoom:
		rec.Rooms = append(rec.Rooms, text)

	case RoleCourseNum:
		rec.CourseNum = text

	default:
		if col.Kind == KindInt {
			n, err := strconv.Atoi(text)
			if err != nil {
				return fmt.Errorf("coercing %q to integer: %w", text, err)
			}
			if col.Name == "id" {
				rec.ID = n
			}
			return nil
		}
		switch col.Name {
		case "subject":
			rec.Subject = text
		case "section":
			rec.Section = text
		case "title":
			rec.Title = text
		case "type":
			rec.Type = text
		}
	}
	return nil
}

// applySeats resolves the seat-availability column. Closed is sticky: once a
// record is Closed, later passes never reopen it.
func applySeats(rec *Record, text string) {
	n, err := strconv.Atoi(text)
	if err != nil {
		rec.Status = model.StatusClosed
		return
	}
	if rec.Status == model.StatusClosed {
		return
	}
	if n > 0 {
		rec.Status = model.StatusOpen
	} else if rec.Status == "" {
		rec.Status = model.StatusWaitList
	}
}

// applyTime normalizes a time range like "01:00 pm-01:50 pm" and appends it
// to the record's last meeting pattern entry.
func applyTime(rec *Record, text string) {
	t := strings.ReplaceAll(text, "-", " - ")
	t = strings.ReplaceAll(t, " pm", "PM")
	t = strings.ReplaceAll(t, " am", "AM")

	if len(rec.Times) == 0 {
		rec.Times = append(rec.Times, "")
	}

	last := rec.Times[len(rec.Times)-1]
	if last != "" && last != "TBA" {
		t = " " + t
	}
	rec.Times[len(rec.Times)-1] = last + t
}

// applyTeacher appends an instructor name, stripping "(P)" primary markers
// and de-duplicating against both the raw and whitespace-normalized forms.
func applyTeacher(rec *Record, text string) {
	name := strings.TrimSpace(strings.TrimRight(text, " (P)"))
	if name == "" {
		return
	}

	formatted := strings.ReplaceAll(name, "   ", " ")
	formatted = strings.ReplaceAll(formatted, "  ", " ")

	for _, t := range rec.Teachers {
		if t == name || t == formatted {
			return
		}
	}
	rec.Teachers = append(rec.Teachers, formatted)
}

// clean normalizes cell text: non-breaking spaces become plain spaces and
// surrounding whitespace is trimmed.
func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
