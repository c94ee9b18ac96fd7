package desc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// notFoundMarker flags a calendar page that resolved but carries no course.
const notFoundMarker = "page not found"

// Partial builds the minimal description stored when a course's calendar
// page could not be mined. It carries just the identity known from the
// listing, which is enough to stop later cycles from re-fetching.
func Partial(task model.FetchTask) model.CourseDescription {
	return model.CourseDescription{
		Subject:   task.Subject,
		CourseNum: task.CourseNum,
		Name:      task.Title,
	}
}

// Parse extracts a course description from a calendar page body. The page's
// own title, when present, replaces the listing title; the first text line is
// the credit hours, the second the description proper, and any further
// labeled lines fill the optional note and requisite fields.
func Parse(body string, task model.FetchTask) model.CourseDescription {
	d := Partial(task)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return d
	}

	article := doc.Find("article.welcome").First()
	if article.Length() == 0 {
		return d
	}

	// The calendar title is usually more verbose than the listing one.
	if title := refineTitle(article); title != "" {
		d.Name = title
	}

	index := 0
	article.Find("p").Each(func(_ int, p *goquery.Selection) {
		p.Find("br").ReplaceWithHtml("\n")

		for _, row := range strings.Split(p.Text(), "\n") {
			row = strings.TrimSpace(strings.ReplaceAll(row, "\u00a0", " "))
			if row == "" {
				continue
			}

			switch index {
			case 0:
				d.Hours = row
			case 1:
				d.Desc = row
			default:
				applyLabeledRow(&d, row)
			}
			index++
		}
	})

	return d
}

// refineTitle pulls the course name out of the page heading, which reads
// "SUBJ 1101 – Course Name".
func refineTitle(article *goquery.Selection) string {
	heading := article.Find("h2.title").First()
	if heading.Length() == 0 {
		return ""
	}

	parts := strings.Split(strings.TrimSpace(heading.Text()), "–")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(parts[1:], "–"))
}

// applyLabeledRow routes a "Label: value" line into the matching optional
// field. The lowercase "antireq" match mirrors the source site's casing.
func applyLabeledRow(d *model.CourseDescription, row string) {
	parts := strings.SplitN(row, ":", 2)
	label := strings.TrimSpace(parts[0])

	value := ""
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}

	switch {
	case strings.HasPrefix(label, "Note"):
		d.Note = value
	case strings.HasPrefix(label, "Prereq"):
		d.Prereq = value
	case strings.HasPrefix(label, "Coreq"):
		d.Coreq = value
	case strings.HasPrefix(label, "antireq"):
		d.Antireq = value
	}
}
