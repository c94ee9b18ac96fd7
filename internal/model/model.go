package model

// Term is one registration term as presented by the portal. Terms are never
// deleted; a scrape cycle disables every existing term and re-enables the
// freshly discovered set.
type Term struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Enabled bool   `bson:"enabled" json:"enabled"`
}

// Subject is a course subject code and its human-readable name. Subjects are
// term-independent.
type Subject struct {
	Code string `bson:"subject" json:"subject"`
	Name string `bson:"name" json:"name"`
}

// Section is one finalized class offering for a term. Group holds the
// co-enrollment group ids resolved from listing notes; any two sections that
// share at least one group id may be scheduled together.
type Section struct {
	ID        int      `bson:"id" json:"id"`
	Subject   string   `bson:"subject" json:"subject"`
	CourseNum string   `bson:"coursenum" json:"coursenum"`
	Section   string   `bson:"section" json:"section"`
	Type      string   `bson:"type" json:"type"`
	Times     []string `bson:"times" json:"times"`
	Status    string   `bson:"status" json:"status"`
	Teachers  []string `bson:"teachers" json:"teachers"`
	Rooms     []string `bson:"rooms" json:"rooms"`
	Term      string   `bson:"term" json:"term"`
	Group     []string `bson:"group" json:"group"`
	Location  string   `bson:"location" json:"location"`
}

// Seat availability states for a section.
const (
	StatusOpen     = "Open"
	StatusClosed   = "Closed"
	StatusWaitList = "Wait List"
)

// CourseDescription is the free-text calendar entry for one course. Only
// Subject, CourseNum and Name are guaranteed; the rest depend on how much of
// the calendar page could be mined.
type CourseDescription struct {
	Subject   string `bson:"subject" json:"subject"`
	CourseNum string `bson:"coursenum" json:"coursenum"`
	Name      string `bson:"name" json:"name"`
	Hours     string `bson:"hours,omitempty" json:"hours,omitempty"`
	Desc      string `bson:"desc,omitempty" json:"desc,omitempty"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	Prereq    string `bson:"prereq,omitempty" json:"prereq,omitempty"`
	Coreq     string `bson:"coreq,omitempty" json:"coreq,omitempty"`
	Antireq   string `bson:"antireq,omitempty" json:"antireq,omitempty"`
}

// FetchTask queues one course whose description has not been stored yet.
// Title seeds the description name in case the calendar page is missing.
type FetchTask struct {
	CourseNum string
	Subject   string
	Title     string
}

// InstructionTypes maps the portal's instruction type codes to their
// human-readable expansions.
var InstructionTypes = map[string]string{
	"LEC": "LECTURE",
	"LAB": "LAB",
	"TUT": "TUTORIAL",
	"DD":  "DISTANCE DELIVERY",
	"BL":  "BLENDED DELIVERY",
	"WKT": "WORK TERM",
	"FLD": "FIELD WORK",
	"PRC": "PRACTICUM",
	"CLI": "CLINICAL",
	"IDS": "INTERNSHIP",
}

// InvertedTypes maps expansions back to their codes (LECTURE -> LEC).
var InvertedTypes = invert(InstructionTypes)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
