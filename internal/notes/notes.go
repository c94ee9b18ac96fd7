// Package notes parses free-text co-enrollment notes from a course listing
// into class groupings.
//
// A note such as "Lecture 007 take one of tutorials 401-403 or 406-407 and
// one of labs 501-502" links the calling class to sets of alternative
// classes. Any two classes that share at least one group id may be scheduled
// together. Notes are best-effort text; anything that does not match the
// expected shape is ignored without error.
package notes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// Groupings maps a class key ("LEC 001") to the group ids assigned to it.
// One Groupings value is owned by a single term's parse pass and is mutated
// in place as notes are encountered.
type Groupings map[string][]string

// notePattern matches "<type word(s)> <section> take <clauses>", where the
// clause list runs until a sentence terminator.
var notePattern = regexp.MustCompile(`(\w[ \w]*) (\d+) take ([^.;]*)`)

// Apply parses a single note and records the resulting groupings. The calling
// class receives a fresh group id; each clause after "take" receives its own
// id shared by every class named in that clause. Unrecognized notes, type
// words, and clauses are skipped silently.
func (g Groupings) Apply(note string) {
	m := notePattern.FindStringSubmatch(note)
	if m == nil {
		return
	}

	code, ok := model.InvertedTypes[strings.ToUpper(strings.TrimSpace(m[1]))]
	if !ok {
		return
	}

	// Fresh ids start one above anything already assigned this term.
	next := g.maxID() + 1

	callingClass := code + " " + m[2]
	g[callingClass] = []string{strconv.Itoa(next)}
	next++

	for _, clause := range strings.Split(m[3], "and") {
		if g.applyClause(clause, next) {
			next++
		}
	}
}

// maxID returns the highest numeric group id present, or 0.
func (g Groupings) maxID() int {
	max := 0
	for _, ids := range g {
		for _, id := range ids {
			if n, err := strconv.Atoi(id); err == nil && n > max {
				max = n
			}
		}
	}
	return max
}

// applyClause handles one "and"-delimited clause, e.g.
// "one of tutorials 401-403 or 406-407". Reports whether the clause named a
// recognizable instruction type and consumed the group id.
func (g Groupings) applyClause(clause string, groupID int) bool {
	clause = strings.TrimSpace(clause)

	oneOf := false
	if strings.HasPrefix(clause, "one of") {
		clause = strings.TrimSpace(strings.TrimPrefix(clause, "one of"))
		oneOf = true
	}

	// The leading non-digit run is the instruction type word.
	i := 0
	for i < len(clause) && !isDigit(clause[i]) {
		i++
	}
	typeWord := strings.ToUpper(strings.TrimSpace(clause[:i]))
	rest := strings.TrimSpace(clause[i:])

	// "one of tutorials" is plural; singularize before the code lookup.
	if oneOf {
		typeWord = strings.TrimSuffix(typeWord, "S")
	}

	code, ok := model.InvertedTypes[typeWord]
	if !ok || rest == "" {
		return false
	}

	id := strconv.Itoa(groupID)
	for _, alt := range strings.Split(rest, " or ") {
		for _, class := range expandAlternative(alt) {
			key := code + " " + class
			g[key] = append(g[key], id)
		}
	}
	return true
}

// expandAlternative turns one "or"-delimited alternative into section
// numbers: a range ("401-403"), a comma list ("401,402"), or a bare number.
func expandAlternative(alt string) []string {
	alt = strings.TrimSpace(alt)
	if alt == "" {
		return nil
	}

	switch {
	case strings.Contains(alt, "-"):
		return classRange(alt)
	case strings.Contains(alt, ","):
		var out []string
		for _, c := range strings.Split(alt, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
		return out
	default:
		return []string{alt}
	}
}

// classRange expands "505-507" into ["505", "506", "507"]. Malformed ranges
// and ranges with a start above the end yield nothing.
func classRange(r string) []string {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return nil
	}

	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}

	var out []string
	for i := lo; i <= hi; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
