// Package listing reconstructs class records from the positional course
// listing table of a registration portal.
//
// The listing package walks a listing document row by row against a column
// schema, classifying each row as a header, sub-heading, primary, or
// continuation row. Primary rows start a record; continuation rows extend the
// previous record with additional meeting times, teachers, and rooms, or
// divert annotation text to a note handler. Records are flushed one course at
// a time, detected by a change in the course-number column.
package listing
