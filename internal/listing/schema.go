package listing

// Kind is the coercion applied to a column's raw cell text.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindList
)

// Role selects the extraction rule for a column beyond plain storage. Columns
// without a special role store their text (or coerced integer) verbatim on
// the primary row only.
type Role int

const (
	// RoleNone stores the cell verbatim under the column name.
	RoleNone Role = iota
	// RoleCourseNum stores the cell and declares a course boundary when the
	// value differs from the previous primary row.
	RoleCourseNum
	// RoleSeats derives the seat status: positive integers are Open,
	// non-positive are Wait List, unparseable cells are Closed. Closed is
	// sticky for the rest of the record.
	RoleSeats
	// RoleDays appends the cell as a new meeting pattern entry.
	RoleDays
	// RoleTime normalizes the time range and appends it to the last meeting
	// pattern entry.
	RoleTime
	// RoleTeacher appends the cell to the teacher set, de-duplicating across
	// inconsistent internal whitespace and stripping primary markers.
	RoleTeacher
	// RoleRoom appends the cell to the room list.
	RoleRoom
)

// Column describes one position of a listing table. A Column with an empty
// Name is ignored entirely.
type Column struct {
	Name string
	Kind Kind
	Role Role
}

// Schema is the positional column layout of one listing table.
type Schema []Column

// Ignored is a placeholder for columns that carry no extractable data.
var Ignored = Column{}
