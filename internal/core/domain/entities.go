package domain

// SyntheticIDBase is the first id handed out to entities that were only
// ever seen as plain text, without a page reference carrying their id.
// Page ids are small, so ids from here on never collide with them.
const SyntheticIDBase = 1 << 20

// EntityKind distinguishes the named entities resolved from page references.
type EntityKind string

// Entity kinds and the letter codes used in page filenames.
const (
	// EntityRegister is a class page ("o12.html").
	EntityRegister EntityKind = "o"

	// EntityTeacher is a teacher page ("n3.html").
	EntityTeacher EntityKind = "n"

	// EntityClassroom is a classroom page ("s7.html").
	EntityClassroom EntityKind = "s"
)

// IsValid returns true if the kind is recognised.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityRegister, EntityTeacher, EntityClassroom:
		return true
	default:
		return false
	}
}

// String returns a human-readable kind name.
func (k EntityKind) String() string {
	switch k {
	case EntityRegister:
		return "register"
	case EntityTeacher:
		return "teacher"
	case EntityClassroom:
		return "classroom"
	default:
		return unknownDescription
	}
}

// RegisterType classifies a register.
type RegisterType string

// RegisterTypeClass is a whole class group. It is the only type in use.
const RegisterTypeClass RegisterType = "class"

// Teacher is a person teaching lessons.
type Teacher struct {
	// ID is parsed from the teacher's page filename, or synthetic.
	ID int `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// URL is the teacher's own timetable page, if known.
	URL string `json:"url,omitempty"`
}

// Classroom is a room lessons take place in.
type Classroom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Register is a whole class group, e.g. "3B".
type Register struct {
	ID   int          `json:"id"`
	Type RegisterType `json:"type"`
	Name string       `json:"name"`
	URL  string       `json:"url,omitempty"`
}

// Team is a named subgroup of a register, e.g. "3B-1/2".
type Team struct {
	// ID is derived from the register id and the team's creation order
	// within that register.
	ID int `json:"id"`

	// RegisterID is the owning register.
	RegisterID int `json:"register_id"`

	// Name is the register name followed by the team suffix.
	Name string `json:"name"`
}

// Subject is a taught subject, keyed by its display name.
type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
