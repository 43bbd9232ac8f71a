package domain

import (
	"slices"
	"sync"
	"time"
)

// teamKey identifies a team within its register.
type teamKey struct {
	registerID int
	name       string
}

// Dataset accumulates everything found while crawling one timetable export.
//
// All mutation goes through get-or-create methods: the first sighting of an
// id creates the entity, later sightings return the same instance and only
// fill fields that are still empty. Every method is safe for concurrent use,
// so pages whose processing interleaves never create two instances for one id.
type Dataset struct {
	mu sync.Mutex

	generatedOn time.Time

	teachers   map[int]*Teacher
	classrooms map[int]*Classroom
	registers  map[int]*Register
	teams      map[teamKey]*Team
	teamCounts map[int]int
	subjects   map[string]*Subject

	lessons []*Lesson
	index   map[LessonKey]*Lesson

	// fullNames holds names captured during traversal that still have to be
	// reconciled with the display names. Cleared by ReconcileNames.
	fullNames map[EntityKind]map[int]string

	nextSynthetic int
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		teachers:      make(map[int]*Teacher),
		classrooms:    make(map[int]*Classroom),
		registers:     make(map[int]*Register),
		teams:         make(map[teamKey]*Team),
		teamCounts:    make(map[int]int),
		subjects:      make(map[string]*Subject),
		index:         make(map[LessonKey]*Lesson),
		fullNames:     make(map[EntityKind]map[int]string),
		nextSynthetic: SyntheticIDBase,
	}
}

// DatasetStats counts the entities of a dataset.
type DatasetStats struct {
	Teachers   int
	Classrooms int
	Registers  int
	Teams      int
	Subjects   int
	Lessons    int
}

// Stats returns entity counts.
func (d *Dataset) Stats() DatasetStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DatasetStats{
		Teachers:   len(d.teachers),
		Classrooms: len(d.classrooms),
		Registers:  len(d.registers),
		Teams:      len(d.teams),
		Subjects:   len(d.subjects),
		Lessons:    len(d.lessons),
	}
}

// SetGeneratedOn records the date the export was generated.
func (d *Dataset) SetGeneratedOn(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generatedOn = t
}

// GeneratedOn returns the recorded generation date, or the zero time.
func (d *Dataset) GeneratedOn() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generatedOn
}

// Teacher returns the teacher with the given id, creating it on first sighting.
func (d *Dataset) Teacher(id int, name, url string) *Teacher {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.teachers[id]
	if !ok {
		t = &Teacher{ID: id}
		d.teachers[id] = t
	}
	fillEmpty(&t.Name, name)
	fillEmpty(&t.URL, url)
	return t
}

// TeacherByName returns a teacher known by this name, or creates one with a
// synthetic id.
func (d *Dataset) TeacherByName(name string) *Teacher {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t := lowestByName(d.teachers, name, func(t *Teacher) string { return t.Name }); t != nil {
		return t
	}
	t := &Teacher{ID: d.syntheticID(), Name: name}
	d.teachers[t.ID] = t
	return t
}

// Classroom returns the classroom with the given id, creating it on first sighting.
func (d *Dataset) Classroom(id int, name, url string) *Classroom {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.classrooms[id]
	if !ok {
		c = &Classroom{ID: id}
		d.classrooms[id] = c
	}
	fillEmpty(&c.Name, name)
	fillEmpty(&c.URL, url)
	return c
}

// ClassroomByName returns a classroom known by this name, or creates one
// with a synthetic id.
func (d *Dataset) ClassroomByName(name string) *Classroom {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c := lowestByName(d.classrooms, name, func(c *Classroom) string { return c.Name }); c != nil {
		return c
	}
	c := &Classroom{ID: d.syntheticID(), Name: name}
	d.classrooms[c.ID] = c
	return c
}

// Register returns the register with the given id, creating it on first sighting.
func (d *Dataset) Register(id int, typ RegisterType, name, url string) *Register {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.registers[id]
	if !ok {
		r = &Register{ID: id, Type: typ}
		d.registers[id] = r
	}
	fillEmpty(&r.Name, name)
	fillEmpty(&r.URL, url)
	return r
}

// RegisterByName returns a register of this type known by this name, or
// creates one with a synthetic id.
func (d *Dataset) RegisterByName(typ RegisterType, name string) *Register {
	d.mu.Lock()
	defer d.mu.Unlock()

	match := lowestByName(d.registers, name, func(r *Register) string {
		if r.Type != typ {
			return ""
		}
		return r.Name
	})
	if match != nil {
		return match
	}
	r := &Register{ID: d.syntheticID(), Type: typ, Name: name}
	d.registers[r.ID] = r
	return r
}

// Team returns the team of the register with the given name, creating it on
// first sighting. A team cannot exist without its register; nil register
// yields nil.
func (d *Dataset) Team(register *Register, name string) *Team {
	if register == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := teamKey{registerID: register.ID, name: name}
	if t, ok := d.teams[key]; ok {
		return t
	}
	d.teamCounts[register.ID]++
	t := &Team{
		ID:         register.ID*100 + d.teamCounts[register.ID],
		RegisterID: register.ID,
		Name:       name,
	}
	d.teams[key] = t
	return t
}

// Subject returns the subject with this name, creating it on first sighting.
func (d *Dataset) Subject(name string) *Subject {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.subjects[name]; ok {
		return s
	}
	s := &Subject{ID: len(d.subjects) + 1, Name: name}
	d.subjects[name] = s
	return s
}

// StashFullName records the full name of an entity, to be reconciled with its
// display name once traversal is over. An already stashed name is kept.
// Returns true if the name was recorded.
func (d *Dataset) StashFullName(kind EntityKind, id int, fullName string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	names, ok := d.fullNames[kind]
	if !ok {
		names = make(map[int]string)
		d.fullNames[kind] = names
	}
	if _, exists := names[id]; exists {
		return false
	}
	names[id] = fullName
	return true
}

// PendingFullName returns the stashed full name of an entity, if any.
func (d *Dataset) PendingFullName(kind EntityKind, id int) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name, ok := d.fullNames[kind][id]
	return name, ok
}

// NameReconciler computes the final display name of an entity from its
// current name and the full name stashed during traversal.
type NameReconciler func(kind EntityKind, name, fullName string) string

// ReconcileNames renames every teacher and classroom that has a stashed full
// name, then discards all stashed names.
func (d *Dataset) ReconcileNames(reconcile NameReconciler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, full := range d.fullNames[EntityTeacher] {
		if t, ok := d.teachers[id]; ok {
			t.Name = reconcile(EntityTeacher, t.Name, full)
		}
	}
	for id, full := range d.fullNames[EntityClassroom] {
		if c, ok := d.classrooms[id]; ok {
			c.Name = reconcile(EntityClassroom, c.Name, full)
		}
	}
	d.fullNames = make(map[EntityKind]map[int]string)
}

// AddLesson records a lesson draft. If a lesson with the same key exists, the
// draft is merged into it instead: the existing lesson adopts the draft's
// teachers and classroom only where it has none. Returns true on merge.
func (d *Dataset) AddLesson(draft Lesson) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := draft.Key()
	if existing, ok := d.index[key]; ok {
		if len(existing.TeacherIDs) == 0 && len(draft.TeacherIDs) > 0 {
			existing.TeacherIDs = slices.Clone(draft.TeacherIDs)
		}
		if existing.ClassroomID == 0 && draft.ClassroomID != 0 {
			existing.ClassroomID = draft.ClassroomID
		}
		return true
	}

	lesson := draft
	lesson.ID = key.Legacy()
	lesson.TeacherIDs = slices.Clone(draft.TeacherIDs)
	if lesson.TeacherIDs == nil {
		lesson.TeacherIDs = []int{}
	}
	if draft.Number != nil {
		n := *draft.Number
		lesson.Number = &n
	}
	d.lessons = append(d.lessons, &lesson)
	d.index[key] = &lesson
	return false
}

// Snapshot copies the dataset into an immutable Timetable.
// Entities are sorted by id; lessons keep their discovery order.
func (d *Dataset) Snapshot() *Timetable {
	d.mu.Lock()
	defer d.mu.Unlock()

	tt := &Timetable{
		GeneratedOn: d.generatedOn,
		Teachers:    sortedValues(d.teachers, func(t *Teacher) int { return t.ID }),
		Classrooms:  sortedValues(d.classrooms, func(c *Classroom) int { return c.ID }),
		Registers:   sortedValues(d.registers, func(r *Register) int { return r.ID }),
		Teams:       sortedValues(d.teams, func(t *Team) int { return t.ID }),
		Subjects:    sortedValues(d.subjects, func(s *Subject) int { return s.ID }),
		Lessons:     make([]Lesson, 0, len(d.lessons)),
	}
	for _, l := range d.lessons {
		c := *l
		c.TeacherIDs = slices.Clone(l.TeacherIDs)
		tt.Lessons = append(tt.Lessons, c)
	}
	return tt
}

// syntheticID allocates an id for a name-keyed entity (caller must hold lock).
func (d *Dataset) syntheticID() int {
	id := d.nextSynthetic
	d.nextSynthetic++
	return id
}

func fillEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// lowestByName returns the entity with the lowest id whose name matches.
func lowestByName[T any](items map[int]*T, name string, nameOf func(*T) string) *T {
	var (
		best   *T
		bestID int
	)
	for id, item := range items {
		if nameOf(item) != name {
			continue
		}
		if best == nil || id < bestID {
			best, bestID = item, id
		}
	}
	return best
}

func sortedValues[K comparable, T any](items map[K]*T, idOf func(*T) int) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	slices.SortFunc(out, func(a, b T) int {
		return idOf(&a) - idOf(&b)
	})
	return out
}
