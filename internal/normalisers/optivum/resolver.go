package optivum

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// teacherRegex matches listing labels of the form "J.Doe (Jane Doe)".
var teacherRegex = regexp.MustCompile(`^(.\..+?) \((.+?)\)`)

// reference is the entity a page reference points to. Exactly one of the
// entity fields is set.
type reference struct {
	kind      domain.EntityKind
	register  *domain.Register
	teacher   *domain.Teacher
	classroom *domain.Classroom
}

// splitID extracts the entity kind letter and numeric id from the filename
// of a page reference, e.g. "plany/n7.html" yields ("n", 7).
func splitID(ref domain.PageRef) (domain.EntityKind, int, error) {
	name := ref.Name()
	if len(name) < 2 {
		return "", 0, fmt.Errorf("%w: %s", domain.ErrInvalidReference, ref)
	}
	id, err := strconv.Atoi(name[1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s", domain.ErrInvalidReference, ref)
	}
	return domain.EntityKind(name[:1]), id, nil
}

// resolveReference returns the canonical entity for a page reference,
// creating it on first sighting with the given label as its name.
func resolveReference(ds *domain.Dataset, ref domain.PageRef, label string) (reference, error) {
	kind, id, err := splitID(ref)
	if err != nil {
		return reference{}, err
	}

	r := reference{kind: kind}
	switch kind {
	case domain.EntityRegister:
		r.register = ds.Register(id, domain.RegisterTypeClass, label, ref.String())
	case domain.EntityTeacher:
		name := label
		full := ""
		if m := teacherRegex.FindStringSubmatch(label); m != nil {
			name, full = m[2], m[2]
		}
		r.teacher = ds.Teacher(id, name, ref.String())
		if full != "" {
			ds.StashFullName(domain.EntityTeacher, id, full)
		}
	case domain.EntityClassroom:
		r.classroom = ds.Classroom(id, label, ref.String())
	default:
		return reference{}, fmt.Errorf("%w: unknown kind %q in %s (name=%s)",
			domain.ErrInvalidReference, kind, ref, label)
	}
	return r, nil
}
