package optivum

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// reconcileName computes the final display name of a teacher or classroom.
//
// Teachers take their full name. A classroom's full name starts with its
// short code, so the remainder after the code becomes the name, unless the
// code is a room number ("021 informatyczna" stays "021").
func reconcileName(kind domain.EntityKind, name, fullName string) string {
	switch kind {
	case domain.EntityTeacher:
		if fullName == "" {
			return name
		}
		return fullName
	case domain.EntityClassroom:
		if name == "" {
			return name
		}
		_, rest, found := strings.Cut(fullName, name)
		rest = strings.TrimSpace(rest)
		first := []rune(name)[0]
		if found && rest != "" && !unicode.IsDigit(first) {
			return rest
		}
		return name
	default:
		return name
	}
}
